package telegram

// User-facing texts. Expected domain outcomes keep the informal tone;
// infrastructure failures get the generic apology.
const (
	msgPermissionDenied = "У вас нет прав для этой команды! 😡"
	msgCreatorOnly      = "Эта команда только для создателя бота 🤫"
	msgGenericError     = "Что-то пошло не так. Мы уже разбираемся! 🙏"

	msgRegistered        = "Вы зарегистрированы! Xoş gəldiniz! 🏐"
	msgAlreadyRegistered = "Вы уже зарегистрированы 😉"
	msgNoRegistered      = "Пока никто не зарегистрировался 🤷"
	msgNoGames           = "Активных игр пока нет 🤷"
	msgNoPlayers         = "Пока никто не записался 🤷"
	msgNoClosedGames     = "Закрытых игр нет, открывать нечего 🤷"
	msgMenu              = "Выберите действие:"

	msgGameClosedPress = "%s куда ты прёшь? Игра закрыта!"
	msgAttended        = "%s вы записались на %s!"
	msgMaybeAttended   = "%s вы записались на %s! Но это не точно 😒"
	msgDeclineJoke     = "%s удирает с игры на %s. %s"
	msgDeclineNeutral  = "%s минусует"

	msgGameDeactivated = "Игра на %s закрыта!"
	msgGameActivated   = "Игра на %s снова открыта!"
	msgGameNotFound    = "Такой игры не нашлось 🤷"
	msgGameDeleted     = "Игра удалена насовсем 🗑"
	msgLimitChanged    = "Лимит на %s теперь %d"
	msgGuestAdded      = "Гость %s записан на %s! %s"
	msgGuestDeleted    = "Гость удалён"
	msgGuestNotFound   = "Гость не найден 🤷"
	msgNobodyToConfirm = "Некого подтверждать 🤷"
	msgPlayerConfirmed = "Готово, отметил ✅"

	msgInvalidGameFormat  = "Неверный формат. Пример: /startgame 01.01.2025/18:00/20:00/12/Зал №1/понедельник"
	msgInvalidLimitFormat = "Неверный формат. Пример: /changelimit понедельник/14"
	msgInvalidGuestFormat = "Неверный формат. Пример: /addguest понедельник/Иван Иванов или .../* для «не точно»"
	msgInvalidUserFormat  = "Неверный формат. Пример: /adminedituser 12/Имя/Фамилия/Ad Soyad"
	msgInvalidJokeFormat  = "Неверный формат. Пример: /adminaddjoke 1///текст шутки"
	msgUserUpdated        = "Данные игрока обновлены ✍️"

	msgChooseGroup    = "Выберите группу:"
	msgGroupSelected  = "Группа выбрана ✅ Теперь отправьте /startgame 01.01.2025/18:00/20:00/12/Зал №1/понедельник"
	msgNoGroups       = "Группы не подключены 🤷"
	msgGroupConnected = "Группа «%s» подключена ✅"
	msgNotGroupAdmin  = "Вы не админ в этой группе 😡"
	msgGroupNotLinked = "Эта группа не подключена к данному чату 🤷"

	msgPrivateOffer   = "У меня есть личное сообщение для @%s 📩"
	msgPrivateExpired = "Сообщение уже доставлено или устарело 🤷"
	msgPrivateWrong   = "Это сообщение не для вас 😡"
	msgWriteMeFirst   = "Сначала напишите мне в личку, иначе я не смогу ответить 🙏"

	msgJokeAdded    = "Шутка №%d добавлена 🤡"
	msgJokeNotFound = "Такой шутки нет 🤷"
	msgJokeUpdated  = "Шутка обновлена 🤡"
	msgJokeDeleted  = "Шутка удалена 🗑"
	msgNoJokes      = "Шуток пока нет. Грустно 😔"

	msgWelcome  = "Добро пожаловать, %s! Xoş gəlmisiniz! 🏐 Жми /register, чтобы попасть в списки."
	msgFarewell = "%s покидает нас. Hələlik! 👋"

	msgHello      = "Салам! 👋"
	msgBye        = "Пока! Hələlik! 👋"
	msgAlohomora  = "Алохомора! 🪄 Но двери тут открываю не я."
	msgAvada      = "Авада Кедавра! ⚡ %s выбывает... и тут же воскресает."
	msgYourBot    = "Да, я бот. Зато какой! 🤖"
	msgShutUpBack = "Сам заткнись! 😤"

	msgInactiveNudge = "Давно не виделись: %s! %s"
)

const (
	btnAttend     = "Буду ✅"
	btnMaybe      = "Не знаю 🤔"
	btnDecline    = "Не буду ❌"
	btnShowGames  = "Игры 🏐"
	btnList       = "Игроки 📋"
	btnRegister   = "Регистрация ✍️"
	btnAgilliol   = "Agıllı ol 🧠"
	btnShowHidden = "Показать 📩"
)
