package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kamran134/fortuna-telegram-bot/internal/models"
)

// In-memory fakes -------------------------------------------------------------

type fakeUsers struct {
	seq    int64
	rows   map[int64]*models.User
	groups map[int64]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: make(map[int64]*models.User), groups: make(map[int64]string)}
}

func (f *fakeUsers) GetByAccount(_ context.Context, accountID, chatID int64) (*models.User, error) {
	for _, u := range f.rows {
		if u.UserID == accountID && u.ChatID == chatID && !u.IsGuest {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) ListRegistered(_ context.Context, chatID int64) ([]models.User, error) {
	var out []models.User
	for id := int64(1); id <= f.seq; id++ {
		if u, ok := f.rows[id]; ok && u.ChatID == chatID && !u.IsGuest && u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) ListChats(_ context.Context) ([]int64, error) { return nil, nil }

func (f *fakeUsers) Create(_ context.Context, user models.User) (int64, error) {
	f.seq++
	user.ID = f.seq
	user.Active = true
	f.rows[user.ID] = &user
	return user.ID, nil
}

func (f *fakeUsers) CreateGuest(_ context.Context, chatID int64, firstName string, lastName *string) (int64, error) {
	f.seq++
	f.rows[f.seq] = &models.User{
		ID: f.seq, UserID: f.seq, ChatID: chatID,
		FirstName: firstName, LastName: lastName, IsGuest: true, Active: true,
	}
	return f.seq, nil
}

func (f *fakeUsers) AddToGroup(_ context.Context, userDBID, chatID int64, role string) error {
	f.groups[userDBID] = role
	return nil
}

func (f *fakeUsers) FillPlaceholder(context.Context, int64, int64, string, *string, *string) error {
	return nil
}

func (f *fakeUsers) UpdateInfo(_ context.Context, id int64, firstName string, lastName, fullNameAZ *string) error {
	u, ok := f.rows[id]
	if !ok {
		return models.ErrNotFound
	}
	u.FirstName, u.LastName, u.FullNameAZ = firstName, lastName, fullNameAZ
	return nil
}

func (f *fakeUsers) Deactivate(_ context.Context, accountID, chatID int64) error {
	for _, u := range f.rows {
		if u.UserID == accountID && u.ChatID == chatID {
			u.Active = false
		}
	}
	return nil
}

func (f *fakeUsers) Reactivate(_ context.Context, id int64) error {
	u, ok := f.rows[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Active = true
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeUsers) Random(_ context.Context, chatID int64) (*models.User, error) {
	users, _ := f.ListRegistered(context.Background(), chatID)
	if len(users) == 0 {
		return nil, models.ErrNotFound
	}
	return &users[0], nil
}

func (f *fakeUsers) ListInactive(context.Context, int64, time.Time, int) ([]models.User, error) {
	return nil, nil
}

type fakeGames struct {
	seq  int64
	rows map[int64]*models.Game
}

func newFakeGames() *fakeGames { return &fakeGames{rows: make(map[int64]*models.Game)} }

func (f *fakeGames) Upsert(_ context.Context, game models.Game) (int64, error) {
	for _, g := range f.rows {
		if g.ChatID == game.ChatID && g.GameDate.Equal(game.GameDate) &&
			g.GameStarts == game.GameStarts && g.GameEnds == game.GameEnds && g.Place == game.Place {
			g.UsersLimit = game.UsersLimit
			g.Label = game.Label
			g.Status = true
			return g.ID, nil
		}
	}
	f.seq++
	game.ID = f.seq
	game.Status = true
	f.rows[game.ID] = &game
	return game.ID, nil
}

func (f *fakeGames) Get(_ context.Context, id int64) (*models.Game, error) {
	g, ok := f.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGames) ListActive(_ context.Context, chatID int64) ([]models.Game, error) {
	var out []models.Game
	for id := int64(1); id <= f.seq; id++ {
		if g, ok := f.rows[id]; ok && g.ChatID == chatID && g.Status {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGames) FindActiveByLabel(_ context.Context, chatID int64, label string) (*models.Game, error) {
	var found *models.Game
	for _, g := range f.rows {
		if g.ChatID == chatID && g.Status && g.Label != nil &&
			strings.EqualFold(*g.Label, label) && (found == nil || g.ID > found.ID) {
			found = g
		}
	}
	if found == nil {
		return nil, models.ErrNotFound
	}
	copied := *found
	return &copied, nil
}

func (f *fakeGames) SetStatus(_ context.Context, id int64, active bool) error {
	g, ok := f.rows[id]
	if !ok {
		return models.ErrNotFound
	}
	g.Status = active
	return nil
}

func (f *fakeGames) ActivateLatestClosed(_ context.Context, chatID int64) (*models.Game, error) {
	var found *models.Game
	for _, g := range f.rows {
		if g.ChatID == chatID && !g.Status && (found == nil || g.ID > found.ID) {
			found = g
		}
	}
	if found == nil {
		return nil, models.ErrNotFound
	}
	found.Status = true
	copied := *found
	return &copied, nil
}

func (f *fakeGames) ChangeLimit(_ context.Context, id int64, limit int) error {
	g, ok := f.rows[id]
	if !ok {
		return models.ErrNotFound
	}
	g.UsersLimit = limit
	return nil
}

func (f *fakeGames) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type attendanceKey struct{ userDBID, gameID int64 }

type fakePlayers struct {
	order []attendanceKey
	rows  map[attendanceKey]bool
	users *fakeUsers
}

func newFakePlayers(users *fakeUsers) *fakePlayers {
	return &fakePlayers{rows: make(map[attendanceKey]bool), users: users}
}

func (f *fakePlayers) UpsertAttendance(_ context.Context, userDBID, gameID int64, confirmed bool) error {
	key := attendanceKey{userDBID, gameID}
	if _, ok := f.rows[key]; !ok {
		f.order = append(f.order, key)
	}
	f.rows[key] = confirmed
	return nil
}

func (f *fakePlayers) RemoveAttendance(_ context.Context, userDBID, gameID int64) (bool, error) {
	key := attendanceKey{userDBID, gameID}
	if _, ok := f.rows[key]; !ok {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakePlayers) ListByGame(_ context.Context, gameID int64) ([]models.GamePlayer, error) {
	var out []models.GamePlayer
	for _, key := range f.order {
		confirmed, ok := f.rows[key]
		if !ok || key.gameID != gameID {
			continue
		}
		player := models.GamePlayer{UserDBID: key.userDBID, GameID: gameID, Confirmed: confirmed}
		if u, ok := f.users.rows[key.userDBID]; ok {
			player.FirstName = u.FirstName
			player.IsGuest = u.IsGuest
		}
		out = append(out, player)
	}
	return out, nil
}

func (f *fakePlayers) SetConfirmed(_ context.Context, userDBID, gameID int64, confirmed bool) error {
	key := attendanceKey{userDBID, gameID}
	if _, ok := f.rows[key]; !ok {
		return models.ErrNotFound
	}
	f.rows[key] = confirmed
	return nil
}

// Helpers ---------------------------------------------------------------------

func newGameFixture(t *testing.T) (GameService, *fakeUsers, *fakeGames, *fakePlayers) {
	t.Helper()
	users := newFakeUsers()
	games := newFakeGames()
	players := newFakePlayers(users)
	return NewGameService(games, players, users), users, games, players
}

func addGame(t *testing.T, games *fakeGames, chatID int64, label string, active bool) int64 {
	t.Helper()
	id, err := games.Upsert(context.Background(), models.Game{
		ChatID:     chatID,
		GameDate:   time.Date(2025, 1, int(games.seq)+1, 0, 0, 0, 0, time.UTC),
		GameStarts: "18:00",
		GameEnds:   "20:00",
		Place:      "Зал",
		UsersLimit: 12,
		Label:      &label,
	})
	if err != nil {
		t.Fatalf("upsert game: %v", err)
	}
	if !active {
		if err := games.SetStatus(context.Background(), id, false); err != nil {
			t.Fatalf("close game: %v", err)
		}
	}
	return id
}

// Attendance ------------------------------------------------------------------

func TestAttendClosedGameRejected(t *testing.T) {
	svc, _, games, players := newGameFixture(t)
	gameID := addGame(t, games, 1, "понедельник", false)

	_, err := svc.Attend(context.Background(), AttendanceInput{ChatID: 1, GameID: gameID, AccountID: 100})
	if !errors.Is(err, ErrGameClosed) {
		t.Fatalf("err = %v, want ErrGameClosed", err)
	}
	if len(players.rows) != 0 {
		t.Errorf("attendance recorded on a closed game")
	}
}

func TestAttendUnknownGameRejected(t *testing.T) {
	svc, _, _, _ := newGameFixture(t)
	if _, err := svc.Attend(context.Background(), AttendanceInput{ChatID: 1, GameID: 0, AccountID: 100}); !errors.Is(err, ErrGameClosed) {
		t.Errorf("err = %v, want closed-game rejection for unknown id", err)
	}
}

func TestAttendCreatesPlaceholderUser(t *testing.T) {
	svc, users, games, players := newGameFixture(t)
	gameID := addGame(t, games, 1, "понедельник", true)

	game, err := svc.Attend(context.Background(), AttendanceInput{ChatID: 1, GameID: gameID, AccountID: 100})
	if err != nil {
		t.Fatalf("attend: %v", err)
	}
	if game == nil || game.Label == nil || *game.Label != "понедельник" {
		t.Errorf("game = %+v", game)
	}
	created, err := users.GetByAccount(context.Background(), 100, 1)
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if created.FirstName != "Unknown" {
		t.Errorf("first name = %q, want placeholder", created.FirstName)
	}
	if confirmed := players.rows[attendanceKey{created.ID, gameID}]; !confirmed {
		t.Errorf("attendance not confirmed")
	}
}

// attend → maybe → attend leaves one row reflecting only the last action.
func TestAttendanceToggleKeepsOneRow(t *testing.T) {
	svc, users, games, players := newGameFixture(t)
	gameID := addGame(t, games, 1, "понедельник", true)
	in := AttendanceInput{ChatID: 1, GameID: gameID, AccountID: 100}

	if _, err := svc.Attend(context.Background(), in); err != nil {
		t.Fatalf("attend: %v", err)
	}
	if _, err := svc.Maybe(context.Background(), in); err != nil {
		t.Fatalf("maybe: %v", err)
	}
	if _, err := svc.Attend(context.Background(), in); err != nil {
		t.Fatalf("attend again: %v", err)
	}

	if len(players.rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(players.rows))
	}
	user, _ := users.GetByAccount(context.Background(), 100, 1)
	if !players.rows[attendanceKey{user.ID, gameID}] {
		t.Errorf("confirmed = false, want last action to win")
	}
}

// Maybe intentionally skips the game-open check.
func TestMaybeIgnoresClosedGame(t *testing.T) {
	svc, _, games, players := newGameFixture(t)
	gameID := addGame(t, games, 1, "понедельник", false)

	if _, err := svc.Maybe(context.Background(), AttendanceInput{ChatID: 1, GameID: gameID, AccountID: 100}); err != nil {
		t.Fatalf("maybe on closed game: %v", err)
	}
	if len(players.rows) != 1 {
		t.Errorf("row count = %d, want the undecided mark recorded", len(players.rows))
	}
}

func TestDeclineRemovesRow(t *testing.T) {
	svc, _, games, players := newGameFixture(t)
	gameID := addGame(t, games, 1, "понедельник", true)
	in := AttendanceInput{ChatID: 1, GameID: gameID, AccountID: 100}

	if _, err := svc.Attend(context.Background(), in); err != nil {
		t.Fatalf("attend: %v", err)
	}
	removed, err := svc.Decline(context.Background(), in)
	if err != nil || !removed {
		t.Fatalf("removed=%v err=%v, want row deleted", removed, err)
	}
	if len(players.rows) != 0 {
		t.Errorf("row survived decline")
	}

	removed, err = svc.Decline(context.Background(), in)
	if err != nil || removed {
		t.Errorf("removed=%v err=%v, want neutral no-op on second decline", removed, err)
	}
}

func TestDeclineWithoutUserIsNeutral(t *testing.T) {
	svc, _, games, _ := newGameFixture(t)
	gameID := addGame(t, games, 1, "понедельник", true)

	removed, err := svc.Decline(context.Background(), AttendanceInput{ChatID: 1, GameID: gameID, AccountID: 999})
	if err != nil || removed {
		t.Errorf("removed=%v err=%v, want nothing created or deleted", removed, err)
	}
}

// Roster ----------------------------------------------------------------------

func TestSortRosterStableConfirmedFirst(t *testing.T) {
	players := []models.GamePlayer{
		{FirstName: "а", Confirmed: false},
		{FirstName: "б", Confirmed: true},
		{FirstName: "в", Confirmed: false},
		{FirstName: "г", Confirmed: true},
	}
	sorted := SortRoster(players)
	want := []string{"б", "г", "а", "в"}
	for i, p := range sorted {
		if p.FirstName != want[i] {
			t.Fatalf("order = %v, want confirmed first with participation order kept", names(sorted))
		}
	}
}

func names(players []models.GamePlayer) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.FirstName
	}
	return out
}

// Label lookup ----------------------------------------------------------------

func TestRosterByLabelHighestIDWins(t *testing.T) {
	svc, _, games, _ := newGameFixture(t)
	first := addGame(t, games, 1, "понедельник", true)
	second := addGame(t, games, 1, "Понедельник", true)

	game, _, err := svc.RosterByLabel(context.Background(), 1, "ПОНЕДЕЛЬНИК")
	if err != nil {
		t.Fatalf("roster by label: %v", err)
	}
	if game.ID != second || game.ID == first {
		t.Errorf("game id = %d, want the most recently created (%d)", game.ID, second)
	}
}

// Guests ----------------------------------------------------------------------

func TestSplitGuestName(t *testing.T) {
	first, last := SplitGuestName("иван    иванов младший")
	if first != "Иван" {
		t.Errorf("first = %q", first)
	}
	if last == nil || *last != "Иванов Младший" {
		t.Errorf("last = %v", last)
	}
	first, last = SplitGuestName("пеле")
	if first != "Пеле" || last != nil {
		t.Errorf("single token: first=%q last=%v", first, last)
	}
}

func TestAddGuestMaybeMarker(t *testing.T) {
	svc, users, games, players := newGameFixture(t)
	gameID := addGame(t, games, 1, "среда", true)

	game, name, err := svc.AddGuest(context.Background(), 1, "среда", "иван иванов", true)
	if err != nil {
		t.Fatalf("add guest: %v", err)
	}
	if game.ID != gameID || name != "Иван Иванов" {
		t.Errorf("game=%d name=%q", game.ID, name)
	}
	var guestID int64
	for id, u := range users.rows {
		if u.IsGuest {
			guestID = id
		}
	}
	if guestID == 0 {
		t.Fatalf("guest row not created")
	}
	if confirmed := players.rows[attendanceKey{guestID, gameID}]; confirmed {
		t.Errorf("maybe marker ignored, guest stored as confirmed")
	}
}

func TestDeleteGuestCompound(t *testing.T) {
	svc, users, games, players := newGameFixture(t)
	gameID := addGame(t, games, 1, "среда", true)
	if _, _, err := svc.AddGuest(context.Background(), 1, "среда", "иван иванов", false); err != nil {
		t.Fatalf("add guest: %v", err)
	}
	var guestID int64
	for id, u := range users.rows {
		if u.IsGuest {
			guestID = id
		}
	}

	if err := svc.DeleteGuest(context.Background(), gameID, guestID); err != nil {
		t.Fatalf("delete guest: %v", err)
	}
	if _, ok := users.rows[guestID]; ok {
		t.Errorf("guest user row survived")
	}
	if len(players.rows) != 0 {
		t.Errorf("guest attendance row survived")
	}
}

func TestDeleteGuestRejectsRealUser(t *testing.T) {
	svc, users, games, players := newGameFixture(t)
	gameID := addGame(t, games, 1, "среда", true)
	realID, _ := users.Create(context.Background(), models.User{UserID: 100, ChatID: 1, FirstName: "Анар"})
	if err := players.UpsertAttendance(context.Background(), realID, gameID, true); err != nil {
		t.Fatalf("seed attendance: %v", err)
	}

	if err := svc.DeleteGuest(context.Background(), gameID, realID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want not-found for non-guest", err)
	}
	if _, ok := users.rows[realID]; !ok {
		t.Errorf("real user deleted")
	}
	if len(players.rows) != 1 {
		t.Errorf("real user's attendance touched")
	}
}

// Game creation ---------------------------------------------------------------

func TestCreateRequiresRegisteredUsers(t *testing.T) {
	svc, _, _, _ := newGameFixture(t)
	_, _, err := svc.Create(context.Background(), CreateGameInput{
		ChatID: 1, GameDate: time.Now(), GameStarts: "18:00", GameEnds: "20:00",
		Place: "Зал", UsersLimit: 12, Label: "понедельник",
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want not-found when nobody registered", err)
	}
}

func TestCreateReannounceUpdatesInPlace(t *testing.T) {
	svc, users, games, _ := newGameFixture(t)
	if _, err := users.Create(context.Background(), models.User{UserID: 100, ChatID: 1, FirstName: "Анар"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	input := CreateGameInput{
		ChatID: 1, GameDate: date, GameStarts: "18:00", GameEnds: "20:00",
		Place: "Зал", UsersLimit: 10, Label: "понедельник",
	}

	first, _, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	input.UsersLimit = 14
	input.Label = "вторник"
	second, _, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("re-announce: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("ids %d != %d, want one row", first.ID, second.ID)
	}
	if second.UsersLimit != 14 || second.Label == nil || *second.Label != "вторник" {
		t.Errorf("second = %+v, want latest limit and label", second)
	}
	if len(games.rows) != 1 {
		t.Errorf("row count = %d, want 1", len(games.rows))
	}
}

// Users -----------------------------------------------------------------------

func TestRegisterOnceThenMembershipOnly(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users)
	in := RegisterInput{AccountID: 100, ChatID: 1, FirstName: "Анар", Role: "member"}

	created, err := svc.Register(context.Background(), in)
	if err != nil || !created {
		t.Fatalf("created=%v err=%v, want new row", created, err)
	}
	created, err = svc.Register(context.Background(), in)
	if err != nil || created {
		t.Fatalf("created=%v err=%v, want repeat to be a no-op", created, err)
	}
	if len(users.rows) != 1 {
		t.Errorf("row count = %d, want 1", len(users.rows))
	}
}

// A member who left the chat is soft-deactivated; registering again must
// bring them back into the registered list, not answer "already registered".
func TestRegisterReactivatesReturningMember(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users)
	in := RegisterInput{AccountID: 100, ChatID: 1, FirstName: "Анар", Role: "member"}

	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := users.Deactivate(context.Background(), 100, 1); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	created, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if !created {
		t.Errorf("created = false, want the return treated as a fresh registration")
	}
	registered, err := svc.Registered(context.Background(), 1)
	if err != nil {
		t.Fatalf("registered: %v", err)
	}
	if len(registered) != 1 {
		t.Fatalf("registered count = %d, want the returning member back in the list", len(registered))
	}
	if !registered[0].Active {
		t.Errorf("row still inactive after re-registration")
	}
}

// Jokes -----------------------------------------------------------------------

type fakeJokes struct {
	seq  int64
	rows map[int64]*models.Joke
}

func (f *fakeJokes) Random(_ context.Context, jokeType int) (*models.Joke, error) {
	for _, j := range f.rows {
		if j.Type == jokeType {
			return j, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeJokes) List(context.Context) ([]models.Joke, error) { return nil, nil }

func (f *fakeJokes) Create(_ context.Context, text string, jokeType int) (int64, error) {
	f.seq++
	f.rows[f.seq] = &models.Joke{ID: f.seq, Text: text, Type: jokeType}
	return f.seq, nil
}

func (f *fakeJokes) Update(_ context.Context, id int64, text string, jokeType int) error {
	if _, ok := f.rows[id]; !ok {
		return models.ErrNotFound
	}
	f.rows[id] = &models.Joke{ID: id, Text: text, Type: jokeType}
	return nil
}

func (f *fakeJokes) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func TestJokeAddValidatesType(t *testing.T) {
	svc := NewJokeService(&fakeJokes{rows: make(map[int64]*models.Joke)})
	if _, err := svc.Add(context.Background(), 0, "текст"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("type 0 accepted: %v", err)
	}
	if _, err := svc.Add(context.Background(), 10, "текст"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("type 10 accepted: %v", err)
	}
	if _, err := svc.Add(context.Background(), models.JokeLeftGame, "   "); !errors.Is(err, models.ErrValidation) {
		t.Errorf("blank text accepted: %v", err)
	}
	if _, err := svc.Add(context.Background(), models.JokeLeftGame, "убежал в закат"); err != nil {
		t.Errorf("valid joke rejected: %v", err)
	}
}
