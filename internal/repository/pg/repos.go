package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kamran134/fortuna-telegram-bot/internal/models"
	"github.com/kamran134/fortuna-telegram-bot/internal/repository"
)

// Users -----------------------------------------------------------------------

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) repository.UsersRepository {
	return &UsersRepo{pool: pool}
}

const userColumns = `id, user_id, chat_id, first_name, last_name, username, fullname_az, is_guest, active`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var lastName, username, fullAz *string
	if err := row.Scan(
		&user.ID,
		&user.UserID,
		&user.ChatID,
		&user.FirstName,
		&lastName,
		&username,
		&fullAz,
		&user.IsGuest,
		&user.Active,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	user.LastName = lastName
	user.UserName = username
	user.FullNameAZ = fullAz
	return &user, nil
}

func (r *UsersRepo) GetByAccount(ctx context.Context, accountID, chatID int64) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE user_id = $1 AND chat_id = $2 AND is_guest = FALSE
		ORDER BY id DESC
		LIMIT 1`, accountID, chatID))
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`, id))
}

func (r *UsersRepo) ListRegistered(ctx context.Context, chatID int64) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE chat_id = $1 AND is_guest = FALSE AND active = TRUE
		ORDER BY id`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *user)
	}
	return items, rows.Err()
}

func (r *UsersRepo) ListChats(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT chat_id
		FROM users
		WHERE is_guest = FALSE AND active = TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, err
		}
		items = append(items, chatID)
	}
	return items, rows.Err()
}

func (r *UsersRepo) Create(ctx context.Context, user models.User) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, `
		INSERT INTO users (user_id, chat_id, first_name, last_name, username, fullname_az, is_guest, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id`,
		user.UserID,
		user.ChatID,
		user.FirstName,
		user.LastName,
		user.UserName,
		user.FullNameAZ,
		user.IsGuest,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateGuest assigns a synthetic account id so guest rows never collide with
// real accounts.
func (r *UsersRepo) CreateGuest(ctx context.Context, chatID int64, firstName string, lastName *string) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, `
		INSERT INTO users (user_id, chat_id, first_name, last_name, is_guest, active)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, TRUE, TRUE
		FROM users
		RETURNING id`,
		chatID,
		firstName,
		lastName,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UsersRepo) AddToGroup(ctx context.Context, userDBID, chatID int64, role string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO group_users (user_id, chat_id, chat_role)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		userDBID, chatID, role)
	return err
}

func (r *UsersRepo) FillPlaceholder(ctx context.Context, accountID, chatID int64, firstName string, lastName, username *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $3, last_name = $4, username = $5
		WHERE user_id = $1 AND chat_id = $2 AND is_guest = FALSE AND first_name = 'Unknown'`,
		accountID, chatID, firstName, lastName, username)
	return err
}

func (r *UsersRepo) UpdateInfo(ctx context.Context, id int64, firstName string, lastName, fullNameAZ *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, fullname_az = $4
		WHERE id = $1`,
		id, firstName, lastName, fullNameAZ)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) Deactivate(ctx context.Context, accountID, chatID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET active = FALSE
		WHERE user_id = $1 AND chat_id = $2 AND is_guest = FALSE`,
		accountID, chatID)
	return err
}

func (r *UsersRepo) Reactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET active = TRUE
		WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) Random(ctx context.Context, chatID int64) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE chat_id = $1 AND is_guest = FALSE AND active = TRUE
		ORDER BY RANDOM()
		LIMIT 1`, chatID))
}

func (r *UsersRepo) ListInactive(ctx context.Context, chatID int64, since time.Time, minGames int) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.user_id, u.chat_id, u.first_name, u.last_name, u.username, u.fullname_az, u.is_guest, u.active
		FROM users u
		LEFT JOIN game_users gu ON gu.user_id = u.id AND gu.participate_time >= $2
		WHERE u.chat_id = $1 AND u.is_guest = FALSE AND u.active = TRUE
		GROUP BY u.id
		HAVING COUNT(gu.game_id) < $3
		ORDER BY u.id`, chatID, since, minGames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *user)
	}
	return items, rows.Err()
}

// Games -----------------------------------------------------------------------

type GamesRepo struct {
	pool *pgxpool.Pool
}

func NewGamesRepo(pool *pgxpool.Pool) repository.GamesRepository {
	return &GamesRepo{pool: pool}
}

const gameColumns = `id, chat_id, game_date, to_char(game_starts, 'HH24:MI'), to_char(game_ends, 'HH24:MI'), place, users_limit, status, label`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	var label *string
	if err := row.Scan(
		&game.ID,
		&game.ChatID,
		&game.GameDate,
		&game.GameStarts,
		&game.GameEnds,
		&game.Place,
		&game.UsersLimit,
		&game.Status,
		&label,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	game.Label = label
	return &game, nil
}

// Upsert re-announces an existing game in place: identical natural-key
// parameters update the limit and label and reactivate the row.
func (r *GamesRepo) Upsert(ctx context.Context, game models.Game) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, `
		INSERT INTO games (chat_id, game_date, game_starts, game_ends, place, users_limit, status, label)
		VALUES ($1, $2, $3::time, $4::time, $5, $6, TRUE, $7)
		ON CONFLICT (chat_id, game_date, game_starts, game_ends, place)
		DO UPDATE SET users_limit = EXCLUDED.users_limit, status = TRUE, label = EXCLUDED.label
		RETURNING id`,
		game.ChatID,
		game.GameDate,
		game.GameStarts,
		game.GameEnds,
		game.Place,
		game.UsersLimit,
		game.Label,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *GamesRepo) Get(ctx context.Context, id int64) (*models.Game, error) {
	return scanGame(r.pool.QueryRow(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = $1`, id))
}

func (r *GamesRepo) ListActive(ctx context.Context, chatID int64) ([]models.Game, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE chat_id = $1 AND status = TRUE
		ORDER BY game_date, game_starts`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *game)
	}
	return items, rows.Err()
}

// FindActiveByLabel resolves label ambiguity in favor of the most recently
// created game.
func (r *GamesRepo) FindActiveByLabel(ctx context.Context, chatID int64, label string) (*models.Game, error) {
	return scanGame(r.pool.QueryRow(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE chat_id = $1 AND status = TRUE AND LOWER(label) = LOWER($2)
		ORDER BY id DESC
		LIMIT 1`, chatID, label))
}

func (r *GamesRepo) SetStatus(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE games SET status = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *GamesRepo) ActivateLatestClosed(ctx context.Context, chatID int64) (*models.Game, error) {
	return scanGame(r.pool.QueryRow(ctx, `
		UPDATE games
		SET status = TRUE
		WHERE id = (
			SELECT MAX(id) FROM games WHERE chat_id = $1 AND status = FALSE
		)
		RETURNING `+gameColumns, chatID))
}

func (r *GamesRepo) ChangeLimit(ctx context.Context, id int64, limit int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE games SET users_limit = $2 WHERE id = $1`, id, limit)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *GamesRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Game players ----------------------------------------------------------------

type GamePlayersRepo struct {
	pool *pgxpool.Pool
}

func NewGamePlayersRepo(pool *pgxpool.Pool) repository.GamePlayersRepository {
	return &GamePlayersRepo{pool: pool}
}

// UpsertAttendance is a single statement so two concurrent first presses from
// the same user cannot both insert.
func (r *GamePlayersRepo) UpsertAttendance(ctx context.Context, userDBID, gameID int64, confirmed bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO game_users (user_id, game_id, participate_time, confirmed_attendance)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (user_id, game_id)
		DO UPDATE SET confirmed_attendance = EXCLUDED.confirmed_attendance`,
		userDBID, gameID, confirmed)
	return err
}

func (r *GamePlayersRepo) RemoveAttendance(ctx context.Context, userDBID, gameID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM game_users
		WHERE user_id = $1 AND game_id = $2`,
		userDBID, gameID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListByGame keeps participation order; the confirmed-first ordering for
// display is a stable sort applied by the service.
func (r *GamePlayersRepo) ListByGame(ctx context.Context, gameID int64) ([]models.GamePlayer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT gu.user_id, gu.game_id, gu.confirmed_attendance, gu.participate_time,
		       u.first_name, u.last_name, u.username, u.is_guest
		FROM game_users gu
		JOIN users u ON u.id = gu.user_id
		WHERE gu.game_id = $1
		ORDER BY gu.participate_time`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.GamePlayer
	for rows.Next() {
		var player models.GamePlayer
		var lastName, username *string
		if err := rows.Scan(
			&player.UserDBID,
			&player.GameID,
			&player.Confirmed,
			&player.ParticipateTime,
			&player.FirstName,
			&lastName,
			&username,
			&player.IsGuest,
		); err != nil {
			return nil, err
		}
		player.LastName = lastName
		player.UserName = username
		items = append(items, player)
	}
	return items, rows.Err()
}

func (r *GamePlayersRepo) SetConfirmed(ctx context.Context, userDBID, gameID int64, confirmed bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE game_users
		SET confirmed_attendance = $3
		WHERE user_id = $1 AND game_id = $2`,
		userDBID, gameID, confirmed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Jokes -----------------------------------------------------------------------

type JokesRepo struct {
	pool *pgxpool.Pool
}

func NewJokesRepo(pool *pgxpool.Pool) repository.JokesRepository {
	return &JokesRepo{pool: pool}
}

func (r *JokesRepo) Random(ctx context.Context, jokeType int) (*models.Joke, error) {
	var joke models.Joke
	if err := r.pool.QueryRow(ctx, `
		SELECT id, joke, type
		FROM jokes
		WHERE type = $1
		ORDER BY RANDOM()
		LIMIT 1`, jokeType).Scan(&joke.ID, &joke.Text, &joke.Type); err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &joke, nil
}

func (r *JokesRepo) List(ctx context.Context) ([]models.Joke, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, joke, type
		FROM jokes
		ORDER BY type, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Joke
	for rows.Next() {
		var joke models.Joke
		if err := rows.Scan(&joke.ID, &joke.Text, &joke.Type); err != nil {
			return nil, err
		}
		items = append(items, joke)
	}
	return items, rows.Err()
}

func (r *JokesRepo) Create(ctx context.Context, text string, jokeType int) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, `
		INSERT INTO jokes (joke, type)
		VALUES ($1, $2)
		RETURNING id`, text, jokeType).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *JokesRepo) Update(ctx context.Context, id int64, text string, jokeType int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE jokes
		SET joke = $2, type = $3
		WHERE id = $1`, id, text, jokeType)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *JokesRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jokes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Admin groups ----------------------------------------------------------------

type AdminGroupsRepo struct {
	pool *pgxpool.Pool
}

func NewAdminGroupsRepo(pool *pgxpool.Pool) repository.AdminGroupsRepository {
	return &AdminGroupsRepo{pool: pool}
}

func (r *AdminGroupsRepo) Link(ctx context.Context, chatID, adminChatID int64, groupName string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admin_groups (chat_id, admin_chat_id, group_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id, admin_chat_id) DO NOTHING`,
		chatID, adminChatID, groupName)
	return err
}

func (r *AdminGroupsRepo) ListByAdminChat(ctx context.Context, adminChatID int64) ([]models.AdminGroup, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, chat_id, admin_chat_id, group_name
		FROM admin_groups
		WHERE admin_chat_id = $1
		ORDER BY group_name`, adminChatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.AdminGroup
	for rows.Next() {
		var group models.AdminGroup
		if err := rows.Scan(&group.ID, &group.ChatID, &group.AdminChatID, &group.GroupName); err != nil {
			return nil, err
		}
		items = append(items, group)
	}
	return items, rows.Err()
}

func (r *AdminGroupsRepo) Get(ctx context.Context, id int64) (*models.AdminGroup, error) {
	var group models.AdminGroup
	if err := r.pool.QueryRow(ctx, `
		SELECT id, chat_id, admin_chat_id, group_name
		FROM admin_groups
		WHERE id = $1`, id).Scan(&group.ID, &group.ChatID, &group.AdminChatID, &group.GroupName); err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *AdminGroupsRepo) IsLinked(ctx context.Context, chatID, adminChatID int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM admin_groups WHERE chat_id = $1 AND admin_chat_id = $2
		)`, chatID, adminChatID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
