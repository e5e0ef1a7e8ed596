package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type Settings struct {
	BotToken   string
	DBDSN      string
	CreatorIDs []int64
	NudgeCron  string
	Location   *time.Location
}

func Load(ctx context.Context) (*Settings, *pgxpool.Pool, error) {
	_ = godotenv.Load()

	set := &Settings{}
	set.BotToken = strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	if set.BotToken == "" {
		return nil, nil, fmt.Errorf("BOT_TOKEN is required")
	}

	set.DBDSN = strings.TrimSpace(os.Getenv("DB_DSN"))
	if set.DBDSN == "" {
		return nil, nil, fmt.Errorf("DB_DSN is required")
	}

	creatorRaw := strings.TrimSpace(os.Getenv("CREATOR_IDS"))
	if creatorRaw == "" {
		return nil, nil, fmt.Errorf("CREATOR_IDS is required")
	}
	for _, part := range strings.Split(creatorRaw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		val, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid creator id %q: %w", part, err)
		}
		set.CreatorIDs = append(set.CreatorIDs, val)
	}
	if len(set.CreatorIDs) == 0 {
		return nil, nil, fmt.Errorf("CREATOR_IDS must contain at least one value")
	}

	set.NudgeCron = strings.TrimSpace(os.Getenv("NUDGE_CRON"))

	tz := strings.TrimSpace(os.Getenv("CLUB_TZ"))
	if tz == "" {
		tz = "UTC"
	}
	location, err := time.LoadLocation(tz)
	if err != nil {
		return nil, nil, fmt.Errorf("load CLUB_TZ: %w", err)
	}
	set.Location = location

	cfg, err := pgxpool.ParseConfig(set.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("parse db dsn: %w", err)
	}
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}
	return set, pool, nil
}
