package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kamran134/fortuna-telegram-bot/internal/config"
	"github.com/kamran134/fortuna-telegram-bot/internal/repository/pg"
	"github.com/kamran134/fortuna-telegram-bot/internal/service"
	"github.com/kamran134/fortuna-telegram-bot/internal/session"
	"github.com/kamran134/fortuna-telegram-bot/internal/telegram"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	settings, pool, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	defer pool.Close()

	logger := config.NewLogger()

	usersRepo := pg.NewUsersRepo(pool)
	gamesRepo := pg.NewGamesRepo(pool)
	gamePlayersRepo := pg.NewGamePlayersRepo(pool)
	jokesRepo := pg.NewJokesRepo(pool)
	adminGroupsRepo := pg.NewAdminGroupsRepo(pool)

	usersSvc := service.NewUserService(usersRepo)
	gamesSvc := service.NewGameService(gamesRepo, gamePlayersRepo, usersRepo)
	jokesSvc := service.NewJokeService(jokesRepo)
	adminGroupsSvc := service.NewAdminGroupService(adminGroupsRepo)
	sessionStore := session.NewStore(10 * time.Minute)

	botAPI, err := tgbotapi.NewBotAPI(settings.BotToken)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	botAPI.Debug = os.Getenv("DEBUG") == "1"

	bot := telegram.NewBot(botAPI, settings.CreatorIDs, settings.Location, settings.NudgeCron, telegram.Services{
		Users:       usersSvc,
		Games:       gamesSvc,
		AdminGroups: adminGroupsSvc,
		Jokes:       jokesSvc,
		Sessions:    sessionStore,
	}, logger)

	if err := bot.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("bot stopped: %v", err)
	}
}
