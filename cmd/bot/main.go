// Package main is the entry point for the Twitch casino bot.
package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"twitch-casino-bot/internal/api"
	"twitch-casino-bot/internal/chat"
	"twitch-casino-bot/internal/config"
	"twitch-casino-bot/internal/economy"
	"twitch-casino-bot/internal/equipment"
	"twitch-casino-bot/internal/game/minigame"
	"twitch-casino-bot/internal/game/slot"
	"twitch-casino-bot/internal/handler"
	"twitch-casino-bot/internal/pkg/db"
	"twitch-casino-bot/internal/pkg/lock"
	"twitch-casino-bot/internal/repository"
	"twitch-casino-bot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Strs("channels", cfg.Channels).Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := repository.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	balanceRepo := repository.NewBalanceRepository(dbPool.Pool)
	ledgerRepo := repository.NewLedgerEntryRepository(dbPool.Pool)
	betRepo := repository.NewBetHistoryRepository(dbPool.Pool)
	equipmentRepo := repository.NewEquipmentRepository(dbPool.Pool)

	// Initialize economy
	locks := lock.NewAccountLock()
	ledger := economy.NewLedger(
		balanceRepo,
		locks,
		cfg.Economy.StartingBalance,
		cfg.Economy.TransferMin,
		cfg.Economy.TransferMax,
	)
	resolver := equipment.NewResolver(equipmentRepo)
	bonusService := economy.NewBonusService(balanceRepo, ledger, resolver, locks, economy.BonusConfig{
		DailyReward:      cfg.Economy.DailyReward,
		DailyCooldown:    time.Duration(cfg.Economy.DailyCooldownHrs) * time.Hour,
		ActivityReward:   cfg.Economy.ActivityReward,
		ActivityMessages: cfg.Economy.ActivityMessages,
		ActivityInterval: time.Duration(cfg.Economy.ActivityMinChurn) * time.Second,
	})
	shopService := economy.NewShopService(ledger, equipmentRepo)

	// Initialize slot betting
	engine := slot.NewEngine(slot.DefaultCatalog())
	bettingService := service.NewBettingService(engine, ledger, betRepo, resolver, service.BettingConfig{
		MinBet:          cfg.Betting.MinBet,
		MaxBet:          cfg.Betting.MaxBet,
		CooldownSeconds: cfg.Betting.CooldownSeconds,
	})

	// Initialize minigames and orchestrator
	store := minigame.NewStore()
	minigameService := service.NewMinigameService(store, ledger, service.MinigameConfig{
		SessionDuration: cfg.Minigames.SessionDuration,
		Number: minigame.NumberConfig{
			Prize:     cfg.Minigames.Number.Prize,
			Decrement: cfg.Minigames.Number.Decrement,
			Floor:     cfg.Minigames.Number.Floor,
		},
		Word: minigame.WordConfig{
			Ceiling:   cfg.Minigames.Word.Ceiling,
			Decrement: cfg.Minigames.Word.Decrement,
			Floor:     cfg.Minigames.Word.Floor,
		},
		RPS: minigame.RPSConfig{
			BaseBank: cfg.Minigames.RPS.BaseBank,
			EntryFee: cfg.Minigames.RPS.EntryFee,
		},
	})

	sink := chat.NewLogSink()
	streams := chat.NewStaticStreamStatus()
	words := service.NewStaticWordSource(rand.New(rand.NewSource(time.Now().UnixNano())))
	orchestrator := service.NewOrchestrator(
		minigameService,
		sink,
		streams,
		words,
		cfg.Channels,
		time.Duration(cfg.Minigames.TickSeconds)*time.Second,
	)
	orchestratorDone := make(chan struct{})
	go func() {
		defer close(orchestratorDone)
		orchestrator.Run(ctx)
	}()

	// Wire chat command handlers
	router := handler.NewRouter(
		handler.NewAccountHandler(ledger, bonusService, balanceRepo, ledgerRepo),
		handler.NewGameHandler(bettingService, betRepo, sink),
		handler.NewMinigameHandler(minigameService),
		handler.NewShopHandler(shopService),
	)

	// Start the REST API
	server := api.NewServer(ledger, balanceRepo, ledgerRepo, betRepo, router, cfg.HasChannel, cfg.API.AllowedOrigins)
	apiErr := make(chan error, 1)
	go func() {
		apiErr <- server.ListenAndServe(ctx, cfg.API.Addr)
	}()

	log.Info().Msg("Bot started")

	// Wait for shutdown signal, then join the background loops: the API
	// server finishes its graceful shutdown and the orchestrator completes
	// any tick in flight before the process exits.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		cancel()
		if err := <-apiErr; err != nil {
			log.Error().Err(err).Msg("API server failed")
		}
	case err := <-apiErr:
		if err != nil {
			log.Error().Err(err).Msg("API server failed")
		}
		cancel()
	}
	<-orchestratorDone
	log.Info().Msg("Shutdown complete")
}
