package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mrab54/gridiron-dynasty/internal/boundary"
	"github.com/mrab54/gridiron-dynasty/internal/cache"
	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/cap"
	"github.com/mrab54/gridiron-dynasty/internal/config"
	"github.com/mrab54/gridiron-dynasty/internal/database"
	"github.com/mrab54/gridiron-dynasty/internal/dynasty"
	"github.com/mrab54/gridiron-dynasty/internal/dynastystate"
	"github.com/mrab54/gridiron-dynasty/internal/events"
	"github.com/mrab54/gridiron-dynasty/internal/games"
	"github.com/mrab54/gridiron-dynasty/internal/leaguedata"
	"github.com/mrab54/gridiron-dynasty/internal/playoffs"
	"github.com/mrab54/gridiron-dynasty/internal/scheduler"
	"github.com/mrab54/gridiron-dynasty/internal/season"
	"github.com/mrab54/gridiron-dynasty/internal/server"
	"github.com/mrab54/gridiron-dynasty/internal/simulator"
	"github.com/mrab54/gridiron-dynasty/internal/standings"
	"github.com/mrab54/gridiron-dynasty/pkg/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	fmt.Printf("Gridiron Dynasty Season Engine\n")
	fmt.Printf("Version: %s, Commit: %s, Built: %s\n", version, commit, date)

	if len(os.Args) > 1 && os.Args[1] == "health" {
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Server.Environment, cfg.Server.LogLevel)

	log.Info().
		Str("version", version).
		Str("commit", commit).
		Str("built", date).
		Str("environment", cfg.Server.Environment).
		Msg("starting gridiron dynasty season engine")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	db, err := database.NewDB(ctx, &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.GetAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.Database,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis connection failed, boundary detector will fall back to in-process cache")
			redisClient = nil
		}
	}
	// Without a reachable redis the detector gets no cache client at all, so
	// it serves repeat lookups from its own in-process map.
	var cacheClient *cache.Client
	if redisClient != nil {
		cacheClient = cache.NewClient(redisClient, "gridiron:boundary")
	}

	eventStore := events.NewStore(db, log.Logger)
	gamesStore := games.NewStore(db)
	standingsStore := standings.NewStore(db, log.Logger, leaguedata.Teams)
	stateStore := dynastystate.NewStore(db, log.Logger)
	capStore := cap.NewStore(db, log.Logger)
	seedingStore := playoffs.NewSeedingStore(db, log.Logger)
	dynastyStore := dynasty.NewStore(db, log.Logger)
	detector := boundary.NewDetector(eventStore, cacheClient, log.Logger)

	var sim simulator.Simulator
	switch cfg.Simulator.Mode {
	case "http":
		sim = simulator.NewHTTPSimulator(
			cfg.Simulator.BaseURL,
			cfg.Simulator.RequestTimeout,
			cfg.Simulator.RetryAttempts,
			cfg.Simulator.RetryDelay,
			float64(cfg.Simulator.RateLimit),
			cfg.Simulator.RateLimit,
			log.Logger,
		)
	default:
		sim = simulator.NewInstantSimulator(1)
	}

	var capService *cap.TransactionService
	if cfg.Cap.BaseSeasonLimit > 0 {
		windows := cap.Windows{
			TradeDeadlineWeek:  8,
			FreeAgencyStart:    calendar.New(time.Now().Year(), 3, 12),
			FreeAgencyEnd:      calendar.New(time.Now().Year(), 9, 1),
			DraftStart:         calendar.New(time.Now().Year(), 4, 24),
			DraftEnd:           calendar.New(time.Now().Year(), 4, 27),
			FranchiseTagStart:  calendar.New(time.Now().Year(), 2, 18),
			FranchiseTagEnd:    calendar.New(time.Now().Year(), 3, 5),
		}
		capService = cap.NewTransactionService(noopManagerSource{}, capStore, windows, log.Logger)
	}

	registry := season.NewRegistry()

	for _, dyn := range loadActiveDynasties(ctx, dynastyStore) {
		deps := season.Deps{
			DB: db, EventStore: eventStore, GamesStore: gamesStore, Standings: standingsStore,
			State: stateStore, Boundary: detector, Seeding: seedingStore, Sim: sim,
			CapService: capService, DynastyStore: dynastyStore,
			Teams: leaguedata.Teams, ConferenceOrder: leaguedata.ConferenceOrder,
		}
		controller, err := season.NewController(ctx, deps, dyn.DynastyID, currentSeasonYear(), defaultKickoff(currentSeasonYear()))
		if err != nil {
			log.Error().Err(err).Str("dynasty_id", dyn.DynastyID).Msg("failed to load dynasty's season controller, skipping")
			continue
		}
		registry.Register(dyn.DynastyID, controller.WithLogger(log.Logger))
	}

	srv, err := server.New(cfg, db, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	sched := scheduler.NewScheduler(log.Logger)
	registerCommissionerJobs(sched, registry)
	registerDeadMoneyReconciliationJob(sched, capStore, registry)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("context cancelled, shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}

	log.Info().Msg("service stopped")
}

// loadActiveDynasties returns every dynasty row this process should load a
// Season Cycle Controller for. A missing dynasties table (fresh database,
// migration not yet applied) is logged and treated as an empty fleet rather
// than a fatal error, so the admin surface still comes up for franchise
// creation.
func loadActiveDynasties(ctx context.Context, store *dynasty.Store) []dynasty.Dynasty {
	dynasties, err := store.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to list dynasties, starting with an empty fleet")
		return nil
	}
	return dynasties
}

// currentSeasonYear is the NFL season year a freshly loaded controller
// should resume in, absent any persisted dynasty_state row (InitializeState
// is idempotent and a no-op once a row already exists).
func currentSeasonYear() int {
	year := time.Now().Year()
	if time.Now().Month() < time.March {
		return year - 1
	}
	return year
}

// defaultKickoff is the league's opening weekend for a season: the first
// Thursday on or after September 8th, matched against the real NFL's
// season-opener convention closely enough for simulation purposes.
func defaultKickoff(seasonYear int) calendar.Date {
	return calendar.New(seasonYear, 9, 8).NextWeekday(time.Thursday)
}

// registerCommissionerJobs wires one cron job per loaded dynasty: advance
// one day every night at 03:00 UTC. Every loaded dynasty gets the job; there
// is no per-dynasty setting that leaves one out.
func registerCommissionerJobs(sched *scheduler.Scheduler, registry *season.Registry) {
	for _, dynastyID := range registry.DynastyIDs() {
		dynastyID := dynastyID
		jobName := "advance-day:" + dynastyID
		if err := sched.AddCronJob(jobName, "0 3 * * *", func() {
			controller, err := registry.Get(dynastyID)
			if err != nil {
				log.Error().Err(err).Str("dynasty_id", dynastyID).Msg("commissioner mode: dynasty no longer registered")
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			res, err := controller.AdvanceDay(ctx)
			if err != nil {
				log.Error().Err(err).Str("dynasty_id", dynastyID).Msg("commissioner mode: advance_day failed")
				return
			}
			log.Info().Str("dynasty_id", dynastyID).Int("games_played", res.GamesPlayed).
				Str("phase", string(res.CurrentPhase)).Str("date", res.CurrentDate.String()).
				Msg("commissioner mode: advanced one day")
		}); err != nil {
			log.Error().Err(err).Str("dynasty_id", dynastyID).Msg("failed to register commissioner mode job")
		}
	}
}

// registerDeadMoneyReconciliationJob runs cap.Store.ReconcileDeadMoney once
// a night for every loaded dynasty's current season, folding newly-turned
// June-1 designations and any other backlog into each team's cap ledger
// (SPEC_FULL.md's Scheduler section).
func registerDeadMoneyReconciliationJob(sched *scheduler.Scheduler, capStore *cap.Store, registry *season.Registry) {
	if err := sched.AddCronJob("reconcile-dead-money", "30 4 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		for _, dynastyID := range registry.DynastyIDs() {
			controller, err := registry.Get(dynastyID)
			if err != nil {
				continue
			}
			teamsUpdated, err := capStore.ReconcileDeadMoney(ctx, dynastyID, controller.Season())
			if err != nil {
				log.Error().Err(err).Str("dynasty_id", dynastyID).Msg("dead money reconciliation failed")
				continue
			}
			log.Info().Str("dynasty_id", dynastyID).Int("teams_updated", teamsUpdated).
				Msg("dead money reconciliation complete")
		}
	}); err != nil {
		log.Error().Err(err).Msg("failed to register dead money reconciliation job")
	}
}

// noopManagerSource is the trivial AI Manager stand-in this engine ships
// with: the real roster-management AI is an external collaborator (spec
// §1/§4.10's carve-out), so wiring TransactionService against a source
// that proposes nothing still exercises the cap evaluation loop's gating,
// dedup, and audit-log paths end to end without fabricating AI behavior
// this engine has no business inventing.
type noopManagerSource struct{}

func (noopManagerSource) ProposeTransactions(ctx context.Context, dynastyID, teamID string, today calendar.Date) ([]cap.ManagerProposal, error) {
	return nil, nil
}
