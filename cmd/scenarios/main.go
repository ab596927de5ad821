// Command scenarios replays the engine's end-to-end acceptance scenarios
// (spec §8) S1, S2, S5 and S6, printing the observed result for each so a
// reviewer can eyeball it against the spec's literal expected values; S1
// and S2 need a running Postgres instance, S5 and S6 do not. S3 and S4 only
// print a pointer to the unit tests that cover them. It is a harness for
// manual/CI verification, not a library anything else imports.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

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
	"github.com/mrab54/gridiron-dynasty/internal/season"
	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
	"github.com/mrab54/gridiron-dynasty/internal/simulator"
	"github.com/mrab54/gridiron-dynasty/internal/standings"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: scenarios [s1|s2|s3|s4|s5|s6|all]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "s1":
		runS1()
	case "s2":
		runS2()
	case "s3":
		fmt.Println("s3 (enter playoffs) is not replayed here; internal/season's transition tests check only that the regular season does not hand over to the playoffs before its last game.")
	case "s4":
		fmt.Println("s4 (reload mid-divisional) is exercised by internal/playoffs's bracket reconstruction tests.")
	case "s5":
		runS5()
	case "s6":
		runS6()
	case "all":
		runS1()
		runS2()
		runS5()
		runS6()
	default:
		fmt.Printf("unknown scenario %q\n", os.Args[1])
		os.Exit(1)
	}
}

func newDeps(ctx context.Context, logger zerolog.Logger) (*database.DB, season.Deps, *dynasty.Store) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewDB(ctx, &database.Config{
		Host: cfg.Database.Host, Port: cfg.Database.Port, User: cfg.Database.User,
		Password: cfg.Database.Password, Database: cfg.Database.Database, SSLMode: cfg.Database.SSLMode,
		MaxConns: int32(cfg.Database.MaxConnections), MinConns: int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxConnLifetime, MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to database: %v\n", err)
		os.Exit(1)
	}

	eventStore := events.NewStore(db, logger)
	gamesStore := games.NewStore(db)
	standingsStore := standings.NewStore(db, logger, leaguedata.Teams)
	stateStore := dynastystate.NewStore(db, logger)
	seedingStore := playoffs.NewSeedingStore(db, logger)
	dynastyStore := dynasty.NewStore(db, logger)
	detector := boundary.NewDetector(eventStore, cache.NewClient(nil, "gridiron:scenarios"), logger)

	deps := season.Deps{
		DB: db, EventStore: eventStore, GamesStore: gamesStore, Standings: standingsStore,
		State: stateStore, Boundary: detector, Seeding: seedingStore, DynastyStore: dynastyStore,
		Sim: simulator.NewInstantSimulator(42), Teams: leaguedata.Teams, ConferenceOrder: leaguedata.ConferenceOrder,
	}
	return db, deps, dynastyStore
}

// runS1 matches spec §8 S1: a fresh dynasty's first advance_day simulates
// exactly one game and lands on 2025-09-06 still in the regular season
// (week 1's Thursday opener is the only game on 2025-09-05).
func runS1() {
	fmt.Println("=== S1: fresh dynasty, simulate 1 day ===")
	ctx := context.Background()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, deps, dynastyStore := newDeps(ctx, logger)
	defer db.Close()

	const dynastyID = "d1"
	if err := dynastyStore.Create(ctx, dynasty.Dynasty{DynastyID: dynastyID, Name: "Scenario Dynasty", OwnerTeamID: "KC"}); err != nil {
		fmt.Printf("  (create dynasty: %v, continuing — may already exist)\n", err)
	}

	kickoff := calendar.New(2025, 9, 5)
	controller, err := season.NewController(ctx, deps, dynastyID, 2025, kickoff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  construct controller: %v\n", err)
		os.Exit(1)
	}

	res, err := controller.AdvanceDay(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  advance_day: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  games_played=%d current_phase=%s current_date=%s\n", res.GamesPlayed, res.CurrentPhase, res.CurrentDate)
	fmt.Println("  expected: games_played=1 current_phase=regular_season current_date=2025-09-06")
}

// runS2 matches spec §8 S2: reconstructing the Season Cycle Controller for
// a dynasty already mid-regular-season must not create duplicate GAME
// events — the Regular Season Controller's schedule generation is a no-op
// once a schedule already exists for (dynasty, season).
func runS2() {
	fmt.Println("=== S2: reload mid-regular-season, no duplicate events ===")
	ctx := context.Background()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, deps, _ := newDeps(ctx, logger)
	defer db.Close()

	const dynastyID = "d1"
	before, err := deps.EventStore.GetByDynasty(ctx, dynastyID, events.TypeGame)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  count before: %v\n", err)
		os.Exit(1)
	}

	kickoff := calendar.New(2025, 9, 5)
	if _, err := season.NewController(ctx, deps, dynastyID, 2025, kickoff); err != nil {
		fmt.Fprintf(os.Stderr, "  reconstruct controller: %v\n", err)
		os.Exit(1)
	}

	after, err := deps.EventStore.GetByDynasty(ctx, dynastyID, events.TypeGame)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  count after: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  events before=%d after=%d\n", len(before), len(after))
	fmt.Println("  expected: after == before (272 once the full schedule has been generated)")
}

// runS5 matches spec §8 S5: simulate many games in INSTANT mode and confirm
// playoff games never end level while regular-season games tie at a small
// but nonzero rate. No database is needed — this drives the simulator
// directly.
func runS5() {
	fmt.Println("=== S5: playoff tie prevention in INSTANT mode ===")
	sim := simulator.NewInstantSimulator(7)
	ctx := context.Background()

	playoffTies := 0
	for i := 0; i < 1000; i++ {
		res, err := sim.SimulateGame(ctx, simulator.Params{
			DynastyID: "s5", Season: 2025, Week: 19, SeasonType: seasontype.Playoffs,
			HomeTeamID: "KC", AwayTeamID: "BUF", Playoff: true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "  simulate playoff game %d: %v\n", i, err)
			os.Exit(1)
		}
		if res.HomeScore == res.AwayScore {
			playoffTies++
		}
	}

	regularTies := 0
	for i := 0; i < 1000; i++ {
		res, err := sim.SimulateGame(ctx, simulator.Params{
			DynastyID: "s5", Season: 2025, Week: 1, SeasonType: seasontype.Regular,
			HomeTeamID: "KC", AwayTeamID: "BUF", Playoff: false,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "  simulate regular season game %d: %v\n", i, err)
			os.Exit(1)
		}
		if res.HomeScore == res.AwayScore {
			regularTies++
		}
	}

	fmt.Printf("  playoff ties: %d/1000 (expected 0)\n", playoffTies)
	fmt.Printf("  regular season ties: %d/1000 (expected roughly 2-5%%)\n", regularTies)
}

// runS6 matches spec §8 S6: a contract released with a June-1 designation
// splits its dead money across the release year (remaining guaranteed
// salary plus the release year's own proration) and the following year
// (every other year's proration). Pure math, no database needed.
func runS6() {
	fmt.Println("=== S6: release with June-1 designation ===")

	contract := cap.Contract{
		ContractID: "s6-contract", PlayerID: "p1", TeamID: "KC", DynastyID: "s6",
		StartYear: 2023, EndYear: 2027, Type: cap.ContractTypeVeteran,
		Years: []cap.ContractYearDetail{
			{Year: 2026, SigningBonusProrationCents: 4_000_000_00},
			{Year: 2027, SigningBonusProrationCents: 4_000_000_00, BaseSalaryGuaranteed: true, BaseSalaryCents: 2_000_000_00},
		},
	}

	result := cap.DeadMoney(contract, 2026, true)
	fmt.Printf("  dead_money_current_year=%d dead_money_next_year=%d total=%d\n",
		result.CurrentYearCents, result.NextYearCents, result.TotalCents())
	fmt.Println("  expected: current_year=600000000 (4M proration + 2M guaranteed), next_year=400000000, total=1000000000 (all cents: $10M)")
}
