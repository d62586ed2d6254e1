// Package main provides the arena binary: it plays a tournament of 3v3 team
// battles between two configured teams and prints the narration and standings.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/archive"
	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/content"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/policy"
	"github.com/cory-johannsen/arena/internal/game/status"
	"github.com/cory-johannsen/arena/internal/narration"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/scripting"
	"github.com/cory-johannsen/arena/internal/server"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	redisstore "github.com/cory-johannsen/arena/internal/storage/redis"
)

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"battles":  "tournament.battles",
	"parallel": "tournament.parallelism",
	"team-a":   "tournament.team_a",
	"team-b":   "tournament.team_b",
	"policy-a": "tournament.policy_a",
	"policy-b": "tournament.policy_b",
	"script-a": "tournament.script_a",
	"script-b": "tournament.script_b",
	"seed":     "battle.seed",
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	flag.Int("battles", 0, "number of battles to play")
	flag.Int("parallel", 0, "maximum battles played at once")
	flag.String("team-a", "", "side A: preset team name or three comma separated character names")
	flag.String("team-b", "", "side B: preset team name or three comma separated character names")
	flag.String("policy-a", "", "side A policy: "+fmt.Sprint(policy.Kinds))
	flag.String("policy-b", "", "side B policy: "+fmt.Sprint(policy.Kinds))
	flag.String("script-a", "", "Lua script name for a lua side A policy")
	flag.String("script-b", "", "Lua script name for a lua side B policy")
	flag.Uint64("seed", 0, "seed of the first battle; 0 = crypto random")
	narrate := flag.Bool("narrate", true, "print the turn by turn narration of every battle")
	plain := flag.Bool("plain", false, "disable ANSI colors")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	v := config.NewViper()
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("reading config: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	catalog, err := loadCatalog(cfg.Content, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	table := affinity.Standard()
	scripts, err := loadScripts(cfg, table, logger)
	if err != nil {
		logger.Fatal("loading scripts", zap.Error(err))
	}
	defer scripts.Close()

	var completer policy.Completer
	if slices.ContainsFunc(cfg.Tournament.Policies(), isKind(policy.KindAdvisor)) {
		completer = policy.NewAnthropicCompleter(cfg.Advisor.APIKey, cfg.Advisor.Model, cfg.Advisor.MaxTokens)
		logger.Info("advisor enabled", zap.String("model", cfg.Advisor.Model))
	}

	store, closeStore, err := openArchive(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening archive", zap.Error(err))
	}
	defer closeStore()

	renderer := narration.New(*plain)
	var out io.Writer
	if *narrate {
		out = os.Stdout
	}
	runner := arena.NewRunner(arena.Options{
		Catalog:         catalog,
		Engine:          combat.NewEngine(cfg.Battle.MaxTurns, logger),
		Table:           table,
		Variance:        cfg.Battle.Variance,
		VarianceEnabled: cfg.Battle.VarianceEnabled,
		Policies:        arena.DefaultPolicies(scripts, completer, logger),
		Archive:         store,
		Narration:       out,
		Renderer:        renderer,
		Logger:          logger,
	})

	t := cfg.Tournament
	tournament := arena.Tournament{
		Battles: t.Battles,
		TeamA:   t.TeamA,
		TeamB:   t.TeamB,
		PolicyA: arena.PolicySpec{Kind: t.PolicyA, Script: t.ScriptA},
		PolicyB: arena.PolicySpec{Kind: t.PolicyB, Script: t.ScriptB},
		Seed:    cfg.Battle.Seed,
	}
	svc := arena.NewService(ctx, runner, tournament.Matches(), t.Parallelism)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("tournament", svc)

	logger.Info("arena initialized",
		zap.Int("battles", t.Battles),
		zap.String("team_a", t.TeamA),
		zap.String("team_b", t.TeamB),
		zap.String("archive", cfg.Archive.Backend),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("tournament failed", zap.Error(err))
	}

	results := svc.Results()
	if len(results) == 0 {
		return
	}
	fmt.Printf("Standings after %d battles:\n", len(results))
	for i, s := range arena.Tally(results) {
		fmt.Printf("%s  avg %.1f turns\n", renderer.Standing(i+1, s.Team, s.Wins, s.Losses, s.Draws), s.AverageTurns())
	}
	printRecent(ctx, store, cfg.Archive.RecentLimit, logger)

	logger.Info("arena finished", zap.Duration("total", time.Since(start)))
}

// isKind matches policy kind names case insensitively, as policy.New does.
func isKind(want string) func(string) bool {
	return func(kind string) bool { return strings.EqualFold(kind, want) }
}

// loadCatalog reads the content tree, or the built-in presets when the
// directory is unset or absent.
func loadCatalog(cfg config.ContentConfig, logger *zap.Logger) (*content.Catalog, error) {
	loadStart := time.Now()
	var reg *status.Registry
	if cfg.StatusFile != "" {
		r, err := status.LoadFile(cfg.StatusFile)
		if err != nil {
			return nil, err
		}
		reg = r
	}

	var (
		cat    *content.Catalog
		err    error
		source = cfg.Dir
	)
	if _, statErr := os.Stat(cfg.Dir); cfg.Dir != "" && statErr == nil {
		cat, err = content.LoadWithRegistry(cfg.Dir, reg)
	} else {
		if reg == nil {
			reg = status.DefaultRegistry()
		}
		source = "builtin"
		cat, err = content.Builtin(reg)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("content loaded",
		zap.String("source", source),
		zap.Int("abilities", len(cat.Abilities())),
		zap.Int("characters", len(cat.Characters())),
		zap.Int("teams", len(cat.Teams())),
		zap.Duration("elapsed", time.Since(loadStart)),
	)
	return cat, nil
}

// loadScripts loads the Lua script named by each lua side. Matches pass their
// own dice source on every call; the Manager's source only serves load time.
func loadScripts(cfg config.Config, table *affinity.Table, logger *zap.Logger) (*scripting.Manager, error) {
	mgr := scripting.NewManager(dice.NewSource(cfg.Battle.Seed), logger)
	mgr.Multiplier = func(attacker, defender string) float64 {
		a, errA := affinity.ParseClass(attacker)
		d, errD := affinity.ParseClass(defender)
		if errA != nil || errD != nil {
			return affinity.Neutral
		}
		return table.Multiplier(a, d)
	}

	t := cfg.Tournament
	for i, kind := range t.Policies() {
		if !isKind(policy.KindLua)(kind) {
			continue
		}
		name := t.ScriptA
		if i == 1 {
			name = t.ScriptB
		}
		if mgr.Loaded(name) {
			continue
		}
		path := filepath.Join(cfg.Scripting.Dir, name+".lua")
		if err := mgr.LoadFile(name, path, cfg.Scripting.InstructionLimit); err != nil {
			mgr.Close()
			return nil, err
		}
		logger.Info("script loaded", zap.String("script", name), zap.String("path", path))
	}
	return mgr, nil
}

// openArchive connects the configured archive backend. The returned func
// releases its connections.
func openArchive(ctx context.Context, cfg config.Config, logger *zap.Logger) (archive.Archive, func(), error) {
	switch cfg.Archive.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewMatchRepository(pool.DB(), logger), pool.Close, nil
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		repo := redisstore.NewMatchRepository(redisstore.Config{
			Client: client,
			TTL:    cfg.Redis.TTL,
			Logger: logger,
		})
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		return repo, func() { _ = client.Close() }, nil
	default:
		return archive.NewMemory(logger), func() {}, nil
	}
}

func printRecent(ctx context.Context, store archive.Archive, limit int, logger *zap.Logger) {
	if limit <= 0 {
		return
	}
	recs, err := store.ListRecent(ctx, limit)
	if err != nil {
		logger.Warn("listing recent matches", zap.Error(err))
		return
	}
	fmt.Println()
	fmt.Println("Recent matches:")
	for _, rec := range recs {
		winner := rec.Winner
		if winner == "" {
			winner = "no winner"
		}
		fmt.Printf("  %s  %s vs %s  -> %s in %d turns (%s)\n",
			rec.ID, rec.TeamA, rec.TeamB, winner, rec.Summary.TotalTurns, rec.Duration().Round(time.Millisecond))
	}
}
