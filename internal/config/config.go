// Package config provides Viper-based configuration loading for the arena.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ARENA_BATTLE_MAX_TURNS.
const EnvPrefix = "ARENA"

// Archive backend names.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// policyKinds mirrors the kinds accepted by the policy factory.
var policyKinds = map[string]bool{"random": true, "scripted": true, "greedy": true, "lua": true, "advisor": true}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds engine rules.
type BattleConfig struct {
	// MaxTurns ends a battle by remaining HP once reached.
	MaxTurns int `mapstructure:"max_turns"`
	// Variance is the +/- fraction applied to every damage roll.
	Variance        float64 `mapstructure:"variance"`
	VarianceEnabled bool    `mapstructure:"variance_enabled"`
	// Seed makes runs reproducible. Zero draws from crypto/rand.
	Seed uint64 `mapstructure:"seed"`
}

// ContentConfig locates the YAML content tree.
type ContentConfig struct {
	// Dir holds abilities/, characters/ and teams/. Empty uses the built-in presets.
	Dir string `mapstructure:"dir"`
	// StatusFile optionally overrides the status effect table.
	StatusFile string `mapstructure:"status_file"`
}

// ScriptingConfig holds Lua policy settings.
type ScriptingConfig struct {
	// Dir is where named policy scripts live, one <name>.lua per script.
	Dir string `mapstructure:"dir"`
	// InstructionLimit bounds each decide call. Zero uses the sandbox default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// ArchiveConfig selects where finished matches are stored.
type ArchiveConfig struct {
	// Backend is one of "memory", "postgres", "redis".
	Backend string `mapstructure:"backend"`
	// RecentLimit is how many records the CLI lists after a run.
	RecentLimit int `mapstructure:"recent_limit"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings for the archive.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// TTL bounds record lifetime. Zero keeps records forever.
	TTL time.Duration `mapstructure:"ttl"`
}

// AdvisorConfig holds language model advisor settings.
type AdvisorConfig struct {
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	// APIKey is usually supplied as ARENA_ADVISOR_API_KEY or from .env. Empty
	// falls back to ANTHROPIC_API_KEY.
	APIKey string `mapstructure:"api_key"`
}

// TournamentConfig describes the matches a run plays.
type TournamentConfig struct {
	Battles     int    `mapstructure:"battles"`
	Parallelism int    `mapstructure:"parallelism"`
	TeamA       string `mapstructure:"team_a"`
	TeamB       string `mapstructure:"team_b"`
	PolicyA     string `mapstructure:"policy_a"`
	PolicyB     string `mapstructure:"policy_b"`
	ScriptA     string `mapstructure:"script_a"`
	ScriptB     string `mapstructure:"script_b"`
}

// Policies returns both configured policy kinds.
func (t TournamentConfig) Policies() []string {
	return []string{t.PolicyA, t.PolicyB}
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Battle     BattleConfig     `mapstructure:"battle"`
	Content    ContentConfig    `mapstructure:"content"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Advisor    AdvisorConfig    `mapstructure:"advisor"`
	Tournament TournamentConfig `mapstructure:"tournament"`
}

// Validate checks all configuration invariants. Connection sections are only
// checked when the archive backend uses them.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	check := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	check(validateLogging(c.Logging))
	check(validateBattle(c.Battle))
	check(validateScripting(c.Scripting))
	check(validateArchive(c.Archive))
	switch c.Archive.Backend {
	case BackendPostgres:
		check(validateDatabase(c.Database))
	case BackendRedis:
		check(validateRedis(c.Redis))
	}
	check(validateTournament(c.Tournament))
	for _, p := range c.Tournament.Policies() {
		if strings.EqualFold(p, "advisor") {
			check(validateAdvisor(c.Advisor))
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func joined(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, "; "))
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("battle.max_turns must be >= 1, got %d", b.MaxTurns))
	}
	if b.Variance < 0 || b.Variance >= 1 {
		errs = append(errs, fmt.Sprintf("battle.variance must be in [0, 1), got %g", b.Variance))
	}
	return joined(errs)
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateArchive(a ArchiveConfig) error {
	var errs []string
	switch a.Backend {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		errs = append(errs, fmt.Sprintf("archive.backend must be one of [memory, postgres, redis], got %q", a.Backend))
	}
	if a.RecentLimit < 0 {
		errs = append(errs, fmt.Sprintf("archive.recent_limit must be >= 0, got %d", a.RecentLimit))
	}
	return joined(errs)
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	return joined(errs)
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if r.TTL < 0 {
		errs = append(errs, "redis.ttl must not be negative")
	}
	return joined(errs)
}

func validateAdvisor(a AdvisorConfig) error {
	var errs []string
	if a.Model == "" {
		errs = append(errs, "advisor.model must not be empty")
	}
	if a.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("advisor.max_tokens must be >= 1, got %d", a.MaxTokens))
	}
	return joined(errs)
}

func validateTournament(t TournamentConfig) error {
	var errs []string
	if t.Battles < 1 {
		errs = append(errs, fmt.Sprintf("tournament.battles must be >= 1, got %d", t.Battles))
	}
	if t.Parallelism < 1 {
		errs = append(errs, fmt.Sprintf("tournament.parallelism must be >= 1, got %d", t.Parallelism))
	}
	if t.TeamA == "" || t.TeamB == "" {
		errs = append(errs, "tournament.team_a and tournament.team_b must not be empty")
	}
	for i, p := range t.Policies() {
		if !policyKinds[strings.ToLower(p)] {
			errs = append(errs, fmt.Sprintf("tournament.policy_%c must be one of [random, scripted, greedy, lua, advisor], got %q", 'a'+i, p))
		}
	}
	if strings.EqualFold(t.PolicyA, "lua") && t.ScriptA == "" {
		errs = append(errs, "tournament.script_a is required for a lua policy")
	}
	if strings.EqualFold(t.PolicyB, "lua") && t.ScriptB == "" {
		errs = append(errs, "tournament.script_b is required for a lua policy")
	}
	return joined(errs)
}

// Load reads configuration from path, applies ARENA_ environment overrides,
// and validates the result. An empty path uses defaults and environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and environment overrides
// installed, ready for flags or a config file to be layered on top.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("battle.max_turns", 100)
	v.SetDefault("battle.variance", 0.1)
	v.SetDefault("battle.variance_enabled", true)
	v.SetDefault("battle.seed", 0)

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.status_file", "")

	v.SetDefault("scripting.dir", "content/scripts")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("archive.backend", BackendMemory)
	v.SetDefault("archive.recent_limit", 5)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "arena")
	v.SetDefault("database.password", "arena")
	v.SetDefault("database.name", "arena")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "168h")

	v.SetDefault("advisor.model", "claude-haiku-4-5")
	v.SetDefault("advisor.max_tokens", 64)
	v.SetDefault("advisor.api_key", "")

	v.SetDefault("tournament.battles", 1)
	v.SetDefault("tournament.parallelism", 4)
	v.SetDefault("tournament.team_a", "Aggro Team")
	v.SetDefault("tournament.team_b", "Balanced Team")
	v.SetDefault("tournament.policy_a", "random")
	v.SetDefault("tournament.policy_b", "random")
	v.SetDefault("tournament.script_a", "")
	v.SetDefault("tournament.script_b", "")
}
