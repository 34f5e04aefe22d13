package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/danielhkuo/quickly-rank/compare"
	"github.com/danielhkuo/quickly-rank/score"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	SessionSalt  string
	LogLevel     string
	ConfigFile   string

	// Tuning
	TriageThreshold   int
	SentimentBias     float64
	MinRankedForScore int
}

// Defaults
const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
	DefaultLogLevel     = "info"
)

var (
	ErrMissingDatabaseURL = errors.New("database URL required (use -d or DATABASE_URL env)")
	ErrMissingSessionSalt = errors.New("SESSION_SALT required")
	ErrInvalidMinRanked   = errors.New("min ranked for score cannot be negative")
)

// ParseFlags validates flags and fills the rest from env, .env and the YAML tuning file.
// Precedence: flags > environment > config file > defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("quickly-rank", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.ConfigFile, "c", "", "YAML tuning file")
	fs.StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Interview session signing salt (prefer env)")

	// Tuning
	fs.IntVar(&cfg.TriageThreshold, "triage-threshold", 0, "List size at which triage is offered")
	fs.Float64Var(&cfg.SentimentBias, "sentiment-bias", -1, "Sentiment bias as a fraction of one position step")
	fs.IntVar(&cfg.MinRankedForScore, "min-ranked", -1, "Items to rank before scores are shown")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env only fills variables that are not already set
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("RANK_CONFIG")
	}
	k := koanf.New(".")
	if cfg.ConfigFile != "" {
		if err := k.Load(file.Provider(cfg.ConfigFile), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", cfg.ConfigFile, err)
		}
	}

	// Fall back to environment variables, then the config file
	var err error
	if cfg.Port == 0 {
		if cfg.Port, err = intSetting("PORT", k, "port", DefaultPort); err != nil {
			return Config{}, err
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = stringSetting("DATABASE_URL", k, "database_url", "")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = stringSetting("DATABASE_TYPE", k, "database_type", DefaultDatabaseType)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = stringSetting("LOG_LEVEL", k, "log_level", DefaultLogLevel)
	}

	if cfg.TriageThreshold == 0 {
		if cfg.TriageThreshold, err = intSetting("TRIAGE_THRESHOLD", k, "triage_threshold", compare.DefaultTriageThreshold); err != nil {
			return Config{}, err
		}
	}
	if cfg.SentimentBias < 0 {
		if cfg.SentimentBias, err = floatSetting("SENTIMENT_BIAS", k, "sentiment_bias", score.DefaultSentimentBias); err != nil {
			return Config{}, err
		}
	}
	if cfg.MinRankedForScore < 0 {
		if cfg.MinRankedForScore, err = intSetting("MIN_RANKED_FOR_SCORE", k, "min_ranked_for_score", score.DefaultMinRankedForScore); err != nil {
			return Config{}, err
		}
	}

	// Secrets - MUST be provided, never read from the tuning file
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, ErrMissingSessionSalt
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("invalid database type %q (sqlite or postgres)", c.DatabaseType)
	}
	if err := (compare.Options{TriageThreshold: c.TriageThreshold}).Validate(); err != nil {
		return err
	}
	if _, err := score.NewScale(c.SentimentBias); err != nil {
		return err
	}
	if c.MinRankedForScore < 0 {
		return ErrInvalidMinRanked
	}
	return nil
}

// CompareOptions returns the interview tuning
func (c Config) CompareOptions() compare.Options {
	return compare.Options{TriageThreshold: c.TriageThreshold}
}

// Scale returns the score tuning. Call after Validate.
func (c Config) Scale() score.Scale {
	return score.Scale{SentimentBias: c.SentimentBias}
}

func stringSetting(envKey string, k *koanf.Koanf, key, def string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if k.Exists(key) {
		return k.String(key)
	}
	return def
}

func intSetting(envKey string, k *koanf.Koanf, key string, def int) (int, error) {
	if v := os.Getenv(envKey); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s env variable", envKey)
		}
		return n, nil
	}
	if k.Exists(key) {
		return k.Int(key), nil
	}
	return def, nil
}

func floatSetting(envKey string, k *koanf.Koanf, key string, def float64) (float64, error) {
	if v := os.Getenv(envKey); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s env variable", envKey)
		}
		return f, nil
	}
	if k.Exists(key) {
		return k.Float64(key), nil
	}
	return def, nil
}
