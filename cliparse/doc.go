// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSalt: Secret for signing interview sessions (required)
  - LogLevel: debug, info, warn or error (default: info)
  - TriageThreshold: list size at which triage is offered (default: 6, minimum 3)
  - SentimentBias: sentiment score nudge as a fraction of one position step (default: 0.25, below 0.5)
  - MinRankedForScore: items to rank before scores are shown (default: 10)

# CLI Flags

	-p                 Server port
	-d                 Database URL
	-t                 Database type
	-c                 YAML tuning file
	-env-file          dotenv file (default .env, ignored when missing)
	-log-level         Log level
	-session-salt      Session signing salt
	-triage-threshold  Triage threshold
	-sentiment-bias    Sentiment bias
	-min-ranked        Min ranked for score

# Environment Variables

Flags fall back to environment variables, which may come from a .env file:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	RANK_CONFIG          → -c
	LOG_LEVEL            → -log-level
	SESSION_SALT         → -session-salt
	TRIAGE_THRESHOLD     → -triage-threshold
	SENTIMENT_BIAS       → -sentiment-bias
	MIN_RANKED_FOR_SCORE → -min-ranked

# Tuning File

Non-secret settings can also come from a YAML file (koanf):

	port: 3318
	database_type: postgres
	triage_threshold: 8
	sentiment_bias: 0.2
	min_ranked_for_score: 5

CLI flags take precedence over environment variables, which take precedence
over the tuning file.

# Validation

ParseFlags returns an error if required values are missing or out of range.
*/
package cliparse
