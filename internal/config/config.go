package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// VecLite
	VecLitePath   string // Path to the publisher index (default: data/publishers.veclite)
	VecLiteConfig string // Optional veclite.yaml with embedder settings

	// Oracle
	OracleProvider  string // "gemini" or "claude" (default: gemini)
	GeminiAPIKey    string
	AnthropicAPIKey string
	DNAModel        string // model or alias: deep, advanced, fast
	MatchModel      string
	IntelModel      string
	OracleTimeout   time.Duration

	// Matchmaking
	MatchBatchSize  int
	MatchBatchDelay time.Duration

	// Google Sheets
	SpreadsheetID      string
	ServiceAccountPath string

	// Ledger
	LedgerBackend   string // "sheets" or "sqlite" (default: sheets)
	LedgerMatch     string // "substring" or "exact"
	LedgerSource    string
	LedgerWorksheet string

	// Roster
	RosterSource        string // "sheets" or "file" (default: sheets)
	RosterPath          string
	RosterSpreadsheetID string // defaults to SpreadsheetID
	RosterSheet         string // empty means the first sheet

	// Research
	FirecrawlAPIKey string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFromName string
	ReplyTo      string
	SendDelay    time.Duration

	// Logging
	LogLevel string

	// Notification settings
	NotifyEmail string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:       getEnv("DATABASE_PATH", "data/scoutmail.db"),
		VecLitePath:        getEnv("VECLITE_PATH", "data/publishers.veclite"),
		VecLiteConfig:      getEnv("VECLITE_CONFIG", ""),
		OracleProvider:     getEnv("ORACLE_PROVIDER", "gemini"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		DNAModel:           getEnv("DNA_MODEL", "advanced"),
		MatchModel:         getEnv("MATCH_MODEL", "fast"),
		IntelModel:         getEnv("INTEL_MODEL", "fast"),
		SpreadsheetID:      getEnv("GOOGLE_SHEETS_SPREADSHEET_ID", ""),
		ServiceAccountPath: getEnv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", ""),
		LedgerBackend:      getEnv("LEDGER_BACKEND", "sheets"),
		LedgerMatch:        getEnv("LEDGER_MATCH", "substring"),
		LedgerSource:       getEnv("LEDGER_SOURCE_TAG", "scoutmail"),
		LedgerWorksheet:    getEnv("LEDGER_WORKSHEET", "Logs"),
		RosterSource:       getEnv("ROSTER_SOURCE", "sheets"),
		RosterPath:         getEnv("ROSTER_PATH", ""),
		RosterSheet:        getEnv("ROSTER_SHEET", ""),
		FirecrawlAPIKey:    getEnv("FIRECRAWL_API_KEY", ""),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		MailFromName:       getEnv("MAIL_FROM_NAME", ""),
		ReplyTo:            getEnv("REPLY_TO", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		NotifyEmail:        getEnv("NOTIFY_EMAIL", ""),
	}
	cfg.RosterSpreadsheetID = getEnv("ROSTER_SPREADSHEET_ID", cfg.SpreadsheetID)

	// Parse durations
	var err error
	cfg.OracleTimeout, err = time.ParseDuration(getEnv("ORACLE_TIMEOUT", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORACLE_TIMEOUT: %w", err)
	}

	cfg.MatchBatchDelay, err = time.ParseDuration(getEnv("MATCH_BATCH_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_BATCH_DELAY: %w", err)
	}

	cfg.SendDelay, err = time.ParseDuration(getEnv("SEND_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEND_DELAY: %w", err)
	}

	// Parse integers
	cfg.MatchBatchSize, err = strconv.Atoi(getEnv("MATCH_BATCH_SIZE", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_BATCH_SIZE: %w", err)
	}
	if cfg.MatchBatchSize < 1 {
		return nil, fmt.Errorf("invalid MATCH_BATCH_SIZE: must be at least 1")
	}

	cfg.SMTPPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForOracle checks configuration needed for extraction, research
// and matching.
func (c *Config) ValidateForOracle() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.OracleProvider {
	case "gemini", "":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when ORACLE_PROVIDER is gemini")
		}
	case "claude":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when ORACLE_PROVIDER is claude")
		}
	default:
		return fmt.Errorf("invalid ORACLE_PROVIDER: %s (must be 'gemini' or 'claude')", c.OracleProvider)
	}
	return nil
}

// ValidateForSheets checks configuration needed to reach Google Sheets.
func (c *Config) ValidateForSheets() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("GOOGLE_SHEETS_SPREADSHEET_ID is required")
	}
	if c.ServiceAccountPath == "" {
		return fmt.Errorf("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH is required")
	}
	return nil
}

// ValidateForLedger checks configuration needed for the send ledger.
func (c *Config) ValidateForLedger() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.LedgerMatch {
	case "substring", "exact", "":
	default:
		return fmt.Errorf("invalid LEDGER_MATCH: %s (must be 'substring' or 'exact')", c.LedgerMatch)
	}
	switch c.LedgerBackend {
	case "sheets", "":
		return c.ValidateForSheets()
	case "sqlite":
		return nil
	default:
		return fmt.Errorf("invalid LEDGER_BACKEND: %s (must be 'sheets' or 'sqlite')", c.LedgerBackend)
	}
}

// ValidateForRoster checks configuration needed to load publisher profiles.
func (c *Config) ValidateForRoster() error {
	switch c.RosterSource {
	case "sheets", "":
		if c.RosterSpreadsheetID == "" {
			return fmt.Errorf("ROSTER_SPREADSHEET_ID or GOOGLE_SHEETS_SPREADSHEET_ID is required")
		}
		if c.ServiceAccountPath == "" {
			return fmt.Errorf("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH is required")
		}
	case "file":
		if c.RosterPath == "" {
			return fmt.Errorf("ROSTER_PATH is required when ROSTER_SOURCE is file")
		}
	default:
		return fmt.Errorf("invalid ROSTER_SOURCE: %s (must be 'sheets' or 'file')", c.RosterSource)
	}
	return nil
}

// ValidateForMatching checks configuration needed for matchmaking.
func (c *Config) ValidateForMatching() error {
	if err := c.ValidateForOracle(); err != nil {
		return err
	}
	return c.ValidateForRoster()
}

// ValidateForVecLite checks configuration needed for the publisher index.
func (c *Config) ValidateForVecLite() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.VecLitePath == "" {
		return fmt.Errorf("VECLITE_PATH is required")
	}
	return c.ValidateForRoster()
}

// ValidateForDispatch checks configuration needed to send email.
func (c *Config) ValidateForDispatch() error {
	if err := c.ValidateForLedger(); err != nil {
		return err
	}
	if c.SMTPUsername == "" {
		return fmt.Errorf("SMTP_USERNAME is required for dispatch")
	}
	if c.SMTPPassword == "" {
		return fmt.Errorf("SMTP_PASSWORD is required for dispatch")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
