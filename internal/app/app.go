package app

import (
	"context"
	"fmt"

	"github.com/abdulachik/scoutmail/internal/config"
	"github.com/abdulachik/scoutmail/internal/db"
	"github.com/abdulachik/scoutmail/internal/dispatch"
	"github.com/abdulachik/scoutmail/internal/extractor"
	"github.com/abdulachik/scoutmail/internal/gsheets"
	"github.com/abdulachik/scoutmail/internal/ledger"
	"github.com/abdulachik/scoutmail/internal/mailer"
	"github.com/abdulachik/scoutmail/internal/matcher"
	"github.com/abdulachik/scoutmail/internal/notify"
	"github.com/abdulachik/scoutmail/internal/oracle"
	"github.com/abdulachik/scoutmail/internal/research"
	"github.com/abdulachik/scoutmail/internal/roster"
	"github.com/abdulachik/scoutmail/internal/workflow"
)

// App is the main application container. Collaborators that need
// credentials are built on demand so each command only requires its own
// configuration.
type App struct {
	Config   *config.Config
	Store    *db.Store
	Sessions *workflow.Store

	oracle oracle.Oracle
	sheets *gsheets.Spreadsheet
}

// New opens and migrates the database.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Create database connection
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		Config:   cfg,
		Store:    store,
		Sessions: workflow.NewStore(store),
	}, nil
}

// Oracle returns the configured language-model client.
func (a *App) Oracle(ctx context.Context) (oracle.Oracle, error) {
	if a.oracle != nil {
		return a.oracle, nil
	}
	if err := a.Config.ValidateForOracle(); err != nil {
		return nil, err
	}

	switch a.Config.OracleProvider {
	case "claude":
		a.oracle = oracle.NewClaudeClient(oracle.ClaudeConfig{
			APIKey:  a.Config.AnthropicAPIKey,
			Timeout: a.Config.OracleTimeout,
		})
	default:
		client, err := oracle.NewGeminiClient(ctx, oracle.GeminiConfig{
			APIKey:  a.Config.GeminiAPIKey,
			Timeout: a.Config.OracleTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.oracle = client
	}
	return a.oracle, nil
}

// model resolves a configured model name for the active provider. Aliases
// name Gemini models, so with Claude they fall back to the client default.
func (a *App) model(name string) string {
	if a.Config.OracleProvider == "claude" {
		if _, ok := oracle.ModelAliases[name]; ok {
			return ""
		}
		return name
	}
	return oracle.ResolveModel(name)
}

// Extractor returns the DNA extractor.
func (a *App) Extractor(ctx context.Context) (*extractor.Extractor, error) {
	o, err := a.Oracle(ctx)
	if err != nil {
		return nil, err
	}
	return extractor.New(extractor.Config{Oracle: o, Model: a.model(a.Config.DNAModel)}), nil
}

// Refiner returns the intelligence refiner.
func (a *App) Refiner(ctx context.Context) (*extractor.Refiner, error) {
	o, err := a.Oracle(ctx)
	if err != nil {
		return nil, err
	}
	return extractor.NewRefiner(o, a.model(a.Config.IntelModel)), nil
}

// Fetcher returns the web fetcher, or a no-op one without an API key.
func (a *App) Fetcher() research.Fetcher {
	if a.Config.FirecrawlAPIKey == "" {
		return research.NopFetcher{}
	}
	return research.NewFirecrawlClient(research.FirecrawlConfig{APIKey: a.Config.FirecrawlAPIKey})
}

// Matcher returns the matchmaking engine.
func (a *App) Matcher(ctx context.Context, progress func(done, total int)) (*matcher.Engine, error) {
	o, err := a.Oracle(ctx)
	if err != nil {
		return nil, err
	}
	return matcher.New(matcher.Config{
		Oracle:    o,
		Model:     a.model(a.Config.MatchModel),
		BatchSize: a.Config.MatchBatchSize,
		Limiter:   oracle.NewIntervalLimiter(a.Config.MatchBatchDelay),
		Progress:  progress,
	}), nil
}

func (a *App) spreadsheet(ctx context.Context, id string) (*gsheets.Spreadsheet, error) {
	if id == a.Config.SpreadsheetID && a.sheets != nil {
		return a.sheets, nil
	}
	s, err := gsheets.Open(ctx, gsheets.Config{
		SpreadsheetID:      id,
		ServiceAccountPath: a.Config.ServiceAccountPath,
	})
	if err != nil {
		return nil, err
	}
	if id == a.Config.SpreadsheetID {
		a.sheets = s
	}
	return s, nil
}

// Roster returns the publisher profile source.
func (a *App) Roster(ctx context.Context) (roster.Source, error) {
	if err := a.Config.ValidateForRoster(); err != nil {
		return nil, err
	}
	if a.Config.RosterSource == "file" {
		return &roster.FileSource{Path: a.Config.RosterPath, Columns: roster.DefaultColumns}, nil
	}

	s, err := a.spreadsheet(ctx, a.Config.RosterSpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("open roster spreadsheet: %w", err)
	}
	return &roster.SheetsSource{Reader: s, Sheet: a.Config.RosterSheet, Columns: roster.DefaultColumns}, nil
}

// Ledger returns the send ledger on the configured backend.
func (a *App) Ledger(ctx context.Context) (*ledger.Ledger, error) {
	if err := a.Config.ValidateForLedger(); err != nil {
		return nil, err
	}
	mode, err := ledger.ParseMatchMode(a.Config.LedgerMatch)
	if err != nil {
		return nil, err
	}

	var backend ledger.Backend
	if a.Config.LedgerBackend == "sqlite" {
		backend = ledger.NewSQLiteBackend(a.Store.Queries)
	} else {
		s, err := a.spreadsheet(ctx, a.Config.SpreadsheetID)
		if err != nil {
			return nil, fmt.Errorf("open ledger spreadsheet: %w", err)
		}
		backend = ledger.NewSheetsBackend(s, a.Config.LedgerWorksheet)
	}

	return ledger.New(ledger.Config{
		Backend: backend,
		Mode:    mode,
		Source:  a.Config.LedgerSource,
	}), nil
}

// Transport returns the SMTP transport.
func (a *App) Transport() (*mailer.SMTPTransport, error) {
	return mailer.NewSMTPTransport(mailer.SMTPConfig{
		Host:     a.Config.SMTPHost,
		Port:     a.Config.SMTPPort,
		Username: a.Config.SMTPUsername,
		Password: a.Config.SMTPPassword,
		FromName: a.Config.MailFromName,
	})
}

// Notifier emails run summaries when NOTIFY_EMAIL is set and logs them
// otherwise.
func (a *App) Notifier(transport mailer.Transport) notify.Notifier {
	if a.Config.NotifyEmail == "" || transport == nil {
		return notify.LogNotifier{}
	}
	return notify.NewMailNotifier(transport, a.Config.NotifyEmail)
}

// Dispatcher returns a dispatch controller sending through transport.
func (a *App) Dispatcher(ctx context.Context, transport mailer.Transport) (*dispatch.Controller, error) {
	if err := a.Config.ValidateForDispatch(); err != nil {
		return nil, err
	}
	l, err := a.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	return dispatch.New(dispatch.Config{
		Ledger:    l,
		Transport: transport,
		Limiter:   oracle.NewIntervalLimiter(a.Config.SendDelay),
		Recorder:  dispatch.NewDBRecorder(a.Store.Queries),
		Notifier:  a.Notifier(transport),
	}), nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
