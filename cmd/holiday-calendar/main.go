package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	_ "time/tzdata"

	"github.com/username/holiday-calendar/internal/config"
	"github.com/username/holiday-calendar/internal/holidaymanager"
	"github.com/username/holiday-calendar/internal/source"
	"github.com/username/holiday-calendar/internal/store"
	"github.com/username/holiday-calendar/internal/store/postgres"
	"github.com/username/holiday-calendar/internal/store/sanity"
	"github.com/username/holiday-calendar/internal/store/sqlite"
	"github.com/username/holiday-calendar/internal/translate"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "holiday-calendar",
		Short: "Holiday calendar manager",
		Long:  "Import official holidays, curate their status and serve them as a calendar",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger("info") // Fallback to console
				}
			} else if err == nil {
				initLogger(cfg.Log.Level)
			} else {
				initLogger("info")
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml when present)")

	rootCmd.AddCommand(
		serveCmd(),
		fetchCmd(),
		importCmd(),
		saveCmd(),
		listCmd(),
		translateCmd(),
		updateCmd(),
		bulkUpdateCmd(),
		deleteCmd(),
		deleteAllCmd(),
		calendarCmd(),
		hashPasswordCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initializeManager wires the store, source and translator from cfg.
// The returned cleanup closes the store.
func initializeManager(cfg *config.Config) (*holidaymanager.Manager, func(), error) {
	st, err := initializeStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	src, err := initializeSource(cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	tr := translate.New(cfg.Translation.Names)
	manager := holidaymanager.NewManager(cfg, st, src, tr, logger)

	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
	}
	return manager, cleanup, nil
}

func initializeStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Type {
	case "sqlite":
		logger.Info("Using SQLite store", zap.String("path", cfg.Store.SQLite.Path))
		st, err := sqlite.Open(cfg.Store.SQLite.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return st, nil

	case "sanity":
		logger.Info("Using Sanity store",
			zap.String("project_id", cfg.Store.Sanity.ProjectID),
			zap.String("dataset", cfg.Store.Sanity.Dataset))
		client := sanity.NewClient(sanity.Config{
			ProjectID:  cfg.Store.Sanity.ProjectID,
			Dataset:    cfg.Store.Sanity.Dataset,
			APIVersion: cfg.Store.Sanity.APIVersion,
			Token:      cfg.Store.Sanity.Token,
			Timeout:    cfg.Store.Sanity.GetTimeout(),
			MaxRetries: cfg.Store.Sanity.MaxRetries,
		}, logger)
		return sanity.NewStore(client, logger), nil

	case "postgres":
		logger.Info("Using PostgreSQL store")
		st, err := postgres.Open(cfg.Store.Postgres.DSN, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return st, nil

	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Store.Type)
	}
}

func initializeSource(cfg *config.Config) (source.Source, error) {
	primary, err := newSource(cfg, cfg.Source.Type)
	if err != nil {
		return nil, err
	}
	if cfg.Source.Fallback == "" {
		return primary, nil
	}

	fallback, err := newSource(cfg, cfg.Source.Fallback)
	if err != nil {
		return nil, err
	}
	logger.Info("Using fallback holiday source",
		zap.String("primary", primary.Name()),
		zap.String("fallback", fallback.Name()))
	return source.NewCompositeSource(primary, fallback, logger), nil
}

func newSource(cfg *config.Config, kind string) (source.Source, error) {
	switch kind {
	case "api":
		return source.NewAPISource(
			cfg.Source.URL,
			cfg.Source.GetTimeout(),
			cfg.Source.GetCacheTTL(),
			cfg.Source.MinEntries,
			logger,
		), nil
	case "file":
		return source.NewFileSource(cfg.Source.Dir, logger), nil
	case "computed":
		return source.NewComputedSource(), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", kind)
	}
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Encoding = "console"

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err == nil {
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
