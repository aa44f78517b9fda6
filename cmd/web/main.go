package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/liftline/liftline/internal/catalog"
	"github.com/liftline/liftline/internal/envstruct"
	"github.com/liftline/liftline/internal/errors"
	"github.com/liftline/liftline/internal/logging"
	"github.com/liftline/liftline/internal/sqlite"
	"github.com/liftline/liftline/internal/workout"
)

type application struct {
	logger         *slog.Logger
	catalogClient  *catalog.Client
	workoutService *workout.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"LIFTLINE_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"LIFTLINE_SQLITE_URL" envDefault:"./liftline.sqlite3"`
	// CatalogURL is the base URL of the exercise catalog API.
	CatalogURL string `env:"LIFTLINE_CATALOG_URL" envDefault:"https://exercisedb-api.example.com/api/v1"`
	// CatalogAPIKey authenticates against the exercise catalog API.
	CatalogAPIKey string `env:"LIFTLINE_CATALOG_API_KEY" envDefault:""`
	// CatalogTTLHours is how long fetched catalog data stays fresh.
	CatalogTTLHours int `env:"LIFTLINE_CATALOG_TTL_HOURS" envDefault:"24"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	cache := catalog.NewCache(time.Duration(cfg.CatalogTTLHours) * time.Hour)
	catalogClient, err := catalog.NewClient(cfg.CatalogURL, cfg.CatalogAPIKey, http.DefaultClient, cache, logger)
	if err != nil {
		return errors.Wrap(err, "new catalog client")
	}

	workoutService := workout.NewService(db, catalogClient, logger)
	defer workoutService.Close()

	app := application{
		logger:         logger,
		catalogClient:  catalogClient,
		workoutService: workoutService,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
