package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmoiron/sqlx"

	libraryinadapter "chapterly/internal/modules/library/adapter/in"
	libraryoutadapter "chapterly/internal/modules/library/adapter/out"
	libraryservice "chapterly/internal/modules/library/service"
	libraryusecase "chapterly/internal/modules/library/usecase"
	sessioninadapter "chapterly/internal/modules/session/adapter/in"
	sessionoutadapter "chapterly/internal/modules/session/adapter/out"
	sessionservice "chapterly/internal/modules/session/service"
	sessionusecase "chapterly/internal/modules/session/usecase"
	statsinadapter "chapterly/internal/modules/stats/adapter/in"
	statsoutadapter "chapterly/internal/modules/stats/adapter/out"
	statsusecase "chapterly/internal/modules/stats/usecase"
	surfaceinadapter "chapterly/internal/modules/surface/adapter/in"
	surfaceoutadapter "chapterly/internal/modules/surface/adapter/out"
	surfaceservice "chapterly/internal/modules/surface/service"
	surfaceusecase "chapterly/internal/modules/surface/usecase"
	widgetinadapter "chapterly/internal/modules/widget/adapter/in"
	widgetoutadapter "chapterly/internal/modules/widget/adapter/out"
	widgetout "chapterly/internal/modules/widget/port/out"
	widgetservice "chapterly/internal/modules/widget/service"
	widgetusecase "chapterly/internal/modules/widget/usecase"
	"chapterly/internal/platform/clock"
	"chapterly/internal/platform/config"
	"chapterly/internal/platform/id"
	"chapterly/internal/platform/logging"
	"chapterly/internal/platform/sqlitedb"
	"chapterly/internal/platform/tx"
	uiapp "chapterly/internal/ui/app"
)

type App struct {
	Config     config.Config
	LibraryCLI libraryinadapter.CLIHandler
	SessionCLI sessioninadapter.CLIHandler
	StatsCLI   statsinadapter.CLIHandler
	WidgetCLI  widgetinadapter.CLIHandler
	SurfaceCLI surfaceinadapter.CLIHandler

	db      *sqlx.DB
	closers []func()
}

// New wires every module against the data home in cfg and restores a timer left by a
// previous process. Callers must Close the app.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	logger = logging.OrDiscard(logger)
	clk := clock.SystemClock{}
	ids := id.UUID{}

	db, err := sqlitedb.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, db: db}

	bookStore, err := libraryoutadapter.NewSQLiteBookStore(ctx, db)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("new book store: %w", err)
	}
	sessionStore, err := sessionoutadapter.NewSQLiteSessionStore(ctx, db)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("new session store: %w", err)
	}

	notifier := libraryoutadapter.NewProjectionNotifier()
	libraryUC := libraryusecase.NewInteractor(
		libraryservice.NewBookService(clk, ids, bookStore),
		libraryoutadapter.NewGoogleBooksCatalog(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Timeout),
		libraryoutadapter.NewPDFInspector(),
		notifier,
		logger.With("module", "library"),
	)

	surfaceUC := surfaceusecase.NewInteractor(surfaceservice.NewSurfaceService(
		surfaceoutadapter.NewFileManifestStore(cfg.PluginsPath),
		surfaceoutadapter.NewGRPCHost(logger),
		logger.With("module", "surface"),
	))

	fileSurface := widgetoutadapter.NewFileSurface(cfg.SurfacePath)
	publisher := widgetservice.NewPublisher(
		[]widgetout.Surface{fileSurface, widgetoutadapter.NewDisplaySurfaces(surfaceUC)},
		widgetservice.PublishOptions{Attempts: cfg.Widget.PublishAttempts, BaseDelay: cfg.Widget.RetryBaseDelay},
		logger.With("module", "widget"),
	)
	streak := widgetoutadapter.NewStatsStreak()
	widgetUC := widgetusecase.NewInteractor(
		widgetoutadapter.NewLibraryBooks(libraryUC),
		publisher,
		fileSurface,
		streak,
		clk,
		logger.With("module", "widget"),
	)

	sessionUC := sessionusecase.NewInteractor(sessionusecase.Deps{
		Service:      sessionservice.NewSessionService(ids, sessionStore),
		Books:        sessionoutadapter.NewLibraryBooks(libraryUC),
		TimerState:   sessionoutadapter.NewFileTimerStore(cfg.TimerStatePath),
		Projection:   sessionoutadapter.NewWidgetProjection(widgetUC),
		Exporter:     sessionoutadapter.NewMarkdownLogExporter(),
		Tx:           tx.NewSQLManager(db),
		Clock:        clk,
		Logger:       logger.With("module", "session"),
		TickInterval: cfg.Timer.TickInterval,
	})
	app.closers = append(app.closers, sessionUC.Close)
	notifier.Bind(sessionUC)

	statsUC := statsusecase.NewInteractor(statsoutadapter.NewSessionSource(sessionUC), clk, logger.With("module", "stats"))
	streak.Bind(statsUC)

	if _, err := sessionUC.Restore(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("restore timer: %w", err)
	}

	app.LibraryCLI = libraryinadapter.NewCLIHandler(libraryUC)
	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.StatsCLI = statsinadapter.NewCLIHandler(statsUC)
	app.WidgetCLI = widgetinadapter.NewCLIHandler(widgetUC)
	app.SurfaceCLI = surfaceinadapter.NewCLIHandler(surfaceUC)
	return app, nil
}

// Close stops the timer ticker and releases the database. The timer itself keeps
// running on disk and is restored by the next process.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(ctx, app.LibraryCLI, app.SessionCLI, app.StatsCLI, app.WidgetCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
