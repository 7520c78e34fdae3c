package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	exerciseinadapter "exlog/internal/modules/exercise/adapter/in"
	exerciseoutadapter "exlog/internal/modules/exercise/adapter/out"
	exerciseout "exlog/internal/modules/exercise/port/out"
	exerciseservice "exlog/internal/modules/exercise/service"
	exerciseusecase "exlog/internal/modules/exercise/usecase"
	"exlog/internal/platform/clock"
	"exlog/internal/platform/config"
	"exlog/internal/platform/id"
	"exlog/internal/platform/logging"
	uiapp "exlog/internal/ui/app"
)

// Options selects the presentation. Interactive routes effects to an event
// sink for the TUI and logs to a file; otherwise effects are printed to Out
// and Err.
type Options struct {
	Out         io.Writer
	Err         io.Writer
	Interactive bool
}

type App struct {
	ExerciseCLI exerciseinadapter.CLIHandler
	Presenter   *exerciseoutadapter.TextPresenter
	Events      *exerciseoutadapter.EventSink
	Config      config.Config
	Logger      *slog.Logger

	closers []io.Closer
}

func New(cfg config.Config, opts Options) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}
	app := &App{Config: cfg}

	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	if opts.Interactive {
		logFile, err := openLogFile(cfg.StoreDir())
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, logFile)
		app.Logger = logging.NewWithWriter(cfg.Log, logFile)
	} else {
		app.Logger = logging.NewWithWriter(cfg.Log, opts.Err)
	}

	store, err := newStore(cfg, clk)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}

	ports := exerciseusecase.Ports{
		Store:    store,
		Location: exerciseoutadapter.NewStaticLocationProvider(cfg.Location),
		Exporter: exerciseoutadapter.NewMarkdownJournalExporter(),
	}
	if opts.Interactive {
		app.Events = exerciseoutadapter.NewEventSink()
		ports.Renderer = app.Events
		ports.Notifier = app.Events
	} else {
		app.Presenter = exerciseoutadapter.NewTextPresenter(opts.Out, opts.Err)
		ports.Renderer = app.Presenter
		ports.Notifier = app.Presenter
	}

	exerciseUC := exerciseusecase.NewInteractor(
		exerciseservice.NewIntakeService(clk, ids),
		ports,
		exerciseusecase.WithLogger(app.Logger),
		exerciseusecase.WithSnapshotKey(cfg.Store.Key),
		exerciseusecase.WithZoom(cfg.Map.Zoom),
	)
	app.ExerciseCLI = exerciseinadapter.NewCLIHandler(exerciseUC)
	return app, nil
}

func newStore(cfg config.Config, clk clock.Clock) (exerciseout.KVStore, error) {
	switch cfg.Store.Driver {
	case config.DriverFile:
		return exerciseoutadapter.NewFileKVStore(cfg.StoreDir()), nil
	case config.DriverSQLite:
		store, err := exerciseoutadapter.NewSQLiteKVStore(cfg.Store.Path, clk)
		if err != nil {
			return nil, fmt.Errorf("new sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "exlog.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	if app.Events == nil {
		return fmt.Errorf("app was not built for interactive use")
	}
	model := uiapp.NewModel(app.ExerciseCLI, app.Events, app.Config.Map.Zoom)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
