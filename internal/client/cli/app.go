package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/babysteps/internal/client/api"
	"github.com/dmitrijs2005/babysteps/internal/client/config"
	"github.com/dmitrijs2005/babysteps/internal/client/kv"
	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/client/netmon"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/client/queue"
	"github.com/dmitrijs2005/babysteps/internal/client/repositories/users"
	"github.com/dmitrijs2005/babysteps/internal/client/services"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = errors.New("not logged in, run 'login' or 'register' first")

type App struct {
	config *config.Config
	logger logging.Logger
	lc     *local.Context
	pinger netmon.Pinger
	closer func() error

	stores     services.Stores
	auth       *services.AuthService
	babies     services.BabyService
	activities services.ActivityService
	reminders  services.ReminderService
	settings   services.SettingsService
	backup     *services.BackupService
	sync       *services.SyncService

	session *users.Session
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the local store and wires the services against the server
// configured in c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, c.LogLevel)

	store, err := kv.Open(ctx, c, logger)
	if err != nil {
		return nil, err
	}
	lc := local.New(store, local.WithNamespace(c.Namespace), local.WithLogger(logger))

	client := api.NewHTTPClient(c.ServerURL, c.RequestTimeout, api.WithTokenListener(func(tp models.TokenPair) {
		services.SaveTokens(context.Background(), lc, tp)
	}))
	if tp, ok := services.LoadTokens(ctx, lc); ok {
		client.SetTokens(tp)
	}

	pinger, err := api.NewHealthPinger(c.HealthAddr)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := newApp(c, lc, client, pinger, logger)
	a.closer = func() error {
		return errors.Join(pinger.Close(), store.Close())
	}
	logger.Debug(ctx, "local store opened", "backend", store.BackendName())
	return a, nil
}

func newApp(c *config.Config, lc *local.Context, client api.Client, pinger netmon.Pinger, logger logging.Logger) *App {
	stores := services.NewStores(lc)
	q := queue.New(lc.Store, logger)
	syncSvc := services.NewSyncService(client, q, stores, c.QueueKeepSynced, logger)
	orch := orchestrator.New(client, q, syncSvc.Monitor(), logger)

	return &App{
		config:     c,
		logger:     logger,
		lc:         lc,
		pinger:     pinger,
		stores:     stores,
		auth:       services.NewAuthService(lc, stores, client, syncSvc.Monitor(), orch, logger),
		babies:     services.NewBabyService(lc, stores, orch),
		activities: services.NewActivityService(lc, stores, orch),
		reminders:  services.NewReminderService(lc, stores, orch),
		settings:   services.NewSettingsService(stores, orch),
		backup:     services.NewBackupService(lc, client, logger),
		sync:       syncSvc,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}
}

// Close releases the store and the health connection.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// start seeds demo data when configured, restores the session and probes
// the server once. A reachable server gets the pending queue right away.
func (a *App) start(ctx context.Context) {
	if a.config.SeedDemoData {
		if _, err := services.SeedDemo(ctx, a.stores, a.logger); err != nil {
			a.logger.Warn(ctx, "demo seed failed", "error", err)
		}
	}

	if s, err := a.auth.Current(ctx); err == nil {
		a.session = s
	}

	if a.sync.Monitor().Probe(ctx, a.pinger) {
		if r := a.sync.Sync(ctx); r.Err != nil {
			a.logger.Warn(ctx, "initial sync incomplete", "error", r.Err)
		}
	}
}

// Run executes args as a single command, or starts the interactive prompt
// when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	a.start(ctx)

	if len(args) > 0 {
		return a.Exec(ctx, args[0], args[1:])
	}

	a.sync.Monitor().OnChange(func(online bool) {
		if online {
			printlnFn("Switched to online mode")
		} else {
			printlnFn("Switched to offline mode")
		}
	})
	go a.sync.Watch(ctx, a.config.OnlineCheckInterval, a.pinger)

	printlnFn("Welcome to Baby Steps (type 'help' for commands)")
	runREPL(ctx, a, a.prompt, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

// owner returns the signed-in user id.
func (a *App) owner() (string, error) {
	if a.session == nil {
		return "", ErrNotLoggedIn
	}
	return a.session.User.ID, nil
}

func (a *App) prompt() string {
	mode := "offline"
	if a.sync.Monitor().Online() {
		mode = "online"
	}
	if a.session != nil {
		return a.session.User.Email + " " + mode
	}
	return mode
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// printOutcome reports where a mutation ended up.
func (a *App) printOutcome(what string, out orchestrator.Outcome, err error) {
	switch out.Result {
	case orchestrator.OnlineOK:
		a.printf("%s saved.\n", what)
	case orchestrator.QueuedOffline:
		a.printf("%s saved offline, it will sync when the server is reachable.\n", what)
		if err != nil {
			a.printf("  (server error: %v)\n", err)
		}
	}
}

// rejected returns err only when the mutation did not land anywhere.
// Warnings next to a queued outcome have already been printed.
func rejected(out orchestrator.Outcome, err error) error {
	if out.Result == orchestrator.OnlineOK || out.Result == orchestrator.QueuedOffline {
		return nil
	}
	return err
}

// describe turns service errors into short user messages.
func describe(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, common.ErrAlreadyExists):
		return "Already exists"
	case errors.Is(err, common.ErrorNotFound):
		return "Not found"
	case errors.Is(err, common.ErrAuthorization), errors.Is(err, api.ErrForbidden):
		return "Not allowed"
	case errors.Is(err, netmon.ErrOffline):
		return "This needs a connection to the server"
	default:
		return err.Error()
	}
}
