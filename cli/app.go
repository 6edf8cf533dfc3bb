package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"lending/providers"
	"lending/providers/loggerProvider"
	metricsprovider "lending/providers/metricsProvider"
	inventoryservice "lending/services/inventory"
	"lending/services/remoteapi"
	sessionservice "lending/services/session"
	"lending/services/snapshot"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App is everything a command needs. Tests build one directly; the binary
// builds it from the environment with NewApp.
type App struct {
	Session   *sessionservice.Holder
	Inventory inventoryservice.InventoryService
	Logger    *zap.Logger
	In        io.Reader
	Out       io.Writer

	// ReadPassword prompts for a secret. Defaults to a masked terminal read.
	ReadPassword func(prompt string) (string, error)

	closers []func() error
}

func NewApp(ctx context.Context, cfg providers.ConfigProvider) (*App, error) {
	logger := loggerProvider.NewLogProvider(cfg.GetEnv())
	if cfg.GetEnv() == "debug" {
		logger.InitLogger()
	}

	store, err := snapshot.NewRepositoryFromConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s snapshot store", cfg.GetCacheBackend())
	}
	metrics := metricsprovider.NewMetricsProvider()
	client := remoteapi.NewClient(cfg.GetRemoteAPIURL(),
		remoteapi.WithTimeout(cfg.GetRemoteAPITimeout()),
		remoteapi.WithLogger(logger.GetLogger()),
		remoteapi.WithMetrics(metrics),
	)
	sessionService := sessionservice.NewSessionService(client, sessionservice.NewTokenDecoder(cfg.GetRemoteJWTSecret()), logger)

	app := &App{
		Session:   sessionservice.NewHolder(sessionService, store, logger.GetLogger()),
		Inventory: inventoryservice.NewInventoryService(client, store, logger, metrics, cfg.GetStaleAfter()),
		Logger:    logger.GetLogger(),
		In:        os.Stdin,
		Out:       os.Stdout,
		closers:   []func() error{store.Close},
	}
	if _, err := app.Session.Restore(ctx); err != nil && !errors.Is(err, sessionservice.ErrNoSession) {
		fmt.Fprintln(os.Stderr, "note:", err)
	}
	return app, nil
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	_ = a.Logger.Sync()
	return first
}

// authed returns ctx carrying the stored session.
func (a *App) authed(ctx context.Context) (context.Context, error) {
	ctx, err := a.Session.Context(ctx)
	if err != nil {
		return ctx, errors.New("not logged in, run `lendctl login` first")
	}
	return ctx, nil
}

func (a *App) password(prompt string) (string, error) {
	if a.ReadPassword != nil {
		return a.ReadPassword(prompt)
	}
	if f, ok := a.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.Out, prompt)
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.Out)
		if err != nil {
			return "", errors.Wrap(err, "failed to read password")
		}
		return strings.TrimSpace(string(raw)), nil
	}
	line, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "failed to read password")
	}
	return strings.TrimSpace(line), nil
}
