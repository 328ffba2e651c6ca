package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kanban/internal/handler"
	"kanban/internal/hub"
	"kanban/internal/service"
	"kanban/internal/watcher"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Addr  string
	Watch string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and event stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&opts.Watch, "watch", "", "board file to import at startup and again whenever it changes")

	return cmd
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *ServeOptions) error {
	log := rootOpts.log
	cfg := rootOpts.cfg
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}

	repo, err := rootOpts.openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	eventBus := service.NewEventBus()

	sseHub := hub.New(log)
	go sseHub.Run()
	defer sseHub.Stop()

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	defer eventBus.Unsubscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-ctx.Done():
				return
			}
		}
	}()

	svc := service.NewBoardService(repo, eventBus, log)

	if opts.Watch != "" {
		if err := startWatch(ctx, svc, opts.Watch, log); err != nil {
			return err
		}
	}
	router := handler.NewRouter(handler.NewBoardHandler(svc, log), sseHub, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr, "database", cfg.Database.Path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	// SSE streams never finish on their own
	sseHub.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}

// startWatch imports the board file once, then again on every change
func startWatch(ctx context.Context, svc *service.BoardService, path string, log *slog.Logger) error {
	c, err := codecFor(path, "")
	if err != nil {
		return err
	}
	if log == nil {
		log = slog.Default()
	}

	reload := func() {
		board, err := readBoard(c, path)
		if err != nil {
			log.Error("failed to read board", "path", path, "error", err)
			return
		}
		if _, err := svc.ImportBoard(ctx, board); err != nil {
			log.Error("failed to import board", "path", path, "error", err)
		}
	}
	reload()

	w := watcher.New(path, reload, log)
	go func() {
		if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("board watcher stopped", "path", path, "error", err)
		}
	}()
	return nil
}
