package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/msgboard/internal/engine"
	"github.com/roach88/msgboard/internal/store"
)

// session is one command's connection to the board: the opened backend
// and an engine over it.
type session struct {
	opts    *RootOptions
	backend store.Backend
	engine  *engine.Engine
	cancel  context.CancelFunc
	done    chan error
}

// openSession opens the configured database and creates an engine.
func openSession(opts *RootOptions) (*session, error) {
	cfg := opts.Config

	opts.Logger.Debug("opening database", "backend", cfg.Backend, "path", cfg.Database)
	backend, err := store.Open(store.Kind(cfg.Backend), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("%s database %s: %w", cfg.Backend, cfg.Database, err)
	}

	eng := engine.New(backend, engine.WithLogger(opts.Logger))
	return &session{opts: opts, backend: backend, engine: eng}, nil
}

// start runs the engine loop so Execute calls are applied.
func (s *session) start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() {
		s.done <- s.engine.Run(runCtx)
	}()
}

// Close stops the engine loop, if started, and closes the database.
func (s *session) Close() {
	if s.done != nil {
		s.engine.Stop()
		if err := <-s.done; err != nil && !errors.Is(err, context.Canceled) {
			s.opts.Logger.Error("engine stopped with error", "error", err)
		}
		s.cancel()
	}
	if err := s.backend.Close(); err != nil {
		s.opts.Logger.Error("error closing database", "error", err)
	}
}

// commandContext returns cmd's context, or Background when run without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
