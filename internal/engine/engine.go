package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/msgboard/internal/contract"
	"github.com/roach88/msgboard/internal/ir"
	"github.com/roach88/msgboard/internal/store"
)

// Engine is the single-writer host around the contract.
//
// Execute requests are queued and applied one at a time by the Run loop,
// each in its own store transaction. A failed transition rolls back and
// leaves no trace in the store.
//
// Thread-safety model:
//   - Execute, ExecuteRaw: safe from any goroutine; block until applied
//   - Query, QueryRaw: safe from any goroutine; never overlap a transition
//   - Run: must be called from exactly one goroutine
type Engine struct {
	backend store.Backend
	clock   *Clock
	queue   *requestQueue
	txGen   TxIDGenerator
	logger  *slog.Logger

	// Transitions hold the write side, queries the read side.
	mu sync.RWMutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithTxIDGenerator sets the transaction id source (default UUIDv7Generator).
func WithTxIDGenerator(gen TxIDGenerator) Option {
	return func(e *Engine) {
		e.txGen = gen
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the height clock, e.g. to resume from a known height.
func WithClock(clock *Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New creates an Engine over backend. The engine does not own backend;
// callers close it after the engine stops.
func New(backend store.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend: backend,
		clock:   NewClock(),
		queue:   newRequestQueue(),
		txGen:   UUIDv7Generator{},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Instantiate initializes the contract state. It runs directly under the
// write lock rather than through the queue, so it works before Run starts.
func (e *Engine) Instantiate(ctx context.Context, sender string) (ir.Response, error) {
	return e.transition(ctx, sender, "instantiate", func(tx store.Tx, env ir.Env, info ir.MessageInfo) (ir.Response, error) {
		return contract.Instantiate(tx, env, info, ir.InstantiateMsg{})
	})
}

// Execute submits a transition and waits for the Run loop to apply it.
//
// Returns ErrStopped if the engine is stopped, or ctx.Err() if ctx ends
// while the request is still queued; the Run loop then skips it. Once the
// Run loop has taken the request, Execute waits for and returns its
// outcome, so a committed transition is never reported as cancelled.
func (e *Engine) Execute(ctx context.Context, sender string, msg ir.ExecuteMsg) (ir.Response, error) {
	if err := msg.Validate(); err != nil {
		return ir.Response{}, contract.NewInvalidRequestError(err)
	}

	req := &request{
		ctx:    ctx,
		sender: sender,
		msg:    msg,
		reply:  make(chan result, 1),
	}
	if !e.queue.Enqueue(req) {
		return ir.Response{}, ErrStopped
	}

	select {
	case r := <-req.reply:
		return r.res, r.err
	case <-ctx.Done():
		if req.abandon() {
			return ir.Response{}, ctx.Err()
		}
		r := <-req.reply
		return r.res, r.err
	}
}

// ExecuteRaw decodes a JSON ExecuteMsg and submits it.
func (e *Engine) ExecuteRaw(ctx context.Context, sender string, data []byte) (ir.Response, error) {
	msg, err := ir.DecodeExecuteMsg(data)
	if err != nil {
		return ir.Response{}, contract.NewInvalidRequestError(err)
	}
	return e.Execute(ctx, sender, msg)
}

// Query runs a read-only request against committed state and returns the
// JSON-encoded answer.
func (e *Engine) Query(ctx context.Context, msg ir.QueryMsg) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	env := ir.Env{Height: e.clock.Current()}

	var data []byte
	err := e.backend.View(ctx, func(tx store.Tx) error {
		var err error
		data, err = contract.Query(tx, env, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// QueryRaw decodes a JSON QueryMsg and runs it.
func (e *Engine) QueryRaw(ctx context.Context, data []byte) ([]byte, error) {
	msg, err := ir.DecodeQueryMsg(data)
	if err != nil {
		return nil, contract.NewInvalidRequestError(err)
	}
	return e.Query(ctx, msg)
}

// Run starts the single-writer loop.
// Blocks until ctx is cancelled or Stop is called.
//
// Must be called from exactly one goroutine. A failed transition is logged
// and reported to its caller; the loop continues with the next request.
// Requests still queued when the loop exits fail with ErrStopped.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Debug("engine starting", "contract", ir.ContractName, "version", ir.ContractVersion)
	defer e.rejectPending()

	for {
		if req, ok := e.queue.TryDequeue(); ok {
			e.process(req)
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Debug("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel is closed by Close, so this fires
			// immediately once the queue is closed.
			if e.queue.Len() == 0 && e.closed() {
				e.logger.Debug("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue. Run applies the requests already queued and
// then returns; later Execute calls fail with ErrStopped.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Clock returns the engine's height clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// process applies one queued request and replies to its caller.
// Called only from the Run goroutine.
func (e *Engine) process(req *request) {
	if !req.claim() {
		e.logger.Debug("skipping abandoned request", "sender", req.sender)
		return
	}
	if err := req.ctx.Err(); err != nil {
		req.reply <- result{err: err}
		return
	}

	res, err := e.transition(req.ctx, req.sender, ir.ActionAddMessage, func(tx store.Tx, env ir.Env, info ir.MessageInfo) (ir.Response, error) {
		return contract.Execute(tx, env, info, req.msg)
	})
	req.reply <- result{res: res, err: err}
}

type transitionFunc func(tx store.Tx, env ir.Env, info ir.MessageInfo) (ir.Response, error)

// transition runs fn in one store transaction under the write lock.
func (e *Engine) transition(ctx context.Context, sender, action string, fn transitionFunc) (ir.Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	env := ir.Env{
		Height: e.clock.Next(),
		TxID:   e.txGen.Generate(),
	}
	info := ir.MessageInfo{Sender: sender}

	var res ir.Response
	err := e.backend.Update(ctx, func(tx store.Tx) error {
		var err error
		res, err = fn(tx, env, info)
		return err
	})
	if err != nil {
		e.logger.Error("transition failed",
			"height", env.Height,
			"tx_id", env.TxID,
			"sender", sender,
			"action", action,
			"code", string(contract.CodeOf(err)),
			"error", err,
		)
		return ir.Response{}, fmt.Errorf("%s at height %d: %w", action, env.Height, err)
	}

	attrs := []any{
		"height", env.Height,
		"tx_id", env.TxID,
		"sender", sender,
		"action", action,
	}
	if id, ok := res.Attribute(contract.AttrID); ok {
		attrs = append(attrs, "message_id", id)
	}
	e.logger.Info("transition committed", attrs...)

	return res, nil
}

// closed reports whether Stop has been called.
func (e *Engine) closed() bool {
	e.queue.mu.Lock()
	defer e.queue.mu.Unlock()
	return e.queue.closed
}

// rejectPending fails every request left in the queue.
func (e *Engine) rejectPending() {
	e.queue.Close()
	for _, req := range e.queue.Drain() {
		req.reply <- result{err: ErrStopped}
	}
}
