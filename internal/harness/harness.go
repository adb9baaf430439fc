package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/msgboard/internal/contract"
	"github.com/roach88/msgboard/internal/engine"
	"github.com/roach88/msgboard/internal/ir"
	"github.com/roach88/msgboard/internal/store"
	"github.com/roach88/msgboard/internal/testutil"
)

// Harness drives one scenario through a running engine.
type Harness struct {
	engine *engine.Engine
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory backend and its own engine.
// Transaction ids come from a deterministic sequence (tx-1, tx-2, ...), so
// the same scenario always yields the same trace.
//
// Execution flow:
// 1. Open the in-memory backend named by the scenario
// 2. Start the engine's Run loop
// 3. Execute each step, record it in the trace, check its expect clause
// 4. Stop the engine and return the result
//
// A returned error means the scenario could not be executed at all, e.g. the
// backend failed. Contract errors are recorded in the trace instead.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	backend, err := store.Open(scenario.BackendKind(), store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer backend.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in scenarios
	eng := engine.New(backend,
		engine.WithTxIDGenerator(testutil.NewTxIDSequence(testutil.DefaultTxPrefix)),
		engine.WithLogger(logger),
	)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- eng.Run(runCtx)
	}()
	defer func() {
		eng.Stop()
		<-done
		cancel()
	}()

	h := &Harness{engine: eng, logger: logger}
	result := NewResult()

	for i, step := range scenario.Steps {
		event, err := h.executeStep(runCtx, i, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Kind(), err)
		}
		result.AddTrace(event)
		h.logger.Debug("step executed",
			"step", i,
			"kind", event.Kind,
			"error", event.Error,
		)

		if err := checkExpect(step, event, result.Trace); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}

// executeStep sends one step to the engine and records the outcome.
func (h *Harness) executeStep(ctx context.Context, index int, step Step) (TraceEvent, error) {
	event := TraceEvent{Step: index, Kind: step.Kind()}

	switch event.Kind {
	case StepInit:
		event.Sender = step.Init
		res, err := h.engine.Instantiate(ctx, step.Init)
		return h.transitionEvent(event, res, err)

	case StepAdd:
		event.Sender = step.Sender
		msg := ir.ExecuteMsg{AddMessage: &ir.AddMessage{
			Topic:   step.Add.Topic,
			Message: step.Add.Message,
		}}
		req, err := json.Marshal(msg)
		if err != nil {
			return event, fmt.Errorf("marshal request: %w", err)
		}
		event.Request = req

		res, err := h.engine.Execute(ctx, step.Sender, msg)
		return h.transitionEvent(event, res, err)

	case StepExecute:
		event.Sender = step.Sender
		req, err := rawRequest(step.Execute)
		if err != nil {
			return event, err
		}
		event.Request = req

		res, err := h.engine.ExecuteRaw(ctx, step.Sender, []byte(step.Execute))
		return h.transitionEvent(event, res, err)

	case StepQuery:
		msg := buildQuery(step)
		req, err := json.Marshal(msg)
		if err != nil {
			return event, fmt.Errorf("marshal request: %w", err)
		}
		event.Request = req

		data, err := h.engine.Query(ctx, msg)
		if err != nil {
			return recordError(event, err)
		}
		event.Response = data
		return event, nil

	default:
		return event, fmt.Errorf("step has no request")
	}
}

// transitionEvent fills in the result of an init, add or execute step.
func (h *Harness) transitionEvent(event TraceEvent, res ir.Response, err error) (TraceEvent, error) {
	event.Height = h.engine.Clock().Current()
	if err != nil {
		return recordError(event, err)
	}
	event.Attributes = res.Attributes
	return event, nil
}

// recordError stores a contract error code in the event. Any other error
// aborts the scenario.
func recordError(event TraceEvent, err error) (TraceEvent, error) {
	code := contract.CodeOf(err)
	if code == "" {
		return event, err
	}
	event.Error = string(code)
	return event, nil
}

// buildQuery maps a query step onto the wire request.
func buildQuery(step Step) ir.QueryMsg {
	switch step.Query {
	case QueryCurrentID:
		return ir.QueryMsg{GetCurrentID: &ir.GetCurrentID{}}
	case QueryAll:
		return ir.QueryMsg{GetAllMessage: &ir.GetAllMessage{}}
	case QueryByAddr:
		return ir.QueryMsg{GetMessagesByAddr: &ir.GetMessagesByAddr{Address: step.Address}}
	case QueryByTopic:
		return ir.QueryMsg{GetMessagesByTopic: &ir.GetMessagesByTopic{Topic: step.Topic}}
	case QueryByID:
		var id uint64
		if step.ID != nil {
			id = *step.ID
		}
		return ir.QueryMsg{GetMessagesByID: &ir.GetMessagesByID{ID: ir.Uint64(id)}}
	default:
		return ir.QueryMsg{}
	}
}

// rawRequest returns a trace-safe form of a raw request: compacted JSON
// when it parses, otherwise the text as a JSON string.
func rawRequest(s string) (json.RawMessage, error) {
	if json.Valid([]byte(s)) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(s)); err != nil {
			return nil, fmt.Errorf("compact request: %w", err)
		}
		return buf.Bytes(), nil
	}
	quoted, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return quoted, nil
}
