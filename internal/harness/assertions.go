package harness

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/roach88/msgboard/internal/ir"
)

// AssertionError is returned when an expect clause does not match.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Step     int          // Index of the failing step
	Type     string       // Which expectation failed: error, ids, current_id, attributes
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Trace up to and including the failing step
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "step %d: expect %s failed\n", e.Step, e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nTrace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", event.Step, event.Kind)
			if len(event.Request) > 0 {
				fmt.Fprintf(&buf, " %s", event.Request)
			}
			if event.Error != "" {
				fmt.Fprintf(&buf, " -> %s", event.Error)
			}
			fmt.Fprintln(&buf)
		}
	}

	return buf.String()
}

// checkExpect validates event against step's expect clause.
// A step without an expect clause must not fail.
func checkExpect(step Step, event TraceEvent, trace []TraceEvent) error {
	expect := step.Expect
	if expect == nil {
		expect = &Expect{}
	}

	fail := func(typ, expected, actual string) error {
		return &AssertionError{
			Step:     event.Step,
			Type:     typ,
			Expected: expected,
			Actual:   actual,
			Trace:    trace,
		}
	}

	if expect.Error != "" || event.Error != "" {
		if event.Error != expect.Error {
			return fail("error", describeError(expect.Error), describeError(event.Error))
		}
		return nil
	}

	if expect.CurrentID != nil {
		got, err := decodeCurrentID(event.Response)
		if err != nil {
			return fail("current_id", fmt.Sprintf("%d", *expect.CurrentID), err.Error())
		}
		if got != *expect.CurrentID {
			return fail("current_id", fmt.Sprintf("%d", *expect.CurrentID), fmt.Sprintf("%d", got))
		}
	}

	if expect.IDs != nil {
		got, err := decodeIDs(event.Response)
		if err != nil {
			return fail("ids", fmt.Sprintf("%v", *expect.IDs), err.Error())
		}
		if !slices.Equal(got, *expect.IDs) {
			return fail("ids", fmt.Sprintf("%v", *expect.IDs), fmt.Sprintf("%v", got))
		}
	}

	if err := matchAttributes(expect.Attributes, event.Attributes); err != "" {
		return fail("attributes", formatAttributes(expect.Attributes), err)
	}

	return nil
}

func describeError(code string) string {
	if code == "" {
		return "success"
	}
	return "error " + code
}

// decodeCurrentID parses a current_id query answer.
func decodeCurrentID(data json.RawMessage) (uint64, error) {
	var id ir.Uint64
	if err := json.Unmarshal(data, &id); err != nil {
		return 0, fmt.Errorf("response is not a current id: %w", err)
	}
	return uint64(id), nil
}

// decodeIDs parses a listing answer and projects the message ids in order.
func decodeIDs(data json.RawMessage) ([]uint64, error) {
	var resp ir.MessagesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("response is not a message list: %w", err)
	}
	return lo.Map(resp.Messages, func(m ir.Message, _ int) uint64 {
		return uint64(m.ID)
	}), nil
}

// matchAttributes checks that every expected key is present with the
// expected value (subset semantics). Returns "" on match.
func matchAttributes(expected map[string]string, actual []ir.Attribute) string {
	if len(expected) == 0 {
		return ""
	}

	got := lo.SliceToMap(actual, func(a ir.Attribute) (string, string) {
		return a.Key, a.Value
	})

	keys := lo.Keys(expected)
	sort.Strings(keys)
	for _, key := range keys {
		value, ok := got[key]
		if !ok {
			return fmt.Sprintf("attribute %q missing", key)
		}
		if value != expected[key] {
			return fmt.Sprintf("attribute %q = %q", key, value)
		}
	}
	return ""
}

// formatAttributes renders attrs with sorted keys for stable messages.
func formatAttributes(attrs map[string]string) string {
	keys := lo.Keys(attrs)
	sort.Strings(keys)
	parts := lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s=%q", k, attrs[k])
	})
	return strings.Join(parts, ", ")
}
