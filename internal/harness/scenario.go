package harness

import (
	"bytes"
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/roach88/msgboard/internal/store"
)

// Scenario is a scripted run against a fresh message board.
// Steps execute in order through a real engine; each step may carry an
// expect clause checked against what the engine actually returned.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Backend selects the store implementation (default "sqlite").
	Backend string `yaml:"backend,omitempty"`

	// Steps run sequentially.
	Steps []Step `yaml:"steps"`
}

// Step is one request to the engine. Exactly one of Init, Add, Execute
// or Query must be set.
type Step struct {
	// Init instantiates the board; the value is the sender.
	Init string `yaml:"init,omitempty"`

	// Sender is the caller identity for Add and Execute.
	Sender string `yaml:"sender,omitempty"`

	// Add submits an AddMessage transition.
	Add *AddStep `yaml:"add,omitempty"`

	// Execute submits a raw JSON ExecuteMsg, for exercising request routing.
	Execute string `yaml:"execute,omitempty"`

	// Query names the query to run: current_id, all, by_addr, by_topic, by_id.
	Query string `yaml:"query,omitempty"`

	// Address is the owner filter for by_addr.
	Address string `yaml:"address,omitempty"`

	// Topic is the topic filter for by_topic.
	Topic string `yaml:"topic,omitempty"`

	// ID is the lookup key for by_id.
	ID *uint64 `yaml:"id,omitempty"`

	// Expect validates the step outcome. If nil, the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// AddStep holds the AddMessage fields.
type AddStep struct {
	Topic   string `yaml:"topic"`
	Message string `yaml:"message"`
}

// Expect describes the expected step outcome.
// Only the fields that are set are checked.
type Expect struct {
	// Error is the expected contract error code, e.g. NOT_FOUND.
	Error string `yaml:"error,omitempty"`

	// IDs is the exact id sequence a listing query must return.
	IDs *[]uint64 `yaml:"ids,omitempty"`

	// CurrentID is the value current_id must return.
	CurrentID *uint64 `yaml:"current_id,omitempty"`

	// Attributes is a subset match on the transition's attributes.
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// Step kinds, as recorded in the trace.
const (
	StepInit    = "init"
	StepAdd     = "add"
	StepExecute = "execute"
	StepQuery   = "query"
)

// Query names accepted in Step.Query.
const (
	QueryCurrentID = "current_id"
	QueryAll       = "all"
	QueryByAddr    = "by_addr"
	QueryByTopic   = "by_topic"
	QueryByID      = "by_id"
)

var queryNames = []string{QueryCurrentID, QueryAll, QueryByAddr, QueryByTopic, QueryByID}

// Kind returns which request the step carries, or "" if it carries
// none or several.
func (s Step) Kind() string {
	var kinds []string
	if s.Init != "" {
		kinds = append(kinds, StepInit)
	}
	if s.Add != nil {
		kinds = append(kinds, StepAdd)
	}
	if s.Execute != "" {
		kinds = append(kinds, StepExecute)
	}
	if s.Query != "" {
		kinds = append(kinds, StepQuery)
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// BackendKind returns the store kind the scenario runs on.
func (s *Scenario) BackendKind() store.Kind {
	if s.Backend == "" {
		return store.KindSQLite
	}
	return store.Kind(s.Backend)
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if !lo.Contains(store.Kinds, s.BackendKind()) {
		return fmt.Errorf("unknown backend %q: must be one of %v", s.Backend, store.Kinds)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step based on its kind.
func validateStep(index int, s *Step) error {
	switch s.Kind() {
	case "":
		return fmt.Errorf("steps[%d]: exactly one of init, add, execute, query is required", index)

	case StepAdd, StepExecute:
		if s.Sender == "" {
			return fmt.Errorf("steps[%d]: sender is required for %s", index, s.Kind())
		}

	case StepQuery:
		if !lo.Contains(queryNames, s.Query) {
			return fmt.Errorf("steps[%d]: unknown query %q: must be one of %v", index, s.Query, queryNames)
		}
		if s.Query == QueryByID && s.ID == nil {
			return fmt.Errorf("steps[%d]: id is required for by_id", index)
		}
		if s.Expect != nil && len(s.Expect.Attributes) > 0 {
			return fmt.Errorf("steps[%d].expect: attributes are not produced by queries", index)
		}
	}

	if s.Expect != nil {
		if s.Expect.Error != "" && (s.Expect.IDs != nil || s.Expect.CurrentID != nil || len(s.Expect.Attributes) > 0) {
			return fmt.Errorf("steps[%d].expect: error cannot be combined with other expectations", index)
		}
		if s.Expect.CurrentID != nil && s.Query != QueryCurrentID {
			return fmt.Errorf("steps[%d].expect: current_id only applies to the current_id query", index)
		}
		if s.Expect.IDs != nil && (s.Kind() != StepQuery || s.Query == QueryCurrentID) {
			return fmt.Errorf("steps[%d].expect: ids only apply to listing queries", index)
		}
	}

	return nil
}
