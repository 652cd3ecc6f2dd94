package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a board test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Strict toggles strict list references. Defaults to true.
	Strict *bool `yaml:"strict,omitempty"`

	// Setup steps establish initial state. They must succeed and are not
	// part of the trace.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow contains the steps under test.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final board.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one board operation.
type Step struct {
	Op string `yaml:"op"`

	// Ticket is the alias of an existing ticket (delete, update, move).
	Ticket string `yaml:"ticket,omitempty"`

	// List is the list added to or reordered.
	List string `yaml:"list,omitempty"`

	Title       *string `yaml:"title,omitempty"`
	Description *string `yaml:"description,omitempty"`

	// As names the ticket created by an add. Defaults to the title.
	As string `yaml:"as,omitempty"`

	// To and Index give the destination of a move.
	To    string `yaml:"to,omitempty"`
	Index *int   `yaml:"index,omitempty"`

	// Drop is a raw drop event, used instead of ticket/to/index.
	Drop *DropStep `yaml:"drop,omitempty"`

	// Order lists aliases in the new order of a reorder.
	Order []string `yaml:"order,omitempty"`

	// ExpectError is the error code the step must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// DropStep mirrors model.DropEvent in YAML.
type DropStep struct {
	SourceList  string `yaml:"source_list"`
	TargetList  string `yaml:"target_list"`
	SourceIndex int    `yaml:"source_index"`
	TargetIndex int    `yaml:"target_index"`
}

// Assertion validates the final board.
type Assertion struct {
	// Type is one of list_order, list_count, ticket_list, dense.
	Type string `yaml:"type"`

	List    string   `yaml:"list,omitempty"`
	Ticket  string   `yaml:"ticket,omitempty"`
	Tickets []string `yaml:"tickets,omitempty"`
	Count   *int     `yaml:"count,omitempty"`
	Order   *int     `yaml:"order,omitempty"`
}

// Operation names.
const (
	OpAdd     = "add"
	OpDelete  = "delete"
	OpUpdate  = "update"
	OpMove    = "move"
	OpReorder = "reorder"
)

// Assertion type constants.
const (
	AssertListOrder  = "list_order"
	AssertListCount  = "list_count"
	AssertTicketList = "ticket_list"
	AssertDense      = "dense"
)

// StrictReferences reports the effective strict setting.
func (s *Scenario) StrictReferences() bool {
	return s.Strict == nil || *s.Strict
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
	// Reject unknown fields so typos like "assertion:" fail loudly.
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
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(fmt.Sprintf("setup[%d]", i), step); err != nil {
			return err
		}
		if step.ExpectError != "" {
			return fmt.Errorf("setup[%d]: expect_error is not allowed in setup", i)
		}
	}
	for i, step := range s.Flow {
		if err := validateStep(fmt.Sprintf("flow[%d]", i), step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(where string, st Step) error {
	switch st.Op {
	case OpAdd:
		if st.List == "" {
			return fmt.Errorf("%s: list is required for add", where)
		}
		if st.Title == nil {
			return fmt.Errorf("%s: title is required for add", where)
		}
	case OpDelete:
		if st.Ticket == "" {
			return fmt.Errorf("%s: ticket is required for delete", where)
		}
	case OpUpdate:
		if st.Ticket == "" {
			return fmt.Errorf("%s: ticket is required for update", where)
		}
	case OpMove:
		if st.Drop != nil {
			if st.Ticket != "" || st.To != "" || st.Index != nil {
				return fmt.Errorf("%s: drop excludes ticket, to and index", where)
			}
			return nil
		}
		if st.Ticket == "" || st.To == "" || st.Index == nil {
			return fmt.Errorf("%s: move needs ticket, to and index, or a drop", where)
		}
	case OpReorder:
		if st.List == "" {
			return fmt.Errorf("%s: list is required for reorder", where)
		}
	case "":
		return fmt.Errorf("%s: op is required", where)
	default:
		return fmt.Errorf("%s: unknown op %q", where, st.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertListOrder:
		if a.List == "" {
			return fmt.Errorf("assertions[%d]: list is required for list_order", index)
		}
	case AssertListCount:
		if a.List == "" {
			return fmt.Errorf("assertions[%d]: list is required for list_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for list_count", index)
		}
	case AssertTicketList:
		if a.Ticket == "" || a.List == "" {
			return fmt.Errorf("assertions[%d]: ticket and list are required for ticket_list", index)
		}
	case AssertDense:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
