package harness

// TraceEvent records one flow step and how the board answered it.
type TraceEvent struct {
	Seq     int64    `json:"seq"`
	Op      string   `json:"op"`
	Ticket  string   `json:"ticket,omitempty"`
	List    string   `json:"list,omitempty"`
	To      string   `json:"to,omitempty"`
	From    *int     `json:"from,omitempty"`
	Index   *int     `json:"index,omitempty"`
	Order   []string `json:"order,omitempty"`
	Outcome string   `json:"outcome"`
}

// Outcome values besides error codes.
const (
	OutcomeOK      = "ok"
	OutcomeIgnored = "ignored"
	OutcomeError   = "ERROR"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace contains the flow steps in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Board maps each list id to its ticket aliases in order.
	Board map[string][]string `json:"board"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Board:  map[string][]string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
