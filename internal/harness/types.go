package harness

// TraceEvent is one engine event as observed by the harness.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	AtMS     int64  `json:"at_ms"`
	Kind     string `json:"kind"`
	Level    int    `json:"level"`
	Coins    int    `json:"coins"`
	TimeLeft int    `json:"time_left"`
	Indices  []int  `json:"indices,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds every engine event in emission order.
	Trace []TraceEvent `json:"trace"`

	// Popups holds every popup message in order.
	Popups []string `json:"popups"`

	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Popups: []string{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
