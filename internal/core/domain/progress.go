package domain

// ProgressStep is one unit of user-visible status emitted while an agent
// runs. Result is set on the final step (conventionally "Complete").
type ProgressStep struct {
	Step   string `json:"step"`
	Result string `json:"result,omitempty"`
}

// ProgressSink receives the ordered step sequence for one in-flight run.
// Append is called in program order: each append happens-before the next
// generation phase begins. Implementations must not block the caller on a
// slow observer.
type ProgressSink interface {
	Append(step ProgressStep)
	Steps() []ProgressStep
}

// NopSink discards progress. Useful for callers that only want the result.
type NopSink struct{}

func (NopSink) Append(ProgressStep)   {}
func (NopSink) Steps() []ProgressStep { return nil }
