package domain

// ComposioApps is the closed catalog of connectable external applications.
var ComposioApps = []string{
	"gmail", "slack", "google_calendar", "zoom", "trello", "google_sheets",
	"shopify", "stripe", "calendly", "whatsapp_business", "twilio",
	"facebook_ads", "typeform",
}

// ToolCatalogSpec scopes a tool catalog request. Exactly one of Actions or
// App should be set; with neither the resolver yields an empty catalog,
// which is a warning-worthy state but not an error.
type ToolCatalogSpec struct {
	Actions []string `json:"actions,omitempty"`
	App     string   `json:"app,omitempty"`
}

// Empty reports whether the spec scopes nothing.
func (s ToolCatalogSpec) Empty() bool {
	return len(s.Actions) == 0 && s.App == ""
}

// Scope is a human-readable tag for logs and errors.
func (s ToolCatalogSpec) Scope() string {
	if len(s.Actions) > 0 {
		return "actions:" + s.Actions[0]
	}
	if s.App != "" {
		return "app:" + s.App
	}
	return "none"
}

// ToolDefinition is one callable tool as handed to the LLM. Parameters is
// the provider's JSON schema, passed through verbatim.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ToolSet is the opaque handle the integration provider issues for one
// resolved catalog; it must be passed back when executing tool calls.
type ToolSet struct {
	ID      string   `json:"id"`
	Entity  string   `json:"entity,omitempty"`
	Actions []string `json:"actions,omitempty"`
}

// ToolCall is one structured invocation request emitted by the model.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON
}

// ToolCallResponse is the model's answer to a tool-enabled completion:
// either one or more tool calls, or direct text content. Exactly one side
// is populated.
type ToolCallResponse struct {
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Content   string     `json:"content,omitempty"`
}

// RequestsTools reports whether the model asked for tool execution.
func (r ToolCallResponse) RequestsTools() bool { return len(r.ToolCalls) > 0 }

// ExecutionOutcome is what the tool-call loop surfaces: the provider's
// execution result when tools ran, otherwise the model's direct text.
type ExecutionOutcome struct {
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Result    any        `json:"result,omitempty"`
	Text      string     `json:"text,omitempty"`
}

// Direct reports whether the model answered without tools.
func (o ExecutionOutcome) Direct() bool { return len(o.ToolCalls) == 0 }

// Email is an outbound message sent through the integration provider.
type Email struct {
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	To          string   `json:"to,omitempty"`
	CC          []string `json:"cc,omitempty"`
	BCC         []string `json:"bcc,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// SendResult reports the outcome of an email send.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
}
