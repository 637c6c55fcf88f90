package domain

import "fmt"

// UnknownAgentError is returned by dispatch when no routine matches the
// requested ID. Terminal: the caller must surface it, never retry.
type UnknownAgentError struct {
	AgentID string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent: %s", e.AgentID)
}

// GenerationServiceError wraps a transient failure of the text-generation
// service. Retrying is a caller decision.
type GenerationServiceError struct {
	Provider string
	Err      error
}

func (e *GenerationServiceError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationServiceError) Unwrap() error { return e.Err }

// ToolResolutionError means the external tool catalog could not be
// materialized. Terminal for the invocation; a batch already past setup
// continues with its remaining agents.
type ToolResolutionError struct {
	Scope string
	Err   error
}

func (e *ToolResolutionError) Error() string {
	return fmt.Sprintf("resolve tools for %s: %v", e.Scope, e.Err)
}

func (e *ToolResolutionError) Unwrap() error { return e.Err }

// ToolExecutionError means a requested external action failed mid-flight.
// Never swallowed: side effects may be partial (e.g. a half-sent email),
// so the operator has to see it.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("execute tool %s: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// MissingCredentialError fails fast before any timer or network call when a
// required API key is not configured.
type MissingCredentialError struct {
	Provider string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s API key is not configured", e.Provider)
}
