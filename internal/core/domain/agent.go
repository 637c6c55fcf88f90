package domain

import (
	"context"
	"strconv"
)

// AgentID identifies one generation routine. The set is closed: every ID is
// registered at startup and dispatch fails on anything else.
type AgentID string

const (
	// Contact module
	AgentLeadEnrichment    AgentID = "lead-enrichment"
	AgentAISDR             AgentID = "ai-sdr"
	AgentPersonalizedEmail AgentID = "personalized-email"
	AgentLeadScoring       AgentID = "lead-scoring"

	// Deal module
	AgentProposalGenerator  AgentID = "proposal-generator"
	AgentAIAE               AgentID = "ai-ae"
	AgentObjectionHandler   AgentID = "objection-handler"
	AgentColdOutreachCloser AgentID = "cold-outreach-closer"
	AgentSmartDemoBot       AgentID = "smart-demo-bot"

	// Task module
	AgentFollowUp      AgentID = "follow-up"
	AgentVoice         AgentID = "voice-agent"
	AgentSMSCampaigner AgentID = "sms-campaigner"

	// Calendar module
	AgentMeetings   AgentID = "meetings-agent"
	AgentAIDialer   AgentID = "ai-dialer"
	AgentAIJourneys AgentID = "ai-journeys"

	// Campaign module
	AgentWhatsAppNurturer AgentID = "whatsapp-nurturer"
	AgentReengagement     AgentID = "reengagement-agent"
)

// AllAgentIDs returns the closed identifier set in a stable order.
func AllAgentIDs() []AgentID {
	return []AgentID{
		AgentLeadEnrichment, AgentAISDR, AgentPersonalizedEmail, AgentLeadScoring,
		AgentProposalGenerator, AgentAIAE, AgentObjectionHandler, AgentColdOutreachCloser, AgentSmartDemoBot,
		AgentFollowUp, AgentVoice, AgentSMSCampaigner,
		AgentMeetings, AgentAIDialer, AgentAIJourneys,
		AgentWhatsAppNurturer, AgentReengagement,
	}
}

// AgentInput is the loosely-typed request payload. Every accessor substitutes
// a default when the field is absent or has the wrong type, so routines never
// fail on an empty input.
type AgentInput map[string]any

// Str returns the named field as a string, or def when missing/mistyped.
func (in AgentInput) Str(key, def string) string {
	if in == nil {
		return def
	}
	if v, ok := in[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Int returns the named field as an int, tolerating JSON float64 decoding
// and numeric strings.
func (in AgentInput) Int(key string, def int) int {
	if in == nil {
		return def
	}
	switch v := in[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Float returns the named field as a float64.
func (in AgentInput) Float(key string, def float64) float64 {
	if in == nil {
		return def
	}
	switch v := in[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// ResultKind tags the two AgentResult variants.
type ResultKind string

const (
	ResultText       ResultKind = "text"
	ResultStructured ResultKind = "structured"
)

// AgentResult is the value a generation routine returns: either plain text
// or a structured record. Exactly one of Text/Fields is meaningful,
// selected by Kind.
type AgentResult struct {
	Kind   ResultKind     `json:"kind"`
	Text   string         `json:"text,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// TextResult wraps plain text in an AgentResult.
func TextResult(s string) AgentResult {
	return AgentResult{Kind: ResultText, Text: s}
}

// StructuredResult wraps a record in an AgentResult.
func StructuredResult(fields map[string]any) AgentResult {
	return AgentResult{Kind: ResultStructured, Fields: fields}
}

// GenerationRoutine is the capability interface every agent implements.
// Run must tolerate a nil/empty input (defaults apply), report phases via
// the sink, and finish the log with a "Complete" step.
type GenerationRoutine interface {
	ID() AgentID
	Run(ctx context.Context, input AgentInput, sink ProgressSink) (AgentResult, error)
}
