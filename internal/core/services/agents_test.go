package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcrm/kernel/internal/core/domain"
	"github.com/smartcrm/kernel/internal/core/ports"
)

func runAgent(t *testing.T, id domain.AgentID, input domain.AgentInput) domain.AgentResult {
	t.Helper()
	d := NewDispatcher(slog.Default())
	RegisterBuiltins(d, 0, nil)
	result, err := d.Dispatch(context.Background(), id, input, domain.NopSink{})
	require.NoError(t, err)
	return result
}

func TestAdjustLeadScore(t *testing.T) {
	tests := []struct {
		name     string
		base     int
		position string
		industry string
		email    string
		want     int
	}{
		{"no adjustments", 50, "Manager", "Retail", "a@b.com", 50},
		{"executive bonus", 50, "CEO", "Retail", "a@b.com", 60},
		{"cto case insensitive", 50, "Deputy cto", "Retail", "a@b.com", 60},
		{"industry bonus technology", 50, "Manager", "Technology", "a@b.com", 55},
		{"industry bonus financial", 50, "Manager", "Financial Services", "a@b.com", 55},
		{"missing email penalty", 50, "Manager", "Retail", "", 35},
		{"capped at 100", 95, "CEO", "Technology", "a@b.com", 100},
		{"floored at 0", 10, "Manager", "Retail", "", 0},
		{"all combined", 79, "CEO", "Technology", "a@b.com", 94},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adjustLeadScore(tt.base, tt.position, tt.industry, tt.email))
		})
	}
}

func TestLeadScoring_ScoreBoundsAndPriority(t *testing.T) {
	// Base is random in [40,80); with executive, industry and email bonuses
	// applied the score lands in [55,95].
	for i := 0; i < 20; i++ {
		result := runAgent(t, domain.AgentLeadScoring, domain.AgentInput{
			"name": "Ada", "company": "Acme", "position": "CEO",
			"industry": "Technology", "email": "ada@acme.com",
		})

		score, ok := result.Fields["leadScore"].(int)
		require.True(t, ok)
		assert.GreaterOrEqual(t, score, 55)
		assert.LessOrEqual(t, score, 95)

		priority := result.Fields["priorityLevel"]
		switch {
		case score >= 80:
			assert.Equal(t, "High", priority)
		case score >= 60:
			assert.Equal(t, "Medium", priority)
		default:
			assert.Equal(t, "Low", priority)
		}
	}
}

func TestLeadScoring_MissingEmailPenalty(t *testing.T) {
	// Without an email the score lands in [25,64]: never High priority.
	for i := 0; i < 20; i++ {
		result := runAgent(t, domain.AgentLeadScoring, domain.AgentInput{"name": "Ada"})
		score := result.Fields["leadScore"].(int)
		assert.GreaterOrEqual(t, score, 25)
		assert.LessOrEqual(t, score, 64)
		assert.NotEqual(t, "High", result.Fields["priorityLevel"])
	}
}

func TestFollowUp_TypeByDaysElapsed(t *testing.T) {
	tests := []struct {
		days        int
		wantType    string
		wantChannel string
	}{
		{3, "gentle", "email"},
		{7, "gentle", "email"},
		{10, "value-add", "email"},
		{11, "value-add", "email + phone"},
		{14, "value-add", "email + phone"},
		{15, "reengagement", "email + phone"},
		{30, "reengagement", "email + phone"},
	}
	for _, tt := range tests {
		result := runAgent(t, domain.AgentFollowUp, domain.AgentInput{"daysElapsed": tt.days})
		assert.Equal(t, tt.wantType, result.Fields["followUpType"], "days=%d", tt.days)
		assert.Equal(t, tt.wantChannel, result.Fields["recommendedChannel"], "days=%d", tt.days)
	}
}

func TestClassifyObjection(t *testing.T) {
	tests := []struct {
		objection string
		want      string
	}{
		{"We don't have time for this", "timing"},
		{"I'm too busy right now", "timing"},
		{"We already use a competitor", "competition"},
		{"Why do we need this?", "need"},
		{"It's too expensive", "price"},
		{"", "price"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyObjection(tt.objection), "objection=%q", tt.objection)
	}
}

func TestObjectionHandler_ResponseMatchesType(t *testing.T) {
	result := runAgent(t, domain.AgentObjectionHandler, domain.AgentInput{
		"name": "Sam", "objection": "We already use another tool",
	})
	assert.Equal(t, "competition", result.Fields["objectionType"])
	response := result.Fields["response"].(string)
	assert.Contains(t, response, "Sam")
	assert.Contains(t, response, "current solution")
}

func TestProposalGenerator_PricingSplit(t *testing.T) {
	result := runAgent(t, domain.AgentProposalGenerator, domain.AgentInput{
		"company": "Acme", "title": "Platform Rollout", "value": 1000.0,
	})

	pricing, ok := result.Fields["pricing"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(200), pricing["implementation"])
	assert.Equal(t, float64(800), pricing["subscription"])
	assert.Equal(t, float64(1000), pricing["total"])
	assert.Equal(t, "Net 30", pricing["paymentTerms"])
	assert.Equal(t, "Platform Rollout - Proposal for Acme", result.Fields["title"])
}

func TestMeetings_DurationByType(t *testing.T) {
	tests := []struct {
		meetingType string
		duration    int
	}{
		{"discovery", 30},
		{"demo", 45},
		{"proposal", 60},
		{"anything-else", 30},
	}
	for _, tt := range tests {
		result := runAgent(t, domain.AgentMeetings, domain.AgentInput{"meetingType": tt.meetingType})
		details := result.Fields["meetingDetails"].(map[string]any)
		assert.Equal(t, tt.duration, details["duration"], "type=%s", tt.meetingType)
		assert.Len(t, details["proposedTimes"], 3)
	}
}

func TestTemplateSelection_UnknownDiscriminatorFallsBack(t *testing.T) {
	// Unknown discriminators must select the default template, never fail.
	sms := runAgent(t, domain.AgentSMSCampaigner, domain.AgentInput{"campaignType": "bogus"})
	assert.Len(t, sms.Fields["smsSequence"], 3)

	wa := runAgent(t, domain.AgentWhatsAppNurturer, domain.AgentInput{"nurturePath": "bogus"})
	assert.Len(t, wa.Fields["whatsappSequence"], 5)

	journeys := runAgent(t, domain.AgentAIJourneys, domain.AgentInput{"journeyType": "bogus"})
	assert.Equal(t, "bogus", journeys.Fields["journeyType"])
	assert.Len(t, journeys.Fields["journey"], 3)

	voice := runAgent(t, domain.AgentVoice, domain.AgentInput{"messageType": "bogus"})
	assert.NotEmpty(t, voice.Fields["messageScript"])
}

func TestAISDR_FallbackSequenceWithoutGenerator(t *testing.T) {
	result := runAgent(t, domain.AgentAISDR, domain.AgentInput{"name": "Ada", "company": "Acme"})
	for _, key := range []string{"first_email", "follow_up", "final_bump"} {
		text, ok := result.Fields[key].(string)
		require.True(t, ok, key)
		assert.NotEmpty(t, text, key)
	}
}

func TestLeadEnrichment_DefaultProfile(t *testing.T) {
	result := runAgent(t, domain.AgentLeadEnrichment, nil)
	assert.Equal(t, "Unknown", result.Fields["name"])
	assert.Contains(t, result.Fields["enrichedProfile"], "Unknown works at Unknown")
	assert.Len(t, result.Fields["potentialPainPoints"], 3)
}

type failingGenerator struct{ err error }

func (g failingGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return "", g.err
}

// generatorSource serves only the text-generation capability.
type generatorSource struct {
	gen ports.TextGenerator
	err error
}

func (s generatorSource) TextGenerator() (ports.TextGenerator, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.gen, nil
}

func (s generatorSource) ToolModel() (ports.ToolCallingModel, error) {
	return nil, errors.New("not configured")
}

func (s generatorSource) Integrations() (ports.IntegrationProvider, error) {
	return nil, errors.New("not configured")
}

func TestLeadEnrichment_GenerationFailurePropagates(t *testing.T) {
	// A failing generation service must surface to the caller, not degrade
	// into the template profile.
	svcErr := &domain.GenerationServiceError{Provider: "OpenAI", Err: errors.New("upstream 500")}
	d := NewDispatcher(slog.Default())
	RegisterBuiltins(d, 0, generatorSource{gen: failingGenerator{err: svcErr}})

	_, err := d.Dispatch(context.Background(), domain.AgentLeadEnrichment,
		domain.AgentInput{"name": "Ada", "company": "Acme"}, domain.NopSink{})

	var generation *domain.GenerationServiceError
	require.ErrorAs(t, err, &generation)
	assert.Equal(t, "OpenAI", generation.Provider)
}

func TestLeadEnrichment_MissingCredentialFailsBeforeFirstStep(t *testing.T) {
	d := NewDispatcher(slog.Default())
	RegisterBuiltins(d, 0, generatorSource{err: &domain.MissingCredentialError{Provider: "OpenAI"}})
	sink := NewProgressLog("run-1", nil)

	_, err := d.Dispatch(context.Background(), domain.AgentLeadEnrichment, nil, sink)

	var missing *domain.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Empty(t, sink.Steps(), "no progress emitted before the credential check")
}

func TestAISDR_MissingCredentialFailsBeforeFirstStep(t *testing.T) {
	d := NewDispatcher(slog.Default())
	RegisterBuiltins(d, 0, generatorSource{err: &domain.MissingCredentialError{Provider: "OpenAI"}})
	sink := NewProgressLog("run-1", nil)

	_, err := d.Dispatch(context.Background(), domain.AgentAISDR, nil, sink)

	var missing *domain.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Empty(t, sink.Steps())
}
