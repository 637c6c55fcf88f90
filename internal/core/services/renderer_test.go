package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcrm/kernel/internal/core/domain"
)

func TestClassifyAndRender_PlainText(t *testing.T) {
	plan := ClassifyAndRender(domain.TextResult("just a sentence"))

	assert.Equal(t, domain.RenderPlainText, plan.Kind)
	require.Len(t, plan.Blocks, 1)
	assert.Equal(t, domain.BlockParagraph, plan.Blocks[0].Type)
	assert.Equal(t, "just a sentence", plan.Blocks[0].Text)
}

func TestClassifyAndRender_EmailText(t *testing.T) {
	email := `Subject: Quick follow-up

Hi Ada,

Checking in on our last conversation.

Regards,
Sam`
	plan := ClassifyAndRender(domain.TextResult(email))

	assert.Equal(t, domain.RenderEmail, plan.Kind)
	require.Len(t, plan.Blocks, 2)
	assert.Equal(t, domain.BlockSection, plan.Blocks[0].Type)
	assert.Equal(t, "Subject", plan.Blocks[0].Label)
	assert.Equal(t, "Quick follow-up", plan.Blocks[0].Text)
	assert.Contains(t, plan.Blocks[1].Text, "Hi Ada,")
	assert.NotContains(t, plan.Blocks[1].Text, "Subject:")
}

func TestClassifyAndRender_Markdown(t *testing.T) {
	plan := ClassifyAndRender(domain.TextResult("# Title\n- a\n- b\n\ntext"))

	assert.Equal(t, domain.RenderMarkdown, plan.Kind)
	require.Len(t, plan.Blocks, 3)

	assert.Equal(t, domain.BlockHeading, plan.Blocks[0].Type)
	assert.Equal(t, "Title", plan.Blocks[0].Text)
	assert.Equal(t, 1, plan.Blocks[0].Level)

	assert.Equal(t, domain.BlockBulletList, plan.Blocks[1].Type)
	assert.Equal(t, []string{"a", "b"}, plan.Blocks[1].Items)

	assert.Equal(t, domain.BlockParagraph, plan.Blocks[2].Type)
	assert.Equal(t, "text", plan.Blocks[2].Text)
}

func TestClassifyAndRender_MarkdownNumberedList(t *testing.T) {
	plan := ClassifyAndRender(domain.TextResult("## Steps\n1. first\n2. second"))

	require.Len(t, plan.Blocks, 2)
	assert.Equal(t, 2, plan.Blocks[0].Level)
	assert.Equal(t, domain.BlockNumberList, plan.Blocks[1].Type)
	assert.Equal(t, []string{"first", "second"}, plan.Blocks[1].Items)
}

func TestClassifyAndRender_MarkdownHeadingLevelCapped(t *testing.T) {
	plan := ClassifyAndRender(domain.TextResult("######## Deep\n\ntext"))

	require.NotEmpty(t, plan.Blocks)
	assert.Equal(t, domain.BlockHeading, plan.Blocks[0].Type)
	assert.Equal(t, "Deep", plan.Blocks[0].Text)
	assert.Equal(t, 6, plan.Blocks[0].Level)
}

func TestClassifyAndRender_TextWithEmbeddedJSON(t *testing.T) {
	plan := ClassifyAndRender(domain.TextResult(`{"first_email": "hello", "follow_up": "again", "final_bump": "bye"}`))

	assert.Equal(t, domain.RenderEmailSequence, plan.Kind)
	require.Len(t, plan.Blocks, 3)
	assert.Equal(t, "First-touch Email", plan.Blocks[0].Label)
	assert.Equal(t, "hello", plan.Blocks[0].Text)
	assert.Equal(t, "Follow-up Email", plan.Blocks[1].Label)
	assert.Equal(t, "Final Bump", plan.Blocks[2].Label)
}

func TestClassifyAndRender_EmailSequenceSkipsEmptyParts(t *testing.T) {
	plan := ClassifyAndRender(domain.StructuredResult(map[string]any{
		"first_email": "only one", "follow_up": "", "final_bump": "",
	}))

	assert.Equal(t, domain.RenderEmailSequence, plan.Kind)
	require.Len(t, plan.Blocks, 1)
	assert.Equal(t, "First-touch Email", plan.Blocks[0].Label)
}

func TestClassifyAndRender_Enrichment(t *testing.T) {
	plan := ClassifyAndRender(domain.StructuredResult(map[string]any{
		"enrichedProfile":     "Ada works at Acme.",
		"potentialPainPoints": []string{"scale", "forecasting"},
		"recommendedApproach": "lead with ROI",
	}))

	assert.Equal(t, domain.RenderEnrichment, plan.Kind)
	require.Len(t, plan.Blocks, 3)
	assert.Equal(t, "Enriched Profile", plan.Blocks[0].Label)
	assert.Equal(t, []string{"scale", "forecasting"}, plan.Blocks[1].Items)
	assert.Equal(t, "Recommended Approach", plan.Blocks[2].Label)
}

func TestClassifyAndRender_ProposalWithCurrency(t *testing.T) {
	plan := ClassifyAndRender(domain.StructuredResult(map[string]any{
		"title":            "Rollout - Proposal for Acme",
		"executiveSummary": "A tailored solution.",
		"pricing": map[string]any{
			"implementation": float64(2400),
			"subscription":   float64(9600),
			"total":          float64(12000),
			"paymentTerms":   "Net 30",
		},
		"nextSteps": []string{"Review", "Sign"},
	}))

	assert.Equal(t, domain.RenderProposal, plan.Kind)
	require.NotEmpty(t, plan.Blocks)
	assert.Equal(t, domain.BlockHeading, plan.Blocks[0].Type)

	var table *domain.RenderBlock
	for i := range plan.Blocks {
		if plan.Blocks[i].Type == domain.BlockTable {
			table = &plan.Blocks[i]
		}
	}
	require.NotNil(t, table)
	require.Len(t, table.Rows, 4)

	values := map[string]string{}
	for _, row := range table.Rows {
		values[row.Label] = row.Value
	}
	assert.Equal(t, "$2,400", values["Implementation"])
	assert.Equal(t, "$9,600", values["Subscription"])
	assert.Equal(t, "$12,000", values["Total"])
	assert.Equal(t, "Net 30", values["Payment Terms"])

	last := plan.Blocks[len(plan.Blocks)-1]
	assert.Equal(t, domain.BlockNumberList, last.Type)
	assert.Equal(t, []string{"Review", "Sign"}, last.Items)
}

func TestClassifyAndRender_GenericHumanizesKeys(t *testing.T) {
	plan := ClassifyAndRender(domain.StructuredResult(map[string]any{
		"callScript":     "say hello",
		"bestTimeToCall": "morning",
		"postCallActions": []string{
			"update notes",
		},
	}))

	assert.Equal(t, domain.RenderGeneric, plan.Kind)
	require.Len(t, plan.Blocks, 3)
	// Sorted key order: bestTimeToCall, callScript, postCallActions
	assert.Equal(t, "Best Time To Call", plan.Blocks[0].Label)
	assert.Equal(t, "Call Script", plan.Blocks[1].Label)
	assert.Equal(t, domain.BlockBulletList, plan.Blocks[2].Type)
	assert.Equal(t, "Post Call Actions", plan.Blocks[2].Label)
}

func TestClassifyAndRender_GenericNestedObject(t *testing.T) {
	plan := ClassifyAndRender(domain.StructuredResult(map[string]any{
		"zoomDetails": map[string]any{"link": "https://zoom.us/j/1", "password": "123456"},
	}))

	require.Len(t, plan.Blocks, 1)
	assert.Equal(t, domain.BlockJSON, plan.Blocks[0].Type)
	assert.Contains(t, plan.Blocks[0].Text, "zoom.us")
}

func TestClassifyAndRender_Idempotent(t *testing.T) {
	result := domain.StructuredResult(map[string]any{
		"leadScore":     72,
		"priorityLevel": "Medium",
		"recommendedActions": []string{
			"Nurture with targeted content",
		},
	})
	assert.Equal(t, ClassifyAndRender(result), ClassifyAndRender(result))
}

func TestHumanizeKey(t *testing.T) {
	tests := map[string]string{
		"paymentTerms":     "Payment Terms",
		"first_email":      "First Email",
		"leadScore":        "Lead Score",
		"title":            "Title",
		"nextBestAction":   "Next Best Action",
		"expectedOpenRate": "Expected Open Rate",
	}
	for in, want := range tests {
		assert.Equal(t, want, humanizeKey(in), "key=%q", in)
	}
}
