package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// Deal-module routines: proposal, demo script, objection handling, closing
// sequence, demo video.

func runProposalGenerator(rc *runContext) (domain.AgentResult, error) {
	company := rc.in.Str("company", "Unknown")
	title := rc.in.Str("title", "Unknown")
	value := rc.in.Float("value", 0)

	if err := rc.phase("Analyzing deal information..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Researching industry solutions..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Creating proposal structure..."); err != nil {
		return domain.AgentResult{}, err
	}

	rc.done("Finalizing proposal...")

	return domain.StructuredResult(map[string]any{
		"title":                fmt.Sprintf("%s - Proposal for %s", title, company),
		"executiveSummary":     fmt.Sprintf("This proposal presents a tailored solution for %s's needs, addressing key challenges while providing exceptional value.", company),
		"understandingOfNeeds": "Based on our discussions, we understand your organization is seeking to streamline operations, improve customer engagement, and drive growth through digital transformation.",
		"proposedSolution":     "Our comprehensive platform offers seamless integration with your existing systems, AI-powered analytics, and customizable workflows that adapt to your unique processes.",
		"pricing": map[string]any{
			"implementation": math.Round(value * 0.2),
			"subscription":   math.Round(value * 0.8),
			"total":          value,
			"paymentTerms":   "Net 30",
		},
		"nextSteps": []string{
			"Review proposal details",
			"Schedule technical deep dive",
			"Finalize implementation timeline",
			"Sign agreement",
		},
	}), nil
}

func runAIAE(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "your company")
	dealTitle := rc.in.Str("title", "our solution")
	industry := rc.in.Str("industry", "their industry")

	if err := rc.phase("Preparing demo script..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Analyzing prospect needs..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Generating personalized demo flow..."); err != nil {
		return domain.AgentResult{}, err
	}

	demoScript := fmt.Sprintf(`# Demo Script for %s: %s

## Introduction (2 minutes)
- Thank %s for their time
- Confirm the agenda and their specific interests
- Brief overview of what we'll cover today

## Company Overview (3 minutes)
- Quick introduction to our company and mission
- Highlight relevant customer success stories in %s
- Mention our unique approach to solving their challenges

## Product Demo (15 minutes)
1. Start with the dashboard overview
   - Show how it provides immediate value and insights
   - Highlight the AI-powered features

2. Demonstrate the contact management system
   - Show how it automatically enriches lead data
   - Demonstrate the AI lead scoring functionality

3. Present the deal pipeline
   - Show how it provides visibility and forecasting
   - Highlight the AI deal insights feature

4. Showcase the AI assistant capabilities
   - Demonstrate how it can generate emails, call scripts, etc.
   - Show how it integrates with their workflow

## Value Proposition (5 minutes)
- Summarize key benefits specific to %s's needs
- Present ROI metrics and expected outcomes
- Address anticipated objections

## Next Steps (5 minutes)
- Discuss implementation timeline
- Review pricing options
- Agree on follow-up actions

## Q&A
- Be prepared for questions about:
  - Security and compliance
  - Integration with existing tools
  - Customization options
  - Support and training`, company, dealTitle, name, industry, company)

	rc.done("Demo script generated")

	return domain.StructuredResult(map[string]any{
		"demoScript": demoScript,
		"keyTalkingPoints": []string{
			"AI-powered lead enrichment and scoring",
			"Automated follow-up sequences",
			"Real-time deal insights and recommendations",
			"Time savings of 5+ hours per week",
		},
		"anticipatedQuestions": []string{
			"How does your pricing compare to competitors?",
			"What kind of onboarding support do you provide?",
			"How long does implementation typically take?",
			"Can we integrate with our existing tools?",
		},
		"objectionHandling": map[string]any{
			"Too expensive":         "Focus on ROI and time savings",
			"We already have a CRM": "Highlight AI capabilities that their current solution lacks",
			"Not the right time":    "Discuss implementation timeline flexibility",
		},
	}), nil
}

func runObjectionHandler(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "the prospect")
	company := rc.in.Str("company", "the company")
	objection := rc.in.Str("objection", "It's too expensive")

	if err := rc.phase("Analyzing objection..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Researching best responses..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Crafting personalized response..."); err != nil {
		return domain.AgentResult{}, err
	}

	objectionType := classifyObjection(objection)

	var response string
	switch objectionType {
	case "timing":
		response = fmt.Sprintf(`I completely understand that timing is crucial, %s. Many of our customers at %s's stage were concerned about implementation timing.

What we've found is that delaying implementation often costs more in missed opportunities than the time investment itself. Our onboarding team can have you up and running in just 2 weeks with minimal time commitment from your team.

Would it make sense to discuss a phased implementation approach that works with your current priorities?`, name, company)
	case "competition":
		response = fmt.Sprintf(`I appreciate your loyalty to your current solution, %s. It's always good to work with tools you're comfortable with.

What we've found when working with companies like %s who switched from similar solutions is that our AI-powered features provided capabilities they didn't even know they were missing. Specifically, our customers report:

1. 42%% more accurate sales forecasting
2. 3x faster lead qualification
3. 28%% higher close rates

Would it be valuable to see a side-by-side comparison of how we differ from your current solution?`, name, company)
	case "need":
		response = fmt.Sprintf(`That's a fair question, %s. Understanding the specific value for %s is crucial.

Based on what you've shared about your current processes, I believe you could benefit most from:

1. Automated lead enrichment, saving your team hours of manual research
2. AI-powered deal insights that identify risks before deals stall
3. Integrated communication tools that keep everything in one place

Would it be helpful if I showed you specifically how these features address the challenges you mentioned around [specific challenge]?`, name, company)
	default:
		response = fmt.Sprintf(`I understand that budget is an important consideration, %s. Many of our current customers at companies similar to %s initially had the same concern.

Rather than focusing solely on the price, let's look at the ROI. Our customers typically see a 3.5x return within the first year through:

1. 32%% increase in sales productivity
2. 28%% higher lead conversion rates
3. 5+ hours saved per rep per week

Would it be helpful if I shared a specific case study from your industry showing the exact ROI breakdown?`, name, company)
	}

	rc.done("Response generated")

	return domain.StructuredResult(map[string]any{
		"objection":     objection,
		"objectionType": objectionType,
		"response":      response,
		"followUpQuestions": []string{
			"What specific aspect of this concern is most important to you?",
			"How have you addressed this challenge in the past?",
			"What would need to be true for this to no longer be a concern?",
		},
		"additionalResources": []string{
			"ROI Calculator",
			"Customer Case Study",
			"Implementation Timeline",
			"Feature Comparison Sheet",
		},
	}), nil
}

// classifyObjection buckets an objection by keyword. Price is the default
// bucket.
func classifyObjection(objection string) string {
	o := strings.ToLower(objection)
	switch {
	case strings.Contains(o, "time") || strings.Contains(o, "busy"):
		return "timing"
	case strings.Contains(o, "competitor") || strings.Contains(o, "already use"):
		return "competition"
	case strings.Contains(o, "need") || strings.Contains(o, "why"):
		return "need"
	default:
		return "price"
	}
}

func runColdOutreachCloser(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "your company")
	dealValue := rc.in.Str("value", "$10,000")

	if err := rc.phase("Analyzing deal status..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Crafting closing sequence..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Generating urgency triggers..."); err != nil {
		return domain.AgentResult{}, err
	}

	closingSequence := map[string]any{
		"email1": map[string]any{
			"subject": fmt.Sprintf("Next steps for %s (time-sensitive)", company),
			"body": fmt.Sprintf(`Hi %s,

I wanted to follow up on our previous conversations about implementing our solution at %s.

Based on our discussions, I've put together a proposal that addresses your key requirements:

1. Streamlined customer data management
2. AI-powered sales insights
3. Automated follow-up sequences

To ensure you can take advantage of our Q2 pricing, we'd need to finalize the agreement by the end of this month. This would also allow us to get you onboarded before the busy season.

Would you have 15 minutes this week to discuss the final details?

Best regards,
[Your Name]`, name, company),
		},
		"email2": map[string]any{
			"subject": fmt.Sprintf("Re: Next steps for %s (time-sensitive)", company),
			"body": fmt.Sprintf(`Hi %s,

I'm following up on my previous email about finalizing your %s account.

Just a reminder that our Q2 pricing offer expires this Friday. After that, the investment would increase by approximately 15%%.

I've also attached a case study from [Similar Company] that achieved a 32%% increase in sales efficiency within the first 3 months of implementation.

Would tomorrow at 2pm work for a quick call to answer any remaining questions?

Best regards,
[Your Name]`, name, company),
		},
		"finalCall": map[string]any{
			"subject": fmt.Sprintf("Final opportunity: %s + [Our Company]", company),
			"body": fmt.Sprintf(`Hi %s,

This is my final follow-up regarding our solution for %s.

I understand you're busy, so I've prepared everything needed to move forward:

1. Implementation plan (attached)
2. Pricing breakdown showing %s annual value
3. ROI calculator showing expected 3.5x return

If I don't hear back, I'll assume the timing isn't right and close this opportunity in our system.

Would you prefer to:
A) Schedule a quick call to finalize
B) Receive the agreement via email
C) Revisit this in the future

Just reply with A, B, or C and I'll take care of the rest.

Best regards,
[Your Name]`, name, company, dealValue),
		},
	}

	rc.done("Closing sequence generated")

	return domain.StructuredResult(map[string]any{
		"closingSequence": closingSequence,
		"timingRecommendations": map[string]any{
			"email1":    "Send immediately",
			"email2":    "Send 3 days after Email 1 if no response",
			"finalCall": "Send 4 days after Email 2 if no response",
		},
		"urgencyTriggers": []string{
			"Limited-time pricing",
			"End of quarter deadline",
			"Implementation timeline before busy season",
		},
		"closingTips": []string{
			"Personalize each message with specific details from previous conversations",
			"Include social proof relevant to their industry",
			"Make the final step as easy as possible with clear options",
		},
	}), nil
}

func runSmartDemoBot(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "your company")

	if err := rc.phase("Creating demo script..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Generating voice narration..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Assembling video walkthrough..."); err != nil {
		return domain.AgentResult{}, err
	}

	demoScript := fmt.Sprintf(`# Personalized Demo for %s

## Introduction (0:00-0:30)
"Hello %s, and welcome to this personalized demo of our Smart CRM platform, specifically tailored for %s. Today, I'll walk you through how our solution can address your specific needs in [industry] and help you achieve [specific goal]."

## Dashboard Overview (0:30-1:30)
"Let's start with the dashboard. As you can see, it provides a comprehensive overview of your sales pipeline, customer interactions, and key metrics at a glance. For a company like %s, this means you'll always have real-time visibility into your sales performance."

## AI Features Showcase (1:30-3:00)
"Now, let's look at the AI capabilities that make our platform unique. Our AI assistant can help with everything from drafting personalized emails to analyzing customer sentiment. This is particularly valuable for your team at %s as it can save each sales rep approximately 5 hours per week."

## Contact Management (3:00-4:00)
"Here's our contact management system. Notice how it automatically enriches contact data and provides AI-powered lead scoring. This would help your team prioritize the most promising leads and ensure no opportunity falls through the cracks."

## Deal Pipeline (4:00-5:00)
"The deal pipeline gives you complete visibility into your sales process. With AI-powered deal insights, you can identify risks before deals stall and get recommendations on how to move deals forward."

## Conclusion (5:00-5:30)
"To summarize, our Smart CRM platform offers %s a comprehensive solution that combines powerful CRM capabilities with cutting-edge AI to help you close more deals with less effort. The next step would be to discuss implementation details and pricing options."`,
		company, name, company, company, company, company)

	rc.done("Demo video created")

	return domain.StructuredResult(map[string]any{
		"demoScript": demoScript,
		"videoUrl":   "https://example.com/demo-videos/custom-demo-123456.mp4",
		"demoLength": "5:30",
		"keyHighlights": []string{
			"AI-powered lead enrichment and scoring",
			"Automated follow-up sequences",
			"Real-time deal insights",
			"Customizable dashboard",
		},
		"callToAction": map[string]any{
			"type": "Schedule Implementation Call",
			"url":  "https://calendly.com/your-company/implementation",
		},
		"trackingId": "demo-" + domain.NewRecordID(),
	}), nil
}
