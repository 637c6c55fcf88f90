package services

import (
	"fmt"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// Campaign-module routines: WhatsApp nurture sequence, reengagement
// campaign.

func runWhatsAppNurturer(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "your company")
	nurturePath := rc.in.Str("nurturePath", "educational")

	if err := rc.phase("Creating WhatsApp nurture sequence..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Generating message content..."); err != nil {
		return domain.AgentResult{}, err
	}

	var sequence []map[string]any
	switch nurturePath {
	case "educational":
		sequence = []map[string]any{
			{"day": 1, "message": fmt.Sprintf(`Hi %s, thanks for your interest in learning more about how we help companies like %s. Over the next few weeks, I'll share some insights that might be valuable for you. Feel free to ask questions anytime!`, name, company)},
			{"day": 3, "message": fmt.Sprintf(`%s, did you know that companies in your industry typically face these 3 challenges?

1. [Challenge 1]
2. [Challenge 2]
3. [Challenge 3]

Which of these resonates most with %s?`, name, company)},
			{"day": 7, "message": fmt.Sprintf(`Here's a quick 2-minute video explaining how our solution addresses [Challenge]: [Video Link]

Would this approach work for %s?`, company)},
			{"day": 10, "message": fmt.Sprintf(`%s, I thought you might find this case study interesting. It shows how [Similar Company] achieved [Specific Result] in just [Timeframe]: [Link]

What do you think?`, name)},
			{"day": 14, "message": fmt.Sprintf(`Quick question, %s - what's the biggest obstacle preventing %s from improving [Relevant Metric] right now?`, name, company)},
		}
	case "promotional":
		sequence = []map[string]any{
			{"day": 1, "message": fmt.Sprintf(`Hi %s, thanks for your interest in [Your Company]. I wanted to let you know about our special offer for new customers: [Special Offer]. This could be particularly valuable for %s.`, name, company)},
			{"day": 3, "message": fmt.Sprintf(`%s, here's a quick overview of what makes our solution unique:

- [Unique Feature 1]
- [Unique Feature 2]
- [Unique Feature 3]

Which of these would be most valuable for %s?`, name, company)},
			{"day": 5, "message": fmt.Sprintf(`Just a reminder that our special offer ends on [Date]. Would you like to schedule a quick call to discuss how it could benefit %s?`, company)},
			{"day": 7, "message": fmt.Sprintf(`%s, I wanted to share this testimonial from one of our customers:

"[Testimonial Quote]" - [Customer Name], [Customer Position]

They faced similar challenges to %s before working with us.`, name, company)},
			{"day": 9, "message": fmt.Sprintf(`Last chance, %s! Our special offer ends tomorrow. Would you like to take advantage of it for %s?`, name, company)},
		}
	case "relationship":
		sequence = []map[string]any{
			{"day": 1, "message": fmt.Sprintf(`Hi %s, it was great connecting with you about %s's needs. I'm here as a resource whenever you have questions about [Your Industry].`, name, company)},
			{"day": 7, "message": fmt.Sprintf(`%s, I came across this article that discusses trends in [Your Industry] and thought of you: [Article Link]

I found the section on [Specific Topic] particularly relevant to what we discussed about %s.`, name, company)},
			{"day": 14, "message": fmt.Sprintf(`How are things going at %s, %s? Any progress with the [Specific Challenge] we discussed?`, company, name)},
			{"day": 21, "message": fmt.Sprintf(`%s, we're hosting a small roundtable discussion with leaders from companies like %s next month. The topic is [Relevant Topic]. Would you be interested in joining?`, name, company)},
			{"day": 28, "message": fmt.Sprintf(`I was thinking about our conversation regarding %s's [Specific Need], and I wanted to share how one of our customers approached a similar situation: [Brief Story]

Would an approach like this work for you?`, company)},
		}
	default:
		sequence = []map[string]any{
			{"day": 1, "message": fmt.Sprintf(`Hi %s, thanks for connecting! I'm looking forward to learning more about %s and how we might be able to help.`, name, company)},
			{"day": 3, "message": fmt.Sprintf(`%s, I wanted to check in and see if you had any questions about our solution and how it might fit with %s's needs?`, name, company)},
			{"day": 7, "message": fmt.Sprintf(`I thought you might find this resource helpful: [Link]

It addresses some of the challenges we discussed regarding %s.`, company)},
			{"day": 10, "message": fmt.Sprintf(`%s, would you be interested in a quick demo to see how our solution could work specifically for %s?`, name, company)},
			{"day": 14, "message": fmt.Sprintf(`Just checking in, %s. Is there any specific information about our solution that would be helpful for you and the team at %s?`, name, company)},
		}
	}

	rc.done("WhatsApp nurture sequence created")

	return domain.StructuredResult(map[string]any{
		"nurturePath":      nurturePath,
		"whatsappSequence": sequence,
		"bestPractices": []string{
			"Keep messages concise and conversational",
			"Include clear questions to encourage responses",
			"Use emojis sparingly to add personality",
			"Respect business hours in recipient's timezone",
			"Pause sequence if recipient responds",
		},
		"responseTemplates": map[string]any{
			"askingForMoreInfo": "I'd be happy to provide more information about [Topic]. Specifically, what aspects are you most interested in?",
			"requestingCall":    "I'd be glad to discuss this in more detail. Would you prefer a call or would continuing our chat here work better for you?",
			"objectionHandling": "I understand your concern about [Objection]. Many of our customers initially felt the same way. Here's how we addressed it: [Response]",
		},
		"mediaRecommendations": []string{
			"Include 1-2 images or short videos in the sequence",
			"Keep videos under 60 seconds",
			"Ensure all media is mobile-friendly",
		},
	}), nil
}

func runReengagement(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "your company")
	lastInteractionDate := rc.in.Str("lastInteractionDate", "3 months ago")

	if err := rc.phase("Analyzing contact history..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Researching industry updates..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Creating reengagement campaign..."); err != nil {
		return domain.AgentResult{}, err
	}

	sequence := []map[string]any{
		{
			"channel": "email",
			"subject": fmt.Sprintf("Reconnecting with %s", company),
			"content": fmt.Sprintf(`Hi %s,

It's been a while since we last connected (%s), and I wanted to reach out to see how things are going at %s.

Since we last spoke, we've introduced several new features that I think would be particularly valuable for you:

1. [New Feature 1]: This addresses [specific pain point]
2. [New Feature 2]: This helps with [specific benefit]
3. [New Feature 3]: This provides [specific value]

I'd love to reconnect and share how these updates might benefit %s. Would you be open to a quick 15-minute catch-up call next week?

Best regards,
[Your Name]`, name, lastInteractionDate, company, company),
		},
		{
			"channel": "email",
			"subject": fmt.Sprintf("New insights for %s", company),
			"content": fmt.Sprintf(`Hi %s,

I hope you're doing well. I recently came across some interesting data about [relevant industry trend] that I thought might be valuable for %s.

[Brief insight about the trend and its implications]

This reminded me of our previous conversations about [specific topic], and I wondered if this is still a priority for your team?

I'd be happy to share more insights and discuss how our latest solutions might help. Would you have time for a quick call next week?

Best regards,
[Your Name]`, name, company),
		},
		{
			"channel": "linkedin",
			"subject": "LinkedIn Connection Message",
			"content": fmt.Sprintf(`Hi %s, I noticed some exciting developments at %s recently. I'd love to reconnect and learn more about your current priorities and how we might be able to support your goals. Would you be open to a quick conversation?`, name, company),
		},
		{
			"channel": "email",
			"subject": fmt.Sprintf("Special offer for %s", company),
			"content": fmt.Sprintf(`Hi %s,

I wanted to reach out with a special offer exclusively for previous contacts like yourself.

For a limited time, we're offering [special incentive] for companies that re-engage with us. This could be particularly valuable for %s given your interest in [specific area].

This offer expires on [date], so I'd love to connect soon to discuss how we can help you achieve [specific goal].

Best regards,
[Your Name]`, name, company),
		},
		{
			"channel": "phone",
			"subject": "Final Outreach Call",
			"content": fmt.Sprintf(`# Reengagement Call Script

## Introduction
"Hi %s, this is [Your Name] from [Your Company]. We haven't spoken in a while, and I wanted to reconnect. Do you have a few minutes to chat?"

## Reason for Call
"The reason I'm calling is that we've introduced several new features and offerings that I think could be valuable for %s based on our previous conversations."

## Value Proposition
"Specifically, our new [feature/solution] has been helping companies like yours to [specific benefit]. For example, [similar company] was able to [specific result]."

## Gauging Interest
"Is this something that would still be relevant for %s?"

## Special Offer
"We're currently offering [special incentive] for previous contacts who re-engage with us. This is available until [date]."

## Next Steps
"Would it make sense to schedule a more detailed conversation to explore how these new offerings might benefit %s?"

## Closing
"Thank you for your time today, %s. I'll [follow-up action] by [specific date]."`, name, company, company, company, name),
		},
	}

	rc.done("Reengagement campaign created")

	return domain.StructuredResult(map[string]any{
		"reengagementSequence": sequence,
		"timingRecommendations": []string{
			"Send first email immediately",
			"Wait 5-7 days before second email",
			"Send LinkedIn message 3 days after second email",
			"Send special offer email 5 days after LinkedIn message",
			"Make phone call 3-4 days after special offer email",
		},
		"personalizationTips": []string{
			"Reference specific previous interactions or interests",
			"Mention recent company news or achievements",
			"Tailor value proposition to their specific industry challenges",
			"Use mutual connections where possible",
		},
		"successMetrics": map[string]any{
			"expectedResponseRate": "15-20%",
			"conversionGoal":       "Schedule discovery call",
			"followUpStrategy":     "If no response after complete sequence, move to quarterly check-in schedule",
		},
	}), nil
}
