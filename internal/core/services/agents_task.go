package services

import (
	"fmt"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// Task-module routines: follow-up message, voice message, SMS campaign.

func runFollowUp(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "your company")
	lastInteraction := rc.in.Str("lastInteraction", "our previous conversation")
	daysElapsed := rc.in.Int("daysElapsed", 7)

	if err := rc.phase("Analyzing previous interactions..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Determining optimal follow-up approach..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Generating follow-up message..."); err != nil {
		return domain.AgentResult{}, err
	}

	followUpType := "gentle"
	switch {
	case daysElapsed > 14:
		followUpType = "reengagement"
	case daysElapsed > 7:
		followUpType = "value-add"
	}

	var message string
	switch followUpType {
	case "value-add":
		message = fmt.Sprintf(`Subject: Thought you might find this useful, %s

Hi %s,

I was thinking about our discussion regarding %s and came across this resource that I thought might be valuable for %s:

[Link to relevant industry report/case study/article]

This addresses some of the challenges we discussed, particularly around [specific challenge].

I'm happy to discuss how these insights might apply to your specific situation at %s. Would you have 15 minutes this week for a quick call?

Best regards,
[Your Name]`, name, name, lastInteraction, company, company)
	case "reengagement":
		message = fmt.Sprintf(`Subject: Reconnecting with %s

Hi %s,

It's been a while since we discussed %s, and I wanted to check in to see how things have progressed at %s.

Have you made any decisions regarding the challenges we discussed? I'd be happy to share some updated information on how we've helped similar companies in your industry achieve [specific result].

Would it make sense to reconnect briefly this week?

Best regards,
[Your Name]`, company, name, lastInteraction, company)
	default:
		message = fmt.Sprintf(`Subject: Quick follow-up regarding %s

Hi %s,

I hope you've been having a productive week. I wanted to follow up on %s and see if you had any questions or if there's anything I can help clarify.

I'm available for a quick call this week if that would be helpful.

Best regards,
[Your Name]`, lastInteraction, name, lastInteraction)
	}

	channel := "email"
	if daysElapsed > 10 {
		channel = "email + phone"
	}
	nextStep := "Wait 3-5 days before next follow-up"
	if daysElapsed > 14 {
		nextStep = "Schedule a call if no response"
	}

	rc.done("Follow-up message generated")

	return domain.StructuredResult(map[string]any{
		"followUpType":           followUpType,
		"followUpMessage":        message,
		"recommendedChannel":     channel,
		"bestTimeToSend":         "Tuesday or Wednesday morning between 9-11am",
		"nextStepRecommendation": nextStep,
		"alternateApproaches": []string{
			"Connect on LinkedIn with a personalized message",
			"Share a relevant case study",
			"Introduce a mutual connection if available",
		},
	}), nil
}

func runVoiceMessage(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "your company")
	messageType := rc.in.Str("messageType", "follow-up")

	if err := rc.phase("Creating voice message script..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Generating voice audio..."); err != nil {
		return domain.AgentResult{}, err
	}

	var script string
	switch messageType {
	case "follow-up":
		script = fmt.Sprintf(`Hey %s, this is [Your Name] from [Your Company]. I wanted to follow up on our conversation about how we might be able to help %s with your CRM needs. I'd love to answer any questions you might have. Feel free to call me back at [Your Phone] or reply to my email. Looking forward to speaking with you soon!`, name, company)
	case "thank-you":
		script = fmt.Sprintf(`Hey %s, this is [Your Name] from [Your Company]. I just wanted to say thank you for taking the time to meet with me today. I really enjoyed learning more about %s and your specific needs. I'll be sending over the information we discussed, but wanted to personally thank you for your time. If you need anything at all, don't hesitate to reach out.`, name, company)
	case "meeting-reminder":
		script = fmt.Sprintf(`Hey %s, this is [Your Name] from [Your Company]. Just a quick reminder about our meeting tomorrow at [Time]. I'm looking forward to discussing how we can help %s with [Specific Need]. If you need to reschedule, just let me know. Otherwise, I'll see you tomorrow!`, name, company)
	default:
		script = fmt.Sprintf(`Hey %s, this is [Your Name] from [Your Company]. I'm reaching out regarding %s and wanted to connect with you. Please give me a call back at [Your Phone] when you get a chance. Looking forward to speaking with you!`, name, company)
	}

	rc.done("Voice message created")

	return domain.StructuredResult(map[string]any{
		"messageScript": script,
		"audioUrl":      "https://example.com/voice-messages/message-123456.mp3",
		"duration":      "0:32",
		"voiceType":     "professional-male",
		"deliveryRecommendations": map[string]any{
			"bestTimeToSend": "Between 9am-11am or 2pm-4pm local time",
			"followUpAction": "Send email if no response within 24 hours",
		},
		"transcription": script,
	}), nil
}

func runSMSCampaigner(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "your company")
	campaignType := rc.in.Str("campaignType", "follow-up")

	if err := rc.phase("Creating SMS campaign..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Generating message sequence..."); err != nil {
		return domain.AgentResult{}, err
	}

	var sequence []string
	switch campaignType {
	case "follow-up":
		sequence = []string{
			fmt.Sprintf(`Hi %s, just following up on our conversation about helping %s improve sales efficiency. Would you have 15 mins this week for a quick call? [Your Name]`, name, company),
			fmt.Sprintf(`Hi %s, I wanted to check if you received my previous message about our solution for %s. I'm available to answer any questions you might have. [Your Name]`, name, company),
			fmt.Sprintf(`%s, this is my final follow-up. If you're interested in learning how we've helped companies like %s increase sales by 30%%, just reply "interested". Otherwise, I won't bother you again. [Your Name]`, name, company),
		}
	case "event-reminder":
		sequence = []string{
			fmt.Sprintf(`Hi %s, just a reminder that our webinar on "AI for Sales Teams" is tomorrow at 2pm ET. We'll be covering strategies that could benefit %s. [Your Name]`, name, company),
			fmt.Sprintf(`%s, our "AI for Sales Teams" webinar starts in 2 hours. Join us to learn strategies that have helped companies like %s increase efficiency by 35%%. Here's the link: [LINK] [Your Name]`, name, company),
			fmt.Sprintf(`Hi %s, sorry you missed our webinar! I've attached a recording that highlights key points relevant to %s: [LINK]. Let me know if you'd like to discuss further. [Your Name]`, name, company),
		}
	case "nurture":
		sequence = []string{
			fmt.Sprintf(`Hi %s, thought you might find this article on industry trends relevant to %s's challenges: [LINK]. Hope it's helpful! [Your Name]`, name, company),
			fmt.Sprintf(`%s, based on your interest in [Topic], I wanted to share this case study about how a company similar to %s achieved [Result]: [LINK]. [Your Name]`, name, company),
			fmt.Sprintf(`Hi %s, we're hosting an exclusive roundtable for leaders in your industry next month. Would you be interested in joining? It could be valuable for %s's growth strategy. [Your Name]`, name, company),
		}
	default:
		sequence = []string{
			fmt.Sprintf(`Hi %s, this is [Your Name] from [Your Company]. I'd love to discuss how we can help %s improve sales performance. Are you available for a quick call this week?`, name, company),
			fmt.Sprintf(`Hi %s, just checking in. I'd still love to connect about how we can help %s. Let me know what works for you.`, name, company),
			fmt.Sprintf(`%s, I wanted to reach out one last time. If you're interested in learning more about our solution for %s, just reply "yes" and I'll send over some information.`, name, company),
		}
	}

	rc.done("SMS campaign created")

	return domain.StructuredResult(map[string]any{
		"smsSequence": sequence,
		"timingRecommendations": []string{
			"Send first message on Tuesday or Wednesday",
			"Wait 3 days before sending follow-up",
			"Send final message 4-5 days after second message",
		},
		"bestPractices": []string{
			"Keep messages under 160 characters when possible",
			"Include clear call-to-action",
			"Personalize with recipient's name and company",
			"Send during business hours (9am-5pm local time)",
		},
		"complianceNotes": []string{
			"Ensure opt-out option is available",
			"Honor do-not-contact requests immediately",
			"Maintain records of consent",
		},
	}), nil
}
