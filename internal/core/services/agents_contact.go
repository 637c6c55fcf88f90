package services

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// Contact-module routines: enrichment, SDR sequence, personalized email,
// lead scoring.

func runLeadEnrichment(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "Unknown")
	company := rc.in.Str("company", "Unknown")

	gen, err := rc.generator()
	if err != nil {
		return domain.AgentResult{}, err
	}

	if err := rc.phase("Researching contact information..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Analyzing company data..."); err != nil {
		return domain.AgentResult{}, err
	}

	profile, err := rc.generate(gen, fmt.Sprintf(
		"Provide enriched information about %s who works at %s. Include likely job responsibilities, potential pain points, and business challenges they might face.",
		name, company))
	if err != nil {
		return domain.AgentResult{}, err
	}
	if profile == "" {
		profile = fmt.Sprintf("%s works at %s. They likely focus on business growth and operational efficiency.", name, company)
	}

	rc.done("Generating insights...")

	return domain.StructuredResult(map[string]any{
		"name":            name,
		"company":         company,
		"enrichedProfile": profile,
		"potentialPainPoints": []string{
			"Managing customer relationships at scale",
			"Tracking sales pipeline effectively",
			"Generating accurate forecasts",
		},
		"recommendedApproach": "Focus on how our solution can streamline their sales process and provide better visibility into customer relationships.",
	}), nil
}

func runAISDR(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "a company")

	gen, err := rc.generator()
	if err != nil {
		return domain.AgentResult{}, err
	}

	if err := rc.phase("Researching company context..."); err != nil {
		return domain.AgentResult{}, err
	}
	context, err := rc.generate(gen, fmt.Sprintf(
		"Find potential pain points or selling angles for a B2B cold email outreach targeting %s.", company))
	if err != nil {
		return domain.AgentResult{}, err
	}

	if err := rc.phase("Writing cold email sequence..."); err != nil {
		return domain.AgentResult{}, err
	}

	raw, err := rc.generate(gen, fmt.Sprintf(
		`You are an expert SDR. Using the following context about %s, write a 3-step B2B cold email sequence targeting %s.
Context: %s
Structure:
1. First-touch email (value-driven)
2. Follow-up email (add new angle)
3. Final bump/check-in
Return as JSON: {"first_email": "...", "follow_up": "...", "final_bump": "..."}`,
		company, name, context))
	if err != nil {
		return domain.AgentResult{}, err
	}

	// Non-JSON output is not an error: the raw text becomes the first email.
	var sequence map[string]any
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &sequence); err != nil {
			sequence = map[string]any{"first_email": raw, "follow_up": "", "final_bump": ""}
		}
	}
	if sequence == nil {
		sequence = map[string]any{
			"first_email": fmt.Sprintf(`Subject: Quick idea for %s

Hi %s,

I noticed %s is growing fast, and teams at that stage usually hit a wall keeping track of every conversation. We help sales teams automate follow-ups and surface the deals that need attention.

Worth a 15-minute call this week?

Best regards,
[Your Name]`, company, name, company),
			"follow_up": fmt.Sprintf(`Subject: Re: Quick idea for %s

Hi %s,

Following up on my last note. One angle I didn't mention: our customers typically recover 5+ hours per rep per week by automating routine outreach.

Happy to share how that would look for %s.

Best regards,
[Your Name]`, company, name, company),
			"final_bump": fmt.Sprintf(`Hi %s, just bumping this to the top of your inbox. If now isn't the right time for %s, no problem at all. Should I check back next quarter?`, name, company),
		}
	}

	rc.done("Email sequence ready")

	return domain.StructuredResult(sequence), nil
}

func runPersonalizedEmail(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "there")
	company := rc.in.Str("company", "your company")
	position := rc.in.Str("position", "professional")

	if err := rc.phase("Analyzing contact data..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Researching industry context..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Generating personalized email..."); err != nil {
		return domain.AgentResult{}, err
	}

	subject := fmt.Sprintf("Personalized Solution for %s's Unique Challenges", company)
	body := fmt.Sprintf(`Subject: %s

Dear %s,

As a %s at %s, I understand you're likely facing challenges with scaling your customer relationships while maintaining a personal touch.

Based on our research into %s's recent initiatives, I believe our AI-powered CRM solution could help you:

1. Automate routine follow-ups while keeping them personalized
2. Gain deeper insights into your customer interactions
3. Prioritize leads more effectively with AI scoring

Would you be open to a brief conversation this week to discuss how we've helped similar companies in your industry increase their sales efficiency by 32%%?

Looking forward to your response,

[Your Name]`, subject, name, position, company, company)

	rc.done("Email generated successfully")

	return domain.StructuredResult(map[string]any{
		"subject": subject,
		"body":    body,
		"personalizationPoints": []string{
			"Referenced recipient's position",
			"Mentioned company name",
			"Tailored value proposition to likely industry challenges",
			"Specific metrics from similar customers",
		},
		"recommendedSendTime": "Tuesday or Wednesday morning between 9-11am",
	}), nil
}

func runLeadScoring(rc *runContext) (domain.AgentResult, error) {
	name := rc.in.Str("name", "Unknown")
	company := rc.in.Str("company", "Unknown")
	email := rc.in.Str("email", "")
	position := rc.in.Str("position", "")
	industry := rc.in.Str("industry", "Unknown")

	if err := rc.phase("Analyzing contact profile..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Evaluating engagement metrics..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Checking firmographic data..."); err != nil {
		return domain.AgentResult{}, err
	}
	if err := rc.phase("Calculating lead score..."); err != nil {
		return domain.AgentResult{}, err
	}

	base := 40 + rand.IntN(40)
	score := adjustLeadScore(base, position, industry, email)

	priority := "Low"
	switch {
	case score >= 80:
		priority = "High"
	case score >= 60:
		priority = "Medium"
	}

	firstAction := "Nurture with targeted content"
	nextBest := "Email sequence"
	if score >= 80 {
		firstAction = "Immediate sales outreach"
		nextBest = "Direct call"
	}

	rc.done("Lead scoring complete")

	return domain.StructuredResult(map[string]any{
		"name":      name,
		"company":   company,
		"leadScore": score,
		// Display-only breakdown, independent of the overall score.
		"scoringFactors": map[string]any{
			"demographicScore":   rand.IntN(100),
			"engagementScore":    rand.IntN(100),
			"behavioralScore":    rand.IntN(100),
			"technographicScore": rand.IntN(100),
		},
		"priorityLevel": priority,
		"recommendedActions": []string{
			firstAction,
			"Schedule a discovery call",
			"Send personalized case study",
		},
		"nextBestAction": nextBest,
	}), nil
}

// adjustLeadScore applies the firmographic adjustments to a base score and
// clamps the result to [0,100].
func adjustLeadScore(base int, position, industry, email string) int {
	score := base
	p := strings.ToLower(position)
	if strings.Contains(p, "cto") || strings.Contains(p, "ceo") {
		score += 10
	}
	if industry == "Technology" || industry == "Financial Services" {
		score += 5
	}
	if email == "" {
		score -= 15
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
