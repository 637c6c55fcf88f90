package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// ClassifyAndRender turns an agent result into a display plan. It is a pure
// function of the result value: the same result always yields the same plan,
// so copy and export reproduce identical text.
//
// Text results are sniffed in order: embedded JSON object, email (subject
// plus salutation and sign-off), markdown (structural line markers), plain
// text. Structured results are sniffed: email sequence, enrichment record,
// proposal, then the generic key-value fallback.
func ClassifyAndRender(result domain.AgentResult) domain.RenderPlan {
	if result.Kind == domain.ResultText {
		return renderText(result.Text)
	}
	return renderFields(result.Fields)
}

func renderText(text string) domain.RenderPlan {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "{") {
		var fields map[string]any
		if err := json.Unmarshal([]byte(trimmed), &fields); err == nil {
			return renderFields(fields)
		}
	}

	if isEmailText(trimmed) {
		return renderEmail(trimmed)
	}

	if looksLikeMarkdown(trimmed) {
		return domain.RenderPlan{Kind: domain.RenderMarkdown, Blocks: parseMarkdown(trimmed)}
	}

	return domain.RenderPlan{
		Kind:   domain.RenderPlainText,
		Blocks: []domain.RenderBlock{{Type: domain.BlockParagraph, Text: trimmed}},
	}
}

// isEmailText matches the subject/salutation/sign-off triple.
func isEmailText(text string) bool {
	if !strings.Contains(text, "Subject:") {
		return false
	}
	salutation := strings.Contains(text, "Hi ") || strings.Contains(text, "Hello ") || strings.Contains(text, "Dear ")
	signoff := strings.Contains(text, "Regards,") || strings.Contains(text, "Best,") || strings.Contains(text, "Thanks,")
	return salutation && signoff
}

func renderEmail(text string) domain.RenderPlan {
	subject := ""
	var body []string
	for _, line := range strings.Split(text, "\n") {
		if subject == "" && strings.HasPrefix(strings.TrimSpace(line), "Subject:") {
			subject = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "Subject:"))
			continue
		}
		body = append(body, line)
	}

	blocks := []domain.RenderBlock{}
	if subject != "" {
		blocks = append(blocks, domain.RenderBlock{Type: domain.BlockSection, Label: "Subject", Text: subject})
	}
	blocks = append(blocks, domain.RenderBlock{
		Type: domain.BlockParagraph,
		Text: strings.TrimSpace(strings.Join(body, "\n")),
	})
	return domain.RenderPlan{Kind: domain.RenderEmail, Blocks: blocks}
}

// looksLikeMarkdown reports whether any line carries a structural marker.
func looksLikeMarkdown(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "#") || strings.HasPrefix(l, "- ") || strings.HasPrefix(l, "* ") || isNumberItem(l) {
			return true
		}
	}
	return false
}

func isNumberItem(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' '
}

// parseMarkdown is a line-oriented structural parse: headings, bullet and
// numbered lists, blank-line separated paragraphs. Inline markup is left
// alone.
func parseMarkdown(text string) []domain.RenderBlock {
	var blocks []domain.RenderBlock
	var paragraph []string
	var bullets []string
	var numbers []string

	flushParagraph := func() {
		if len(paragraph) > 0 {
			blocks = append(blocks, domain.RenderBlock{Type: domain.BlockParagraph, Text: strings.Join(paragraph, "\n")})
			paragraph = nil
		}
	}
	flushLists := func() {
		if len(bullets) > 0 {
			blocks = append(blocks, domain.RenderBlock{Type: domain.BlockBulletList, Items: bullets})
			bullets = nil
		}
		if len(numbers) > 0 {
			blocks = append(blocks, domain.RenderBlock{Type: domain.BlockNumberList, Items: numbers})
			numbers = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			flushParagraph()
			flushLists()
		case strings.HasPrefix(line, "#"):
			flushParagraph()
			flushLists()
			level := 0
			for level < len(line) && line[level] == '#' {
				level++
			}
			heading := strings.TrimSpace(line[level:])
			if level > 6 {
				level = 6
			}
			blocks = append(blocks, domain.RenderBlock{
				Type:  domain.BlockHeading,
				Text:  heading,
				Level: level,
			})
		case strings.HasPrefix(line, "- "):
			flushParagraph()
			bullets = append(bullets, strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "* "):
			flushParagraph()
			bullets = append(bullets, strings.TrimSpace(line[2:]))
		case isNumberItem(line):
			flushParagraph()
			numbers = append(numbers, strings.TrimSpace(line[strings.Index(line, ". ")+2:]))
		default:
			flushLists()
			paragraph = append(paragraph, line)
		}
	}
	flushParagraph()
	flushLists()
	return blocks
}

func renderFields(fields map[string]any) domain.RenderPlan {
	if fields == nil {
		return domain.RenderPlan{Kind: domain.RenderGeneric, Blocks: []domain.RenderBlock{}}
	}

	if hasAnyKey(fields, "first_email", "follow_up", "final_bump") {
		return renderEmailSequence(fields)
	}
	if hasAnyKey(fields, "enrichedProfile", "potentialPainPoints") {
		return renderEnrichment(fields)
	}
	if hasAllKeys(fields, "title", "executiveSummary", "pricing") {
		return renderProposal(fields)
	}
	return renderGeneric(fields)
}

func hasAnyKey(fields map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := fields[k]; ok && asString(v) != "" {
			return true
		}
	}
	return false
}

func hasAllKeys(fields map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			return false
		}
	}
	return true
}

func renderEmailSequence(fields map[string]any) domain.RenderPlan {
	blocks := []domain.RenderBlock{}
	for _, part := range []struct{ key, label string }{
		{"first_email", "First-touch Email"},
		{"follow_up", "Follow-up Email"},
		{"final_bump", "Final Bump"},
	} {
		if text := asString(fields[part.key]); text != "" {
			blocks = append(blocks, domain.RenderBlock{Type: domain.BlockSection, Label: part.label, Text: text})
		}
	}
	return domain.RenderPlan{Kind: domain.RenderEmailSequence, Blocks: blocks}
}

func renderEnrichment(fields map[string]any) domain.RenderPlan {
	blocks := []domain.RenderBlock{}
	if profile := asString(fields["enrichedProfile"]); profile != "" {
		blocks = append(blocks, domain.RenderBlock{Type: domain.BlockSection, Label: "Enriched Profile", Text: profile})
	}
	if points := asStringSlice(fields["potentialPainPoints"]); len(points) > 0 {
		blocks = append(blocks, domain.RenderBlock{Type: domain.BlockBulletList, Label: "Potential Pain Points", Items: points})
	}
	if approach := asString(fields["recommendedApproach"]); approach != "" {
		blocks = append(blocks, domain.RenderBlock{Type: domain.BlockSection, Label: "Recommended Approach", Text: approach})
	}
	return domain.RenderPlan{Kind: domain.RenderEnrichment, Blocks: blocks}
}

func renderProposal(fields map[string]any) domain.RenderPlan {
	blocks := []domain.RenderBlock{
		{Type: domain.BlockHeading, Text: asString(fields["title"]), Level: 1},
		{Type: domain.BlockSection, Label: "Executive Summary", Text: asString(fields["executiveSummary"])},
	}
	if v := asString(fields["understandingOfNeeds"]); v != "" {
		blocks = append(blocks, domain.RenderBlock{Type: domain.BlockSection, Label: "Understanding Of Needs", Text: v})
	}
	if v := asString(fields["proposedSolution"]); v != "" {
		blocks = append(blocks, domain.RenderBlock{Type: domain.BlockSection, Label: "Proposed Solution", Text: v})
	}

	if pricing, ok := fields["pricing"].(map[string]any); ok {
		var rows []domain.TableRow
		for _, key := range sortedKeys(pricing) {
			rows = append(rows, domain.TableRow{Label: humanizeKey(key), Value: formatMoney(pricing[key])})
		}
		blocks = append(blocks, domain.RenderBlock{Type: domain.BlockTable, Label: "Pricing", Rows: rows})
	}

	if steps := asStringSlice(fields["nextSteps"]); len(steps) > 0 {
		blocks = append(blocks, domain.RenderBlock{Type: domain.BlockNumberList, Label: "Next Steps", Items: steps})
	}
	return domain.RenderPlan{Kind: domain.RenderProposal, Blocks: blocks}
}

// renderGeneric walks keys in sorted order: scalars become key/value rows,
// string slices become labeled lists, anything nested is pretty-printed.
func renderGeneric(fields map[string]any) domain.RenderPlan {
	blocks := []domain.RenderBlock{}
	for _, key := range sortedKeys(fields) {
		label := humanizeKey(key)
		switch v := fields[key].(type) {
		case string, bool, int, int64, float64, json.Number:
			blocks = append(blocks, domain.RenderBlock{Type: domain.BlockKeyValue, Label: label, Text: formatScalar(v)})
		case []string:
			blocks = append(blocks, domain.RenderBlock{Type: domain.BlockBulletList, Label: label, Items: v})
		case []any:
			if items, ok := scalarItems(v); ok {
				blocks = append(blocks, domain.RenderBlock{Type: domain.BlockBulletList, Label: label, Items: items})
			} else {
				blocks = append(blocks, domain.RenderBlock{Type: domain.BlockJSON, Label: label, Text: prettyJSON(v)})
			}
		default:
			blocks = append(blocks, domain.RenderBlock{Type: domain.BlockJSON, Label: label, Text: prettyJSON(v)})
		}
	}
	return domain.RenderPlan{Kind: domain.RenderGeneric, Blocks: blocks}
}

func scalarItems(v []any) ([]string, bool) {
	items := make([]string, 0, len(v))
	for _, e := range v {
		switch e.(type) {
		case string, bool, int, int64, float64, json.Number:
			items = append(items, formatScalar(e))
		default:
			return nil, false
		}
	}
	return items, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// humanizeKey turns camelCase or snake_case identifiers into title-cased
// labels: "paymentTerms" -> "Payment Terms".
func humanizeKey(key string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prevLower = false
		case unicode.IsUpper(r) && prevLower:
			b.WriteRune(' ')
			b.WriteRune(r)
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatMoney renders numeric pricing entries as dollar amounts with
// thousands separators; non-numeric entries (payment terms) pass through.
func formatMoney(v any) string {
	var f float64
	switch t := v.(type) {
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case float64:
		f = t
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return t.String()
		}
		f = n
	default:
		return formatScalar(v)
	}
	return formatCurrency(f)
}

// formatCurrency renders whole numbers without decimals; fractional values
// keep two.
func formatCurrency(f float64) string {
	neg := f < 0
	if neg {
		f = -f
	}
	whole := int64(math.Floor(f))
	frac := f - float64(whole)

	digits := strconv.FormatInt(whole, 10)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	out := "$" + strings.Join(parts, ",")
	if frac > 1e-9 {
		out += strconv.FormatFloat(frac, 'f', 2, 64)[1:]
	}
	if neg {
		out = "-" + out
	}
	return out
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		items, ok := scalarItems(t)
		if !ok {
			return nil
		}
		return items
	default:
		return nil
	}
}

func prettyJSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
