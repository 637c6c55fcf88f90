package domain

// RenderKind classifies an agent result for display and export.
type RenderKind string

const (
	RenderPlainText     RenderKind = "plain_text"
	RenderEmail         RenderKind = "email"
	RenderMarkdown      RenderKind = "markdown"
	RenderEmailSequence RenderKind = "email_sequence"
	RenderEnrichment    RenderKind = "enrichment"
	RenderProposal      RenderKind = "proposal"
	RenderGeneric       RenderKind = "generic"
)

// BlockType identifies one renderable unit inside a plan.
type BlockType string

const (
	BlockHeading     BlockType = "heading"
	BlockParagraph   BlockType = "paragraph"
	BlockBulletList  BlockType = "bullet_list"
	BlockNumberList  BlockType = "number_list"
	BlockSection     BlockType = "section"   // labeled text section
	BlockKeyValue    BlockType = "key_value" // humanized key + scalar
	BlockTable       BlockType = "table"     // label/value rows (pricing)
	BlockJSON        BlockType = "json"      // pretty-printed nested object
)

// TableRow is one label/value pair in a table block.
type TableRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// RenderBlock is one display unit. Which fields are meaningful depends on
// Type: Level for headings, Items for lists, Rows for tables, Text for the
// rest. Label carries the section/key heading.
type RenderBlock struct {
	Type  BlockType  `json:"type"`
	Label string     `json:"label,omitempty"`
	Text  string     `json:"text,omitempty"`
	Items []string   `json:"items,omitempty"`
	Rows  []TableRow `json:"rows,omitempty"`
	Level int        `json:"level,omitempty"`
}

// RenderPlan is the classifier's output: a kind tag plus the ordered blocks
// a presentation layer turns into interface elements. Classification is a
// pure function of the result value, so copy/export reproduce identical
// text.
type RenderPlan struct {
	Kind   RenderKind    `json:"kind"`
	Blocks []RenderBlock `json:"blocks"`
}
