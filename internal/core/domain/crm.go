package domain

import (
	"time"

	"github.com/google/uuid"
)

// The CRM record kinds the surrounding application persists. The agent core
// reads/writes none of these directly; the HTTP layer wires routine inputs
// and outputs to them.

type BusinessAnalysis struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	BusinessName string         `json:"businessName"`
	Industry     string         `json:"industry"`
	AnalysisData map[string]any `json:"analysisData"`
	Status       string         `json:"status"` // pending | complete | failed
	CreatedAt    time.Time      `json:"createdAt"`
}

type ContentItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Status    string    `json:"status"` // draft | published
	CreatedAt time.Time `json:"createdAt"`
}

type VoiceProfile struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	Name          string         `json:"name"`
	VoiceSettings map[string]any `json:"voiceSettings"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type ImageAsset struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// DealStage values follow the pipeline order used by the UI.
const (
	StageLead        = "lead"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed_won"
	StageClosedLost  = "closed_lost"
)

type Deal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Contact   string    `json:"contact"`
	Value     float64   `json:"value"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewRecordID mints a record identifier.
func NewRecordID() string { return uuid.NewString() }
