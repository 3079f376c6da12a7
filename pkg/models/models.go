// Package models defines the shared domain models for the KrishiMitra
// backend: the canonical pest-analysis result schema, provider/orchestration
// request types, and the records persisted by the store layer.
package models

import "time"

// ── Task & Language ──────────────────────────────────────────

// TaskKind selects which provider chain handles a request.
type TaskKind string

const (
	TaskVision TaskKind = "vision"
	TaskChat   TaskKind = "chat"
)

// ImagePayload is a decoded image attached to a vision request.
type ImagePayload struct {
	Data     []byte
	MIMEType string
}

// AnalysisRequest is the orchestrator's input. One instance is created per
// incoming HTTP request and discarded after the response is sent.
type AnalysisRequest struct {
	Image    *ImagePayload
	Query    string
	Language string
	Task     TaskKind
}

// ── Canonical result schema ──────────────────────────────────

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// PestAnalysis is the canonical structured result every vision provider's
// output (or the mock fallback) is normalized into. All slice fields are
// non-nil after normalization.
type PestAnalysis struct {
	PestName          string   `json:"pestName"`
	Confidence        int      `json:"confidence"`
	Severity          Severity `json:"severity"`
	Description       string   `json:"description"`
	Symptoms          []string `json:"symptoms"`
	Treatment         []string `json:"treatment"`
	Prevention        []string `json:"prevention"`
	OrganicTreatment  []string `json:"organicTreatment"`
	ChemicalTreatment []string `json:"chemicalTreatment"`
	CropsDamaged      []string `json:"cropsDamaged"`
	Seasonality       string   `json:"seasonality"`
}

// Result is what the orchestrator hands back to the HTTP layer. Exactly one
// of Analysis (vision) or Content (chat) is populated. Source names the
// provider that produced the answer, or "mock" when all providers were
// exhausted.
type Result struct {
	Analysis *PestAnalysis
	Content  string
	Raw      string
	Source   string
}

// MockSource is the Result.Source value for mock-generated answers.
const MockSource = "mock"

// ── API payloads ─────────────────────────────────────────────

type AnalyzeImageRequest struct {
	ImageData string `json:"imageData"`
	Language  string `json:"language"`
}

type AnalyzeImageResponse struct {
	Success     bool          `json:"success"`
	Result      *PestAnalysis `json:"result"`
	RawResponse string        `json:"rawResponse,omitempty"`
	Source      string        `json:"source,omitempty"`
}

type ChatRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
	UserID   string `json:"userId,omitempty"`
}

type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Source   string `json:"source,omitempty"`
}

type OTPSendRequest struct {
	Phone string `json:"phone"`
}

type OTPVerifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// ── Stored records ───────────────────────────────────────────

// Crop is a seed-data record describing one cultivable crop.
type Crop struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Season       string `json:"season"`
	SoilType     string `json:"soilType"`
	WaterNeed    string `json:"waterNeed"`
	DurationDays int    `json:"durationDays"`
}

// PestReport is one saved pest-analysis outcome.
type PestReport struct {
	ID         string    `json:"id"`
	PestName   string    `json:"pestName"`
	CropName   string    `json:"cropName,omitempty"`
	Language   string    `json:"language"`
	Confidence int       `json:"confidence"`
	Severity   Severity  `json:"severity"`
	Source     string    `json:"source"`
	ReportedAt time.Time `json:"reportedAt"`
}

// ChatRecord is one saved question/answer pair.
type ChatRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// ActivityEvent records one user action for the activity feed.
type ActivityEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
