package normalize_test

import (
	"strings"
	"testing"

	"github.com/krishimitra/krishimitra/internal/normalize"
	"github.com/krishimitra/krishimitra/pkg/models"
)

// ─── Vision: JSON path ───────────────────────────────────────

func TestVision_ValidJSON(t *testing.T) {
	raw := `Here is the analysis you asked for:
{"pestName": "Aphids", "confidence": 82, "severity": "medium",
 "description": "Sap-sucking insects.",
 "symptoms": ["curled leaves"], "treatment": ["soap spray"]}`

	got := normalize.Vision(raw, "en")

	if got.PestName != "Aphids" {
		t.Errorf("PestName = %q, want %q", got.PestName, "Aphids")
	}
	if got.Confidence != 82 {
		t.Errorf("Confidence = %d, want 82", got.Confidence)
	}
	if got.Severity != models.SeverityMedium {
		t.Errorf("Severity = %q, want %q", got.Severity, models.SeverityMedium)
	}
	if len(got.Symptoms) != 1 || got.Symptoms[0] != "curled leaves" {
		t.Errorf("Symptoms = %v, want [curled leaves]", got.Symptoms)
	}
}

func TestVision_ConfidenceClampedLow(t *testing.T) {
	raw := `{"pestName": "Whitefly", "confidence": 40, "severity": "low"}`

	got := normalize.Vision(raw, "en")

	if got.Confidence != normalize.ConfidenceMin {
		t.Errorf("Confidence = %d, want clamped to %d", got.Confidence, normalize.ConfidenceMin)
	}
}

func TestVision_ConfidenceClampedHigh(t *testing.T) {
	raw := `{"pestName": "Whitefly", "confidence": 99}`

	got := normalize.Vision(raw, "en")

	if got.Confidence != normalize.ConfidenceMax {
		t.Errorf("Confidence = %d, want clamped to %d", got.Confidence, normalize.ConfidenceMax)
	}
}

func TestVision_ConfidenceAbsentUsesDefault(t *testing.T) {
	raw := `{"pestName": "Stem Borer", "severity": "high"}`

	got := normalize.Vision(raw, "en")

	if got.Confidence != 75 {
		t.Errorf("Confidence = %d, want 75 when field is absent", got.Confidence)
	}
}

func TestVision_ConfidenceZeroIsClampedNotDefaulted(t *testing.T) {
	// An explicit 0 is a present value and must be clamped to the floor,
	// not replaced by the default.
	raw := `{"pestName": "Stem Borer", "confidence": 0}`

	got := normalize.Vision(raw, "en")

	if got.Confidence != normalize.ConfidenceMin {
		t.Errorf("Confidence = %d, want %d", got.Confidence, normalize.ConfidenceMin)
	}
}

func TestVision_UnknownSeverityDefaultsMedium(t *testing.T) {
	raw := `{"pestName": "Aphids", "confidence": 80, "severity": "catastrophic"}`

	got := normalize.Vision(raw, "en")

	if got.Severity != models.SeverityMedium {
		t.Errorf("Severity = %q, want %q", got.Severity, models.SeverityMedium)
	}
}

func TestVision_SliceFieldsNeverNil(t *testing.T) {
	raw := `{"pestName": "Aphids", "confidence": 80}`

	got := normalize.Vision(raw, "en")

	for name, s := range map[string][]string{
		"Symptoms":          got.Symptoms,
		"Treatment":         got.Treatment,
		"Prevention":        got.Prevention,
		"OrganicTreatment":  got.OrganicTreatment,
		"ChemicalTreatment": got.ChemicalTreatment,
		"CropsDamaged":      got.CropsDamaged,
	} {
		if s == nil {
			t.Errorf("%s is nil, want empty slice", name)
		}
	}
}

// ─── Vision: keyword fallback ────────────────────────────────

func TestVision_KeywordFallback(t *testing.T) {
	raw := "The image appears to show bollworm damage on the cotton bolls, with visible bore holes."

	got := normalize.Vision(raw, "en")

	if got.PestName != "Bollworm" {
		t.Errorf("PestName = %q, want %q", got.PestName, "Bollworm")
	}
	if got.Confidence != 85 {
		t.Errorf("Confidence = %d, want 85 for keyword match", got.Confidence)
	}
	if got.Description == "" {
		t.Error("Description is empty, want knowledge-base text")
	}
	if len(got.Treatment) == 0 {
		t.Error("Treatment is empty, want knowledge-base entries")
	}
}

func TestVision_NoMatchReturnsUnknown(t *testing.T) {
	raw := "I cannot determine anything specific from this image."

	got := normalize.Vision(raw, "en")

	if got.PestName != "Unknown Pest" {
		t.Errorf("PestName = %q, want %q", got.PestName, "Unknown Pest")
	}
	if got.Confidence != 70 {
		t.Errorf("Confidence = %d, want 70", got.Confidence)
	}
	if got.Description == "" {
		t.Error("Description is empty, want generic guidance")
	}
}

func TestVision_JSONWithoutPestNameFallsToKeywords(t *testing.T) {
	// Valid JSON that is not the expected schema should not short-circuit
	// the keyword scan.
	raw := `{"answer": "this looks like whitefly infestation"}`

	got := normalize.Vision(raw, "en")

	if got.PestName != "Whitefly" {
		t.Errorf("PestName = %q, want %q", got.PestName, "Whitefly")
	}
	if got.Confidence != 85 {
		t.Errorf("Confidence = %d, want 85", got.Confidence)
	}
}

func TestVision_HindiKeywordAndRecord(t *testing.T) {
	raw := "फसल पर सुंडी का प्रकोप दिख रहा है"

	got := normalize.Vision(raw, "hi")

	if got.PestName != "Bollworm" {
		t.Errorf("PestName = %q, want %q", got.PestName, "Bollworm")
	}
	if !strings.Contains(got.Description, "सुंडी") {
		t.Errorf("Description = %q, want Hindi knowledge-base text", got.Description)
	}
}

// ─── Chat ────────────────────────────────────────────────────

func TestChat_Passthrough(t *testing.T) {
	raw := "Water your rice field every 3 days during tillering."
	if got := normalize.Chat(raw); got != raw {
		t.Errorf("Chat() = %q, want unchanged input", got)
	}
}

// ─── ExtractJSON ─────────────────────────────────────────────

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose around", `sure! {"a":1} hope that helps`, `{"a":1}`, true},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}{"}`, `{"a":"}{"}`, true},
		{"escaped quote", `{"a":"he said \"hi\""}`, `{"a":"he said \"hi\""}`, true},
		{"no object", "plain text", "", false},
		{"unbalanced", `{"a":1`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalize.ExtractJSON(tt.in)
			if ok != tt.ok {
				t.Fatalf("ExtractJSON(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// ─── LooksTruncated ──────────────────────────────────────────

func TestLooksTruncated(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"complete prose", "Use neem oil spray.", false},
		{"trailing ellipsis", "Apply the following steps...", true},
		{"unicode ellipsis", "Apply the following steps…", true},
		{"balanced json", `{"pestName":"Aphids"}`, false},
		{"unbalanced json", `{"pestName":"Aphi`, true},
		{"empty", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize.LooksTruncated(tt.in); got != tt.want {
				t.Errorf("LooksTruncated(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{40, 60}, {60, 60}, {75, 75}, {95, 95}, {99, 95}, {-5, 60},
	}
	for _, tt := range tests {
		if got := normalize.ClampConfidence(tt.in); got != tt.want {
			t.Errorf("ClampConfidence(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
