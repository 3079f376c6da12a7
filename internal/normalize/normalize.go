// Package normalize turns heterogeneous AI-provider output into the
// canonical result schema. Providers are prompted to emit JSON but do not
// reliably comply, so parsing is two-tier: JSON extraction first, keyword
// and knowledge-base fallback second. Vision normalization never fails and
// always returns a fully populated structure.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/krishimitra/krishimitra/internal/pestdata"
	"github.com/krishimitra/krishimitra/pkg/models"
)

// Confidence bounds applied to live-provider results. Machine confidence
// outside this band is not presented to end users as-is.
const (
	ConfidenceMin = 60
	ConfidenceMax = 95

	confidenceDefault = 75
	confidenceKeyword = 85
	confidenceUnknown = 70
	unknownPestName   = "Unknown Pest"
)

// Chat normalization is a passthrough: chat answers have no structured
// schema to enforce.
func Chat(raw string) string { return raw }

// Vision parses provider text into a PestAnalysis. JSON extraction is tried
// first; on failure the lowercased text is scanned for known pest keywords
// and descriptive fields are filled from the knowledge base.
func Vision(raw, lang string) models.PestAnalysis {
	if a, ok := fromJSON(raw); ok {
		return a
	}
	return fromKeywords(raw, lang)
}

// parsedAnalysis mirrors the canonical schema with a pointer confidence so
// an absent field can be told apart from zero.
type parsedAnalysis struct {
	PestName          string   `json:"pestName"`
	Confidence        *float64 `json:"confidence"`
	Severity          string   `json:"severity"`
	Description       string   `json:"description"`
	Symptoms          []string `json:"symptoms"`
	Treatment         []string `json:"treatment"`
	Prevention        []string `json:"prevention"`
	OrganicTreatment  []string `json:"organicTreatment"`
	ChemicalTreatment []string `json:"chemicalTreatment"`
	CropsDamaged      []string `json:"cropsDamaged"`
	Seasonality       string   `json:"seasonality"`
}

func fromJSON(raw string) (models.PestAnalysis, bool) {
	obj, ok := ExtractJSON(raw)
	if !ok {
		return models.PestAnalysis{}, false
	}
	var p parsedAnalysis
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return models.PestAnalysis{}, false
	}
	if strings.TrimSpace(p.PestName) == "" {
		// Valid JSON but not the canonical schema.
		return models.PestAnalysis{}, false
	}

	conf := confidenceDefault
	if p.Confidence != nil {
		conf = int(*p.Confidence)
	}
	return models.PestAnalysis{
		PestName:          strings.TrimSpace(p.PestName),
		Confidence:        ClampConfidence(conf),
		Severity:          normalizeSeverity(p.Severity),
		Description:       p.Description,
		Symptoms:          orEmpty(p.Symptoms),
		Treatment:         orEmpty(p.Treatment),
		Prevention:        orEmpty(p.Prevention),
		OrganicTreatment:  orEmpty(p.OrganicTreatment),
		ChemicalTreatment: orEmpty(p.ChemicalTreatment),
		CropsDamaged:      orEmpty(p.CropsDamaged),
		Seasonality:       p.Seasonality,
	}, true
}

func fromKeywords(raw, lang string) models.PestAnalysis {
	name := unknownPestName
	conf := confidenceUnknown
	if matched, ok := pestdata.Match(raw); ok {
		name = matched
		conf = confidenceKeyword
	}

	rec := pestdata.Lookup(lang, name)
	return models.PestAnalysis{
		PestName:          name,
		Confidence:        conf,
		Severity:          normalizeSeverity(rec.Severity),
		Description:       rec.Description,
		Symptoms:          orEmpty(rec.Symptoms),
		Treatment:         orEmpty(rec.Treatment),
		Prevention:        orEmpty(rec.Prevention),
		OrganicTreatment:  orEmpty(rec.OrganicTreatment),
		ChemicalTreatment: orEmpty(rec.ChemicalTreatment),
		CropsDamaged:      orEmpty(rec.CropsDamaged),
		Seasonality:       rec.Seasonality,
	}
}

// ClampConfidence bounds a live-provider confidence into [60,95]. Mock-path
// confidence is curated and never passes through here.
func ClampConfidence(c int) int {
	if c < ConfidenceMin {
		return ConfidenceMin
	}
	if c > ConfidenceMax {
		return ConfidenceMax
	}
	return c
}

func normalizeSeverity(s string) models.Severity {
	switch models.Severity(strings.ToLower(strings.TrimSpace(s))) {
	case models.SeverityLow:
		return models.SeverityLow
	case models.SeverityHigh:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// ExtractJSON returns the first balanced {...} substring of s. Brace
// balancing ignores braces inside JSON string literals.
func ExtractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// LooksTruncated reports whether provider text appears cut off before
// completion: a trailing ellipsis, or a JSON-looking response with
// unbalanced braces.
func LooksTruncated(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	if strings.HasSuffix(trimmed, "...") || strings.HasSuffix(trimmed, "…") {
		return true
	}
	opens := strings.Count(trimmed, "{")
	closes := strings.Count(trimmed, "}")
	return opens > 0 && opens != closes
}
