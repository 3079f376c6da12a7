package pestdata

import "strings"

// Providers are prompted to answer as JSON (vision) or plain text (chat) in
// the farmer's language. The normalizer copes when they don't comply, so
// these templates are guidance, not a contract.

const visionPromptEN = `You are an agricultural expert helping Indian farmers. Analyze this crop image for pests or diseases.
Respond ONLY with a JSON object in this exact shape:
{"pestName": string, "confidence": number (0-100), "severity": "low"|"medium"|"high", "description": string, "symptoms": [string], "treatment": [string], "prevention": [string], "organicTreatment": [string], "chemicalTreatment": [string], "cropsDamaged": [string], "seasonality": string}
Write all text values in %s. Do not add any text outside the JSON object.`

const chatPromptEN = `You are KrishiMitra, a friendly agricultural assistant for Indian farmers. Answer the farmer's question with practical, locally relevant advice in %s. Keep the answer under 200 words and use simple language.

Question: %s`

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ta": "Tamil",
	"te": "Telugu",
}

// LanguageName returns the human-readable name used inside prompts.
func LanguageName(lang string) string {
	if name, ok := languageNames[NormalizeLanguage(lang)]; ok {
		return name
	}
	return "English"
}

// VisionPrompt builds the pest-analysis prompt for a language.
func VisionPrompt(lang string) string {
	return strings.Replace(visionPromptEN, "%s", LanguageName(lang), 1)
}

// ChatPrompt builds the chat prompt for a language and question.
func ChatPrompt(lang, query string) string {
	p := strings.Replace(chatPromptEN, "%s", LanguageName(lang), 1)
	return strings.Replace(p, "%s", query, 1)
}
