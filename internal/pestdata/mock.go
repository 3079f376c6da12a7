package pestdata

import (
	"math/rand"
	"strings"

	"github.com/krishimitra/krishimitra/pkg/models"
)

// The mock generator is the availability floor: when every live provider is
// exhausted it still produces a fully populated, language-appropriate
// answer. Confidence values here are curated and intentionally NOT clamped
// the way live-provider results are.

// mockScenario pins a curated pest and confidence for one canned analysis.
type mockScenario struct {
	pest       string
	confidence int
	severity   models.Severity
}

var mockScenarios = []mockScenario{
	{pest: "Aphids", confidence: 88, severity: models.SeverityMedium},
	{pest: "Bollworm", confidence: 92, severity: models.SeverityHigh},
	{pest: "Leaf Blight", confidence: 96, severity: models.SeverityHigh},
}

// MockAnalysis returns a curated pest analysis for the language. When hint
// text names a known pest from one of the curated scenarios, that scenario
// is chosen; otherwise selection is uniform random.
func MockAnalysis(lang, hint string) models.PestAnalysis {
	sc := mockScenarios[rand.Intn(len(mockScenarios))]
	if hint != "" {
		if name, ok := Match(hint); ok {
			for _, cand := range mockScenarios {
				if cand.pest == name {
					sc = cand
					break
				}
			}
		}
	}
	rec := Lookup(lang, sc.pest)
	return models.PestAnalysis{
		PestName:          sc.pest,
		Confidence:        sc.confidence,
		Severity:          sc.severity,
		Description:       rec.Description,
		Symptoms:          copied(rec.Symptoms),
		Treatment:         copied(rec.Treatment),
		Prevention:        copied(rec.Prevention),
		OrganicTreatment:  copied(rec.OrganicTreatment),
		ChemicalTreatment: copied(rec.ChemicalTreatment),
		CropsDamaged:      copied(rec.CropsDamaged),
		Seasonality:       rec.Seasonality,
	}
}

func copied(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// ── Canned chat answers ──────────────────────────────────────

type chatTopic struct {
	terms []string
	key   string
}

var chatTopics = []chatTopic{
	{key: "water", terms: []string{"water", "irrigat", "सिंचाई", "पानी", "நீர்", "నీరు"}},
	{key: "fertilizer", terms: []string{"fertilizer", "fertiliser", "urea", "खाद", "उर्वरक", "உரம்", "ఎరువు"}},
	{key: "pest", terms: []string{"pest", "insect", "disease", "कीट", "रोग", "பூச்சி", "తెగులు"}},
}

var chatAnswers = map[string]map[string]string{
	"en": {
		"water":      "Irrigate early in the morning or late in the evening to reduce evaporation losses. Most field crops need watering when the top 5 cm of soil feels dry; drip irrigation can cut water use by up to 40%.",
		"fertilizer": "Get your soil tested before applying fertilizer. As a general rule, split nitrogen into two or three doses, apply phosphorus at sowing, and add well-decomposed farmyard manure every season to maintain soil health.",
		"pest":       "Inspect your crop twice a week, especially leaf undersides. Start with neem oil (5 ml per litre) and sticky traps; use chemical pesticides only when pest numbers cross the economic threshold, and always follow label doses.",
		"general":    "I could not reach the advisory service right now, but here is general guidance: follow recommended sowing windows for your region, test your soil every two years, and contact your local Krishi Vigyan Kendra for crop-specific advice.",
	},
	"hi": {
		"water":      "सिंचाई सुबह जल्दी या शाम को करें ताकि वाष्पीकरण से पानी की हानि कम हो। अधिकांश फसलों को तब पानी चाहिए जब ऊपरी 5 सेमी मिट्टी सूखी लगे; ड्रिप सिंचाई से 40% तक पानी बचाया जा सकता है।",
		"fertilizer": "खाद डालने से पहले मिट्टी की जांच कराएं। नाइट्रोजन को दो-तीन बार में बांटकर दें, फास्फोरस बुवाई के समय दें, और हर मौसम में सड़ी गोबर की खाद मिलाएं।",
		"pest":       "सप्ताह में दो बार फसल की जांच करें, खासकर पत्तियों की निचली सतह। पहले नीम तेल (5 मिली प्रति लीटर) और चिपचिपे ट्रैप आजमाएं; रासायनिक दवा तभी डालें जब कीट आर्थिक सीमा पार करें।",
		"general":    "अभी सलाह सेवा से संपर्क नहीं हो पाया, लेकिन सामान्य सुझाव: अपने क्षेत्र की अनुशंसित बुवाई अवधि का पालन करें, हर दो साल में मिट्टी की जांच कराएं, और फसल-विशेष सलाह के लिए नजदीकी कृषि विज्ञान केंद्र से संपर्क करें।",
	},
	"ta": {
		"water":      "ஆவியாதல் இழப்பை குறைக்க அதிகாலை அல்லது மாலை நேரத்தில் நீர் பாய்ச்சவும். மேல் 5 செ.மீ. மண் காய்ந்திருந்தால் பாசனம் தேவை; சொட்டு நீர் பாசனம் 40% வரை நீரை சேமிக்கும்.",
		"fertilizer": "உரம் இடும் முன் மண் பரிசோதனை செய்யவும். தழைச்சத்தை இரண்டு மூன்று தவணைகளாக பிரித்து இடவும், மணிச்சத்தை விதைப்பின் போது இடவும், ஒவ்வொரு பருவமும் நன்கு மக்கிய தொழு உரம் சேர்க்கவும்.",
		"pest":       "வாரம் இருமுறை பயிரை பரிசோதிக்கவும், குறிப்பாக இலைகளின் அடிப்பகுதியை. முதலில் வேப்ப எண்ணெய் (லிட்டருக்கு 5 மி.லி.) மற்றும் ஒட்டும் பொறிகளை பயன்படுத்தவும்; பூச்சி எண்ணிக்கை பொருளாதார அளவை தாண்டினால் மட்டுமே மருந்து தெளிக்கவும்.",
		"general":    "தற்போது ஆலோசனை சேவையை அணுக முடியவில்லை. பொதுவான வழிகாட்டுதல்: உங்கள் பகுதிக்கான பரிந்துரைக்கப்பட்ட விதைப்பு காலத்தை பின்பற்றவும், இரண்டு ஆண்டுக்கு ஒருமுறை மண் பரிசோதனை செய்யவும், பயிர் சார்ந்த ஆலோசனைக்கு அருகிலுள்ள வேளாண் அறிவியல் மையத்தை தொடர்பு கொள்ளவும்.",
	},
	"te": {
		"water":      "ఆవిరి నష్టాన్ని తగ్గించడానికి ఉదయం లేదా సాయంత్రం నీరు పెట్టండి. పై 5 సెం.మీ. నేల పొడిగా ఉంటే నీరు అవసరం; డ్రిప్ పద్ధతితో 40% వరకు నీరు ఆదా అవుతుంది.",
		"fertilizer": "ఎరువులు వేసే ముందు భూసార పరీక్ష చేయించండి. నత్రజనిని రెండు మూడు దఫాలుగా వేయండి, భాస్వరం విత్తే సమయంలో వేయండి, ప్రతి సీజన్‌లో బాగా మాగిన పశువుల ఎరువు కలపండి.",
		"pest":       "వారానికి రెండుసార్లు పంటను పరిశీలించండి, ముఖ్యంగా ఆకుల అడుగు భాగాన్ని. ముందుగా వేప నూనె (లీటరుకు 5 మి.లీ.), జిగురు అట్టలు వాడండి; పురుగుల సంఖ్య ఆర్థిక స్థాయి దాటితేనే రసాయన మందులు వాడండి.",
		"general":    "ప్రస్తుతం సలహా సేవ అందుబాటులో లేదు. సాధారణ సూచనలు: మీ ప్రాంతానికి సిఫార్సు చేసిన విత్తన కాలాన్ని పాటించండి, రెండేళ్లకోసారి భూసార పరీక్ష చేయించండి, పంట ప్రత్యేక సలహా కోసం సమీప కృషి విజ్ఞాన కేంద్రాన్ని సంప్రదించండి.",
	},
}

// MockChat returns a canned chat answer for the language, picking a topical
// answer when the query mentions a recognized topic.
func MockChat(lang, query string) string {
	answers, ok := chatAnswers[NormalizeLanguage(lang)]
	if !ok {
		answers = chatAnswers["en"]
	}
	lower := strings.ToLower(query)
	for _, t := range chatTopics {
		for _, term := range t.terms {
			if strings.Contains(lower, term) {
				return answers[t.key]
			}
		}
	}
	return answers["general"]
}
