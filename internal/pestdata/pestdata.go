// Package pestdata holds the static agronomy knowledge the assistant falls
// back on when provider output is unstructured or unavailable: per-language
// pest records, keyword lists for free-text matching, prompt templates, and
// the curated mock responses.
//
// All data is plain package-level tables resolved through a single fallback
// chain: requested language → English → generic placeholder.
package pestdata

import "strings"

// ── Languages ────────────────────────────────────────────────

// SupportedLanguages are the ISO-ish codes the assistant ships curated
// content for. Anything else resolves to English.
var SupportedLanguages = []string{"en", "hi", "ta", "te"}

// NormalizeLanguage maps an arbitrary client-supplied language code onto a
// supported one, defaulting to English.
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	for _, l := range SupportedLanguages {
		if lang == l {
			return l
		}
	}
	return "en"
}

// ── Pest knowledge base ──────────────────────────────────────

// Record is the descriptive knowledge for one pest in one language. It backs
// both the normalizer's keyword fallback and the mock generator.
type Record struct {
	Severity          string
	Description       string
	Symptoms          []string
	Treatment         []string
	Prevention        []string
	OrganicTreatment  []string
	ChemicalTreatment []string
	CropsDamaged      []string
	Seasonality       string
}

// keywordEntry maps free-text terms (multiple language variants) onto a
// canonical pest name. Order matters: the first entry whose term appears in
// the scanned text wins.
type keywordEntry struct {
	key       string
	canonical string
	terms     []string
}

var keywordTable = []keywordEntry{
	{
		key:       "aphids",
		canonical: "Aphids",
		terms:     []string{"aphid", "greenfly", "blackfly", "माहू", "चेपा", "அசுவினி", "పేనుబంక", "mahu", "chepa"},
	},
	{
		key:       "bollworm",
		canonical: "Bollworm",
		terms:     []string{"bollworm", "helicoverpa", "सुंडी", "इल्ली", "காய்ப்புழு", "కాయతొలుచు", "soondi", "sundi"},
	},
	{
		key:       "leaf blight",
		canonical: "Leaf Blight",
		terms:     []string{"blight", "झुलसा", "இலை கருகல்", "ఆకు ఎండు", "jhulsa"},
	},
	{
		key:       "stem borer",
		canonical: "Stem Borer",
		terms:     []string{"stem borer", "stemborer", "तना छेदक", "தண்டு துளைப்பான்", "కాండం తొలుచు", "tana chhedak"},
	},
	{
		key:       "whitefly",
		canonical: "Whitefly",
		terms:     []string{"whitefly", "white fly", "सफेद मक्खी", "வெள்ளை ஈ", "తెల్లదోమ", "safed makkhi"},
	},
}

// Match scans free text (case-insensitively) for a known pest term and
// returns the canonical pest name on the first hit.
func Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, e := range keywordTable {
		for _, term := range e.terms {
			if strings.Contains(lower, term) {
				return e.canonical, true
			}
		}
	}
	return "", false
}

// Lookup resolves the descriptive record for a pest in a language, walking
// the language → English → generic fallback chain. The pest name may be in
// canonical or free-text form.
func Lookup(lang, pestName string) Record {
	key := pestKey(pestName)
	if recs, ok := knowledge[NormalizeLanguage(lang)]; ok {
		if r, ok := recs[key]; ok {
			return r
		}
	}
	if r, ok := knowledge["en"][key]; ok {
		return r
	}
	return genericRecord
}

func pestKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var genericRecord = Record{
	Severity:          "medium",
	Description:       "A plant health issue that could not be identified precisely. Inspect the affected area closely and consult a local agricultural extension officer.",
	Symptoms:          []string{"Visible damage or discoloration on leaves, stems or fruit"},
	Treatment:         []string{"Remove and destroy visibly affected plant parts", "Consult a local agricultural extension officer"},
	Prevention:        []string{"Monitor the crop weekly", "Maintain field hygiene and balanced fertilization"},
	OrganicTreatment:  []string{"Neem oil spray (5 ml per litre of water)"},
	ChemicalTreatment: []string{"Use a broad-spectrum pesticide only after expert confirmation"},
	CropsDamaged:      []string{},
	Seasonality:       "Year-round",
}

// knowledge maps language → pest key → record. Languages without an entry
// for a pest fall back to the English record via Lookup.
var knowledge = map[string]map[string]Record{
	"en": {
		"aphids": {
			Severity:          "medium",
			Description:       "Aphids are small sap-sucking insects that cluster on tender shoots and the underside of leaves, weakening the plant and excreting honeydew that invites sooty mould.",
			Symptoms:          []string{"Curled or yellowing leaves", "Sticky honeydew on leaves", "Clusters of small green or black insects on shoots", "Stunted growth"},
			Treatment:         []string{"Spray a strong jet of water to dislodge colonies", "Apply insecticidal soap on affected parts", "Release ladybird beetles as biological control"},
			Prevention:        []string{"Avoid excess nitrogen fertilizer", "Encourage natural predators", "Use yellow sticky traps"},
			OrganicTreatment:  []string{"Neem oil spray (5 ml per litre of water)", "Garlic-chilli extract spray"},
			ChemicalTreatment: []string{"Imidacloprid 17.8 SL at 0.3 ml per litre", "Thiamethoxam 25 WG at 0.2 g per litre"},
			CropsDamaged:      []string{"Mustard", "Cotton", "Okra", "Chilli"},
			Seasonality:       "Peaks in cool, dry months (November to February)",
		},
		"bollworm": {
			Severity:          "high",
			Description:       "Bollworm larvae bore into cotton bolls, fruiting bodies and pods, feeding from inside and causing shedding of squares and heavy yield loss.",
			Symptoms:          []string{"Circular bore holes in bolls or pods", "Frass near entry holes", "Shedding of squares and young bolls", "Larvae visible inside damaged fruit"},
			Treatment:         []string{"Hand-pick and destroy affected bolls and larvae", "Install pheromone traps at 5 per acre", "Spray recommended insecticide at economic threshold"},
			Prevention:        []string{"Grow Bt cotton where approved", "Intercrop with trap crops such as marigold or okra", "Avoid late sowing"},
			OrganicTreatment:  []string{"HaNPV virus spray at 250 LE per hectare", "Neem seed kernel extract 5%"},
			ChemicalTreatment: []string{"Emamectin benzoate 5 SG at 0.4 g per litre", "Chlorantraniliprole 18.5 SC at 0.3 ml per litre"},
			CropsDamaged:      []string{"Cotton", "Chickpea", "Pigeon pea", "Tomato"},
			Seasonality:       "Most damaging during flowering and boll formation (August to October)",
		},
		"leaf blight": {
			Severity:          "high",
			Description:       "Leaf blight is a fungal disease producing brown necrotic lesions that enlarge and merge, drying entire leaves and sharply reducing photosynthesis.",
			Symptoms:          []string{"Brown or tan lesions with yellow halos", "Lesions merging into large dead patches", "Premature drying of lower leaves", "Reduced grain filling"},
			Treatment:         []string{"Remove and burn infected crop residue", "Spray protective fungicide at first symptoms", "Improve field drainage"},
			Prevention:        []string{"Use resistant varieties", "Treat seed before sowing", "Rotate with non-host crops for two seasons"},
			OrganicTreatment:  []string{"Trichoderma viride seed treatment (4 g per kg seed)", "Cow urine and neem leaf extract spray"},
			ChemicalTreatment: []string{"Mancozeb 75 WP at 2.5 g per litre", "Propiconazole 25 EC at 1 ml per litre"},
			CropsDamaged:      []string{"Rice", "Wheat", "Maize", "Potato"},
			Seasonality:       "Spreads fast in warm, humid weather (June to September)",
		},
		"stem borer": {
			Severity:          "high",
			Description:       "Stem borer caterpillars tunnel inside the stem, cutting off the growing point and producing the characteristic dead heart in young plants and white ears at maturity.",
			Symptoms:          []string{"Dead heart in vegetative stage", "White ears with empty grains", "Small bore holes on the stem with frass", "Central shoot withers and pulls out easily"},
			Treatment:         []string{"Pull out and destroy dead hearts", "Release Trichogramma egg parasitoids", "Apply granular insecticide in leaf whorls"},
			Prevention:        []string{"Clip seedling leaf tips before transplanting", "Harvest close to ground level", "Avoid staggered planting"},
			OrganicTreatment:  []string{"Trichogramma japonicum release at 100,000 per hectare", "Neem cake soil application"},
			ChemicalTreatment: []string{"Cartap hydrochloride 4 G at 18.75 kg per hectare", "Chlorantraniliprole 0.4 G at 10 kg per hectare"},
			CropsDamaged:      []string{"Rice", "Sugarcane", "Maize"},
			Seasonality:       "Active throughout the kharif season (July to October)",
		},
		"whitefly": {
			Severity:          "medium",
			Description:       "Whiteflies suck sap from the underside of leaves and transmit viral diseases such as leaf curl; heavy infestations cause yellowing and sooty mould.",
			Symptoms:          []string{"Tiny white insects flying up when foliage is disturbed", "Yellowing and upward curling of leaves", "Sooty mould on honeydew deposits", "Vein thickening from transmitted viruses"},
			Treatment:         []string{"Install yellow sticky traps at 10 per acre", "Spray neem oil on leaf undersides", "Remove heavily infested leaves"},
			Prevention:        []string{"Use virus-free seedlings", "Avoid water stress", "Keep field borders weed free"},
			OrganicTreatment:  []string{"Neem oil 2% spray on leaf undersides", "Verticillium lecanii at 5 g per litre"},
			ChemicalTreatment: []string{"Diafenthiuron 50 WP at 1 g per litre", "Spiromesifen 22.9 SC at 1 ml per litre"},
			CropsDamaged:      []string{"Cotton", "Tomato", "Brinjal", "Chilli"},
			Seasonality:       "Builds up in warm, dry spells (September to November)",
		},
	},
	"hi": {
		"aphids": {
			Severity:          "medium",
			Description:       "माहू छोटे रस चूसने वाले कीट हैं जो कोमल टहनियों और पत्तियों की निचली सतह पर झुंड बनाकर पौधे को कमजोर करते हैं।",
			Symptoms:          []string{"पत्तियों का मुड़ना और पीला पड़ना", "पत्तियों पर चिपचिपा पदार्थ", "टहनियों पर हरे या काले कीटों के झुंड"},
			Treatment:         []string{"पानी की तेज धार से कीटों को हटाएं", "प्रभावित हिस्सों पर कीटनाशक साबुन का छिड़काव करें"},
			Prevention:        []string{"अधिक नाइट्रोजन खाद से बचें", "पीले चिपचिपे ट्रैप लगाएं"},
			OrganicTreatment:  []string{"नीम तेल का छिड़काव (5 मिली प्रति लीटर पानी)"},
			ChemicalTreatment: []string{"इमिडाक्लोप्रिड 17.8 SL, 0.3 मिली प्रति लीटर"},
			CropsDamaged:      []string{"सरसों", "कपास", "भिंडी", "मिर्च"},
			Seasonality:       "ठंडे और शुष्क महीनों में अधिक (नवंबर से फरवरी)",
		},
		"bollworm": {
			Severity:          "high",
			Description:       "सुंडी के लार्वा कपास के टिंडों और फलियों में छेद करके अंदर से खाते हैं, जिससे भारी नुकसान होता है।",
			Symptoms:          []string{"टिंडों या फलियों में गोल छेद", "छेद के पास कीट का मल", "फूल और छोटे टिंडों का गिरना"},
			Treatment:         []string{"प्रभावित टिंडों और सुंडियों को हाथ से चुनकर नष्ट करें", "प्रति एकड़ 5 फेरोमोन ट्रैप लगाएं"},
			Prevention:        []string{"स्वीकृत क्षेत्रों में बीटी कपास उगाएं", "गेंदा या भिंडी की ट्रैप फसल लगाएं"},
			OrganicTreatment:  []string{"नीम बीज गिरी का 5% अर्क"},
			ChemicalTreatment: []string{"इमामेक्टिन बेंजोएट 5 SG, 0.4 ग्राम प्रति लीटर"},
			CropsDamaged:      []string{"कपास", "चना", "अरहर", "टमाटर"},
			Seasonality:       "फूल और टिंडा बनने के समय सबसे अधिक (अगस्त से अक्टूबर)",
		},
		"leaf blight": {
			Severity:          "high",
			Description:       "झुलसा एक फफूंद रोग है जिसमें पत्तियों पर भूरे धब्बे बनते हैं जो फैलकर पूरी पत्ती सुखा देते हैं।",
			Symptoms:          []string{"पीले किनारों वाले भूरे धब्बे", "धब्बों का मिलकर बड़ा होना", "निचली पत्तियों का समय से पहले सूखना"},
			Treatment:         []string{"संक्रमित अवशेष हटाकर जला दें", "पहले लक्षण पर फफूंदनाशक का छिड़काव करें"},
			Prevention:        []string{"प्रतिरोधी किस्में लगाएं", "बुवाई से पहले बीजोपचार करें"},
			OrganicTreatment:  []string{"ट्राइकोडर्मा से बीजोपचार (4 ग्राम प्रति किलो बीज)"},
			ChemicalTreatment: []string{"मैंकोजेब 75 WP, 2.5 ग्राम प्रति लीटर"},
			CropsDamaged:      []string{"धान", "गेहूं", "मक्का", "आलू"},
			Seasonality:       "गर्म और नम मौसम में तेजी से फैलता है (जून से सितंबर)",
		},
	},
	"ta": {
		"aphids": {
			Severity:          "medium",
			Description:       "அசுவினி சிறிய சாறு உறிஞ்சும் பூச்சிகள்; இளம் தளிர்களிலும் இலைகளின் அடிப்பகுதியிலும் கூட்டமாக இருந்து பயிரை பலவீனப்படுத்தும்.",
			Symptoms:          []string{"இலைகள் சுருண்டு மஞ்சளாகுதல்", "இலைகளில் ஒட்டும் திரவம்", "தளிர்களில் பச்சை அல்லது கருப்பு பூச்சிக் கூட்டம்"},
			Treatment:         []string{"தண்ணீரை வேகமாக பீய்ச்சி பூச்சிகளை அகற்றவும்", "பூச்சிக்கொல்லி சோப்பு கரைசல் தெளிக்கவும்"},
			Prevention:        []string{"அதிக தழைச்சத்து உரம் தவிர்க்கவும்", "மஞ்சள் ஒட்டும் பொறிகள் வைக்கவும்"},
			OrganicTreatment:  []string{"வேப்ப எண்ணெய் தெளிப்பு (லிட்டருக்கு 5 மி.லி.)"},
			ChemicalTreatment: []string{"இமிடாகுளோபிரிட் 17.8 SL, லிட்டருக்கு 0.3 மி.லி."},
			CropsDamaged:      []string{"கடுகு", "பருத்தி", "வெண்டை", "மிளகாய்"},
			Seasonality:       "குளிர்ந்த வறண்ட மாதங்களில் அதிகம் (நவம்பர் - பிப்ரவரி)",
		},
		"leaf blight": {
			Severity:          "high",
			Description:       "இலை கருகல் ஒரு பூஞ்சை நோய்; பழுப்பு புள்ளிகள் பெரிதாகி இலை முழுவதும் காய்ந்து விளைச்சலை குறைக்கும்.",
			Symptoms:          []string{"மஞ்சள் விளிம்புடன் பழுப்பு புள்ளிகள்", "புள்ளிகள் இணைந்து பெரிய காய்ந்த பகுதிகள்", "கீழ் இலைகள் முன்கூட்டியே காய்தல்"},
			Treatment:         []string{"பாதிக்கப்பட்ட எச்சங்களை அகற்றி எரிக்கவும்", "முதல் அறிகுறியில் பூஞ்சைக்கொல்லி தெளிக்கவும்"},
			Prevention:        []string{"எதிர்ப்பு சக்தி உள்ள ரகங்களை பயன்படுத்தவும்", "விதை நேர்த்தி செய்யவும்"},
			OrganicTreatment:  []string{"டிரைகோடெர்மா விதை நேர்த்தி (கிலோவுக்கு 4 கிராம்)"},
			ChemicalTreatment: []string{"மேன்கோசெப் 75 WP, லிட்டருக்கு 2.5 கிராம்"},
			CropsDamaged:      []string{"நெல்", "கோதுமை", "மக்காச்சோளம்", "உருளைக்கிழங்கு"},
			Seasonality:       "வெப்பமும் ஈரப்பதமும் உள்ள காலத்தில் வேகமாக பரவும் (ஜூன் - செப்டம்பர்)",
		},
	},
	"te": {
		"aphids": {
			Severity:          "medium",
			Description:       "పేనుబంక చిన్న రసం పీల్చే పురుగులు; లేత కొమ్మలపైనా ఆకుల అడుగు భాగంలోనూ గుంపులుగా చేరి మొక్కను బలహీనపరుస్తాయి.",
			Symptoms:          []string{"ఆకులు ముడుచుకుని పసుపు రంగులోకి మారడం", "ఆకులపై జిగట పదార్థం", "కొమ్మలపై ఆకుపచ్చ లేదా నల్ల పురుగుల గుంపులు"},
			Treatment:         []string{"నీటి ధారతో పురుగులను తొలగించండి", "ప్రభావిత భాగాలపై కీటకనాశక సబ్బు పిచికారీ చేయండి"},
			Prevention:        []string{"అధిక నత్రజని ఎరువులు వాడకండి", "పసుపు జిగురు అట్టలు ఏర్పాటు చేయండి"},
			OrganicTreatment:  []string{"వేప నూనె పిచికారీ (లీటరుకు 5 మి.లీ.)"},
			ChemicalTreatment: []string{"ఇమిడాక్లోప్రిడ్ 17.8 SL, లీటరుకు 0.3 మి.లీ."},
			CropsDamaged:      []string{"ఆవాలు", "పత్తి", "బెండ", "మిరప"},
			Seasonality:       "చల్లని పొడి నెలల్లో అధికం (నవంబర్ - ఫిబ్రవరి)",
		},
		"bollworm": {
			Severity:          "high",
			Description:       "కాయతొలుచు పురుగు లార్వాలు పత్తి కాయలు, కాయధాన్యాల్లోకి రంధ్రం చేసి లోపలి నుంచి తిని తీవ్ర నష్టం కలిగిస్తాయి.",
			Symptoms:          []string{"కాయలపై గుండ్రని రంధ్రాలు", "రంధ్రాల వద్ద పురుగు విసర్జన", "పూత, చిన్న కాయలు రాలడం"},
			Treatment:         []string{"ప్రభావిత కాయలు, లార్వాలను చేతితో ఏరి నాశనం చేయండి", "ఎకరాకు 5 ఫెరోమోన్ ఎరలు ఏర్పాటు చేయండి"},
			Prevention:        []string{"అనుమతించిన చోట బీటీ పత్తి సాగు చేయండి", "బంతి లేదా బెండ ఎర పంటలుగా వేయండి"},
			OrganicTreatment:  []string{"వేప గింజల కషాయం 5%"},
			ChemicalTreatment: []string{"ఎమామెక్టిన్ బెంజోయేట్ 5 SG, లీటరుకు 0.4 గ్రా."},
			CropsDamaged:      []string{"పత్తి", "శనగ", "కంది", "టమాటా"},
			Seasonality:       "పూత, కాయ దశలో అత్యధికం (ఆగస్టు - అక్టోబర్)",
		},
	},
}
