package language

// Classifier maps raw message text to an ISO-639 language code.
type Classifier interface {
	Classify(text string) string
}

// DefaultCode is returned when no script range matches.
const DefaultCode = "en"

// scriptRange ties a Unicode code-point range to a language code. The table is
// ordered; the first range containing any rune of the input wins. Mixed-script
// text therefore resolves to whichever script the scan meets first.
type scriptRange struct {
	lo, hi rune
	code   string
}

var scriptRanges = []scriptRange{
	{0x0900, 0x097F, "hi"}, // Devanagari
	{0x0980, 0x09FF, "bn"}, // Bengali
	{0x0C00, 0x0C7F, "te"}, // Telugu
	{0x0B80, 0x0BFF, "ta"}, // Tamil
	{0x0A80, 0x0AFF, "gu"}, // Gujarati
	{0x0C80, 0x0CFF, "kn"}, // Kannada
	{0x0D00, 0x0D7F, "ml"}, // Malayalam
	{0x0A00, 0x0A7F, "pa"}, // Gurmukhi
	{0x0B00, 0x0B7F, "or"}, // Odia
	{0x0600, 0x06FF, "ur"}, // Arabic script, treated as Urdu
}

// Heuristic classifies text by Unicode script ranges. It is deliberately not
// real language identification and yields no confidence score; it never fails.
type Heuristic struct{}

// NewHeuristic returns the script-range classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Classify returns the language code of the first matching script range, or
// DefaultCode when nothing matches (including empty input).
func (h *Heuristic) Classify(text string) string {
	for _, r := range scriptRanges {
		for _, c := range text {
			if c >= r.lo && c <= r.hi {
				return r.code
			}
		}
	}
	return DefaultCode
}

// Name maps a language code to its English name for prompt construction.
func Name(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"bn": "Bengali",
	"te": "Telugu",
	"mr": "Marathi",
	"ta": "Tamil",
	"gu": "Gujarati",
	"kn": "Kannada",
	"ml": "Malayalam",
	"pa": "Punjabi",
	"or": "Odia",
	"as": "Assamese",
	"ur": "Urdu",
	"ne": "Nepali",
	"si": "Sinhala",
}
