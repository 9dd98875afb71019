package voice

type preset struct {
	name  string
	style string
	notes string
}

var presets = map[string]preset{
	"chatgpt": {
		name:  "ChatGPT",
		style: "clear, friendly, and supportive",
		notes: "Reference voice: ChatGPT-style narration.",
	},
	"gemini": {
		name:  "Gemini",
		style: "warm, articulate, and curious",
		notes: "Reference voice: Gemini-style narration.",
	},
	"custom": {
		name:  "Custom",
		style: defaultStyle,
	},
}

// Presets returns the known preset keys.
func Presets() []string {
	return []string{"chatgpt", "gemini", "custom"}
}

// Preset builds a single-language profile from a named preset and returns it
// with the preset's note. Unknown keys fall back to "custom"; a non-empty
// style overrides the preset style.
func Preset(key, language, style string) (*Profile, string) {
	p, ok := presets[key]
	if !ok {
		p = presets["custom"]
	}
	if style == "" {
		style = p.style
	}
	var languages []string
	if language != "" {
		languages = []string{language}
	}
	return Build(p.name, languages, "", WithStyle(style)), p.notes
}
