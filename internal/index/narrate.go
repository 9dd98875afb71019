package index

import "strings"

// Voice is the narration capability a plan is built against.
type Voice interface {
	DefaultLanguage() (string, error)
	NarrationPrompt(script, language string) (string, error)
}

// NarrationPlan packages a script drawn from the book with a voice prompt.
type NarrationPlan struct {
	Language      string
	Script        string
	VoicePrompt   string
	SourceIndices []int
}

// NarrationPlan builds a narration script for the question's best match.
// With no match the script is NotFound and SourceIndices is empty. An empty
// language selects the voice's default language.
func (x *Index) NarrationPlan(question string, voice Voice, language string, window int) (NarrationPlan, error) {
	script := NotFound
	sources := []int{}
	if hits := x.Search(question, 1, window); len(hits) > 0 {
		context, start := x.contextWindow(hits[0].Index, max(window, 0))
		script = strings.Join(context, " ")
		for i := range context {
			sources = append(sources, start+i)
		}
	}

	if language == "" {
		lang, err := voice.DefaultLanguage()
		if err != nil {
			return NarrationPlan{}, err
		}
		language = lang
	}
	prompt, err := voice.NarrationPrompt(script, language)
	if err != nil {
		return NarrationPlan{}, err
	}

	return NarrationPlan{
		Language:      language,
		Script:        script,
		VoicePrompt:   prompt,
		SourceIndices: sources,
	}, nil
}
