// Package voice describes a narration voice and turns book passages into
// prompts for downstream text-to-speech systems.
package voice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const defaultStyle = "natural and warm"

var (
	// ErrNoLanguage is returned when a profile declares no languages.
	ErrNoLanguage = errors.New("voice profile must include at least one language")
	// ErrEmptyScript is returned when asked to narrate an empty script.
	ErrEmptyScript = errors.New("narration script cannot be empty")
)

// Profile is a model-agnostic description of a narration voice.
type Profile struct {
	Name              string            `json:"name"`
	Languages         []string          `json:"languages"`
	Style             string            `json:"style"`
	SampleClips       map[string]string `json:"sample_clips,omitempty"`
	ArticulationNotes string            `json:"articulation_notes,omitempty"`
	WarmupPhrase      string            `json:"warmup_phrase,omitempty"`
}

// Option configures a Profile built with Build.
type Option func(*Profile)

// WithStyle sets the vocal style.
func WithStyle(style string) Option {
	return func(p *Profile) {
		if style != "" {
			p.Style = style
		}
	}
}

// WithNotes sets articulation notes.
func WithNotes(notes string) Option {
	return func(p *Profile) { p.ArticulationNotes = notes }
}

// WithWarmup sets the warmup phrase.
func WithWarmup(phrase string) Option {
	return func(p *Profile) { p.WarmupPhrase = phrase }
}

// Build creates a profile with an optional reference clip for its primary language.
func Build(name string, languages []string, clip string, opts ...Option) *Profile {
	p := &Profile{
		Name:        name,
		Languages:   append([]string(nil), languages...),
		Style:       defaultStyle,
		SampleClips: map[string]string{},
	}
	if clip != "" && len(languages) > 0 {
		p.SampleClips[languages[0]] = clip
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decode reads a JSON profile. The name is required.
func Decode(r io.Reader) (*Profile, error) {
	var p Profile
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse voice profile: %w", err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("voice profile has no name")
	}
	if p.Style == "" {
		p.Style = defaultStyle
	}
	if p.SampleClips == nil {
		p.SampleClips = map[string]string{}
	}
	return &p, nil
}

// LoadFile reads a JSON profile from disk.
func LoadFile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// DefaultLanguage returns the first declared language.
func (p *Profile) DefaultLanguage() (string, error) {
	if len(p.Languages) == 0 {
		return "", ErrNoLanguage
	}
	return p.Languages[0], nil
}

// ClipFor returns the reference clip for language. It falls back to the clip
// of the earliest declared language that has one, then to any clip, then "".
func (p *Profile) ClipFor(language string) string {
	if clip, ok := p.SampleClips[language]; ok {
		return clip
	}
	for _, lang := range p.Languages {
		if clip, ok := p.SampleClips[lang]; ok {
			return clip
		}
	}
	if len(p.SampleClips) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p.SampleClips))
	for k := range p.SampleClips {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return p.SampleClips[keys[0]]
}

// Describe returns a human-friendly summary of the voice.
func (p *Profile) Describe() string {
	lines := []string{
		"Voice: " + p.Name,
		"Style: " + p.Style,
		"Languages: " + strings.Join(p.Languages, ", "),
	}
	if p.ArticulationNotes != "" {
		lines = append(lines, "Notes: "+p.ArticulationNotes)
	}
	if p.WarmupPhrase != "" {
		lines = append(lines, "Warmup phrase: "+p.WarmupPhrase)
	}
	lang, _ := p.DefaultLanguage()
	if clip := p.ClipFor(lang); clip != "" {
		lines = append(lines, "Reference clip: "+clip)
	}
	return strings.Join(lines, "\n")
}

// NarrationPrompt formats a structured prompt describing how to voice script.
// An empty language selects the default language.
func (p *Profile) NarrationPrompt(script, language string) (string, error) {
	if language == "" {
		lang, err := p.DefaultLanguage()
		if err != nil {
			return "", err
		}
		language = lang
	}

	body := strings.TrimSpace(script)
	if body == "" {
		return "", ErrEmptyScript
	}

	lines := []string{
		fmt.Sprintf("Narrate in %s with voice '%s'", language, p.Name),
		"Style: " + p.Style,
	}
	if clip := p.ClipFor(language); clip != "" {
		lines = append(lines, "Use reference clip for timbre: "+clip)
	}
	if p.ArticulationNotes != "" {
		lines = append(lines, "Articulation notes: "+p.ArticulationNotes)
	}
	if p.WarmupPhrase != "" {
		lines = append(lines, "Warmup phrase: "+p.WarmupPhrase)
	}
	lines = append(lines, "", body)
	return strings.Join(lines, "\n"), nil
}
