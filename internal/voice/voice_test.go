package voice

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLanguage(t *testing.T) {
	p := Build("Ada", []string{"fr", "en"}, "")
	lang, err := p.DefaultLanguage()
	if err != nil {
		t.Fatalf("DefaultLanguage: %v", err)
	}
	if lang != "fr" {
		t.Errorf("DefaultLanguage() = %q, want fr", lang)
	}

	empty := Build("Mute", nil, "")
	if _, err := empty.DefaultLanguage(); !errors.Is(err, ErrNoLanguage) {
		t.Errorf("expected ErrNoLanguage, got %v", err)
	}
}

func TestNarrationPrompt(t *testing.T) {
	p := Build("Ada", []string{"en", "es"}, "clips/en.wav",
		WithStyle("calm"),
		WithNotes("soft consonants"),
		WithWarmup("Hello there"),
	)

	got, err := p.NarrationPrompt("  Once upon a time.  ", "")
	if err != nil {
		t.Fatalf("NarrationPrompt: %v", err)
	}
	want := strings.Join([]string{
		"Narrate in en with voice 'Ada'",
		"Style: calm",
		"Use reference clip for timbre: clips/en.wav",
		"Articulation notes: soft consonants",
		"Warmup phrase: Hello there",
		"",
		"Once upon a time.",
	}, "\n")
	if got != want {
		t.Errorf("prompt mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestNarrationPromptFallsBackToPrimaryClip(t *testing.T) {
	p := Build("Ada", []string{"en", "es"}, "clips/en.wav")
	got, err := p.NarrationPrompt("Hola.", "es")
	if err != nil {
		t.Fatalf("NarrationPrompt: %v", err)
	}
	if !strings.HasPrefix(got, "Narrate in es with voice 'Ada'") {
		t.Errorf("unexpected header: %q", got)
	}
	if !strings.Contains(got, "Use reference clip for timbre: clips/en.wav") {
		t.Errorf("expected fallback clip in prompt: %q", got)
	}
}

func TestNarrationPromptErrors(t *testing.T) {
	p := Build("Ada", []string{"en"}, "")
	if _, err := p.NarrationPrompt("   \n\t", "en"); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("expected ErrEmptyScript, got %v", err)
	}

	noLang := Build("Ada", nil, "")
	if _, err := noLang.NarrationPrompt("Text.", ""); !errors.Is(err, ErrNoLanguage) {
		t.Errorf("expected ErrNoLanguage, got %v", err)
	}
	if _, err := noLang.NarrationPrompt("Text.", "de"); err != nil {
		t.Errorf("explicit language should not need defaults: %v", err)
	}
}

func TestClipFor(t *testing.T) {
	tests := []struct {
		name     string
		profile  *Profile
		language string
		want     string
	}{
		{
			name:     "no clips",
			profile:  Build("A", []string{"en"}, ""),
			language: "en",
			want:     "",
		},
		{
			name:     "exact match",
			profile:  &Profile{Languages: []string{"en", "fr"}, SampleClips: map[string]string{"en": "en.wav", "fr": "fr.wav"}},
			language: "fr",
			want:     "fr.wav",
		},
		{
			name:     "declared language order",
			profile:  &Profile{Languages: []string{"fr", "en"}, SampleClips: map[string]string{"en": "en.wav", "fr": "fr.wav"}},
			language: "de",
			want:     "fr.wav",
		},
		{
			name:     "undeclared clip",
			profile:  &Profile{Languages: []string{"en"}, SampleClips: map[string]string{"pt": "pt.wav", "it": "it.wav"}},
			language: "en",
			want:     "it.wav",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.ClipFor(tt.language); got != tt.want {
				t.Errorf("ClipFor(%q) = %q, want %q", tt.language, got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	p := Build("Ada", []string{"en", "es"}, "clips/en.wav", WithNotes("crisp"))
	want := strings.Join([]string{
		"Voice: Ada",
		"Style: natural and warm",
		"Languages: en, es",
		"Notes: crisp",
		"Reference clip: clips/en.wav",
	}, "\n")
	if got := p.Describe(); got != want {
		t.Errorf("Describe() =\n%s\nwant\n%s", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("full profile", func(t *testing.T) {
		path := filepath.Join(tmpDir, "voice.json")
		os.WriteFile(path, []byte(`{
			"name": "Narrator",
			"languages": ["en", "de"],
			"sample_clips": {"de": "de.wav"},
			"warmup_phrase": "Guten Tag"
		}`), 0644)

		p, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if p.Name != "Narrator" || p.Style != defaultStyle {
			t.Errorf("unexpected profile: %+v", p)
		}
		if got := p.ClipFor("en"); got != "de.wav" {
			t.Errorf("ClipFor(en) = %q, want de.wav", got)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		path := filepath.Join(tmpDir, "anon.json")
		os.WriteFile(path, []byte(`{"languages": ["en"]}`), 0644)
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for profile without name")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bad.json")
		os.WriteFile(path, []byte(`{"name": `), 0644)
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for invalid json")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(tmpDir, "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestPreset(t *testing.T) {
	p, note := Preset("gemini", "it", "")
	if p.Name != "Gemini" || p.Style != "warm, articulate, and curious" {
		t.Errorf("unexpected gemini profile: %+v", p)
	}
	if note != "Reference voice: Gemini-style narration." {
		t.Errorf("note = %q", note)
	}
	if lang, _ := p.DefaultLanguage(); lang != "it" {
		t.Errorf("language = %q, want it", lang)
	}

	p, note = Preset("unknown", "en", "cinematic")
	if p.Name != "Custom" || p.Style != "cinematic" || note != "" {
		t.Errorf("unexpected fallback: %+v note=%q", p, note)
	}

	p, _ = Preset("custom", "", "")
	if _, err := p.DefaultLanguage(); !errors.Is(err, ErrNoLanguage) {
		t.Errorf("expected ErrNoLanguage for preset without language, got %v", err)
	}
}
