package index

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

var errNoLanguage = errors.New("no language")

type fakeVoice struct {
	languages []string
	calls     []string
}

func (v *fakeVoice) DefaultLanguage() (string, error) {
	if len(v.languages) == 0 {
		return "", errNoLanguage
	}
	return v.languages[0], nil
}

func (v *fakeVoice) NarrationPrompt(script, language string) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", errors.New("empty script")
	}
	v.calls = append(v.calls, language)
	return language + ": " + script, nil
}

func TestNarrationPlan(t *testing.T) {
	x := New(aliceBook)
	v := &fakeVoice{languages: []string{"en"}}

	plan, err := x.NarrationPlan("smiled", v, "", 1)
	if err != nil {
		t.Fatalf("NarrationPlan: %v", err)
	}
	if plan.Language != "en" {
		t.Errorf("Language = %q, want en", plan.Language)
	}
	if plan.Script != aliceBook {
		t.Errorf("Script = %q, want %q", plan.Script, aliceBook)
	}
	if plan.VoicePrompt != "en: "+aliceBook {
		t.Errorf("VoicePrompt = %q", plan.VoicePrompt)
	}
	if !reflect.DeepEqual(plan.SourceIndices, []int{0, 1, 2}) {
		t.Errorf("SourceIndices = %v, want [0 1 2]", plan.SourceIndices)
	}
}

func TestNarrationPlanClampsSources(t *testing.T) {
	x := New(aliceBook)
	v := &fakeVoice{languages: []string{"en"}}

	plan, err := x.NarrationPlan("quickly", v, "fr", 2)
	if err != nil {
		t.Fatalf("NarrationPlan: %v", err)
	}
	if plan.Language != "fr" || !reflect.DeepEqual(v.calls, []string{"fr"}) {
		t.Errorf("explicit language ignored: %q calls=%v", plan.Language, v.calls)
	}
	if !reflect.DeepEqual(plan.SourceIndices, []int{0, 1, 2}) {
		t.Errorf("SourceIndices = %v, want [0 1 2]", plan.SourceIndices)
	}
}

func TestNarrationPlanNoMatch(t *testing.T) {
	x := New(aliceBook)
	v := &fakeVoice{languages: []string{"de", "en"}}

	plan, err := x.NarrationPlan("submarine", v, "", 1)
	if err != nil {
		t.Fatalf("NarrationPlan: %v", err)
	}
	lang, _ := v.DefaultLanguage()
	if plan.Language != lang {
		t.Errorf("Language = %q, want %q", plan.Language, lang)
	}
	if plan.Script != "No relevant passages were found." {
		t.Errorf("Script = %q", plan.Script)
	}
	if plan.SourceIndices == nil || len(plan.SourceIndices) != 0 {
		t.Errorf("SourceIndices = %#v, want empty", plan.SourceIndices)
	}
}

func TestNarrationPlanMissingLanguage(t *testing.T) {
	x := New(aliceBook)
	v := &fakeVoice{}

	if _, err := x.NarrationPlan("alice", v, "", 1); !errors.Is(err, errNoLanguage) {
		t.Errorf("expected missing language error, got %v", err)
	}
	if _, err := x.NarrationPlan("alice", v, "en", 1); err != nil {
		t.Errorf("explicit language should bypass the default: %v", err)
	}
}
