package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/metcalfc/bookvox/internal/index"
	"github.com/metcalfc/bookvox/internal/state"
	"github.com/metcalfc/bookvox/internal/voice"
)

const aliceBook = "Alice met Bob. Bob smiled at Alice. Alice left quickly."

const sampleBook = `Elizabeth walked to Longbourn in the rain. The rain soaked her dress.
Darcy watched Elizabeth from the window. "Mr. Darcy is proud," said Jane.
Elizabeth laughed at the remark! Jane smiled. Darcy left Netherfield the next morning.
Was the morning cold? Nobody at Longbourn could say.`

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newSession(t *testing.T, text string, opts Options) (*Session, *state.Store) {
	t.Helper()
	store, err := state.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return New(index.New(text), store, state.BookID(text), opts), store
}

func TestAsk(t *testing.T) {
	s, _ := newSession(t, aliceBook, Options{})

	ans, err := s.Ask("  smiled ")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !ans.Found || ans.Index != 1 || ans.Text != aliceBook {
		t.Errorf("Ask = %+v", ans)
	}

	cp, ok := s.Checkpoint()
	if !ok {
		t.Fatal("no checkpoint after a hit")
	}
	if cp.LastIndex != 1 || cp.LastQuestion != "smiled" {
		t.Errorf("checkpoint = %+v", cp)
	}
	if cp.LastSummary != "Bob smiled at Alice. Alice left quickly." {
		t.Errorf("LastSummary = %q", cp.LastSummary)
	}
	if cp.UpdatedAt != "2024-05-01T12:00:00Z" {
		t.Errorf("UpdatedAt = %q", cp.UpdatedAt)
	}
}

func TestAskMiss(t *testing.T) {
	s, _ := newSession(t, aliceBook, Options{})

	ans, err := s.Ask("zebra")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Found || ans.Text != index.NotFound {
		t.Errorf("Ask miss = %+v", ans)
	}
	if _, ok := s.Checkpoint(); ok {
		t.Error("a miss should not record a checkpoint")
	}

	if _, err := s.Ask("   "); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("blank question error = %v, want ErrEmptyQuestion", err)
	}
}

func TestReadNext(t *testing.T) {
	s, _ := newSession(t, sampleBook, Options{})
	x := index.New(sampleBook)

	got, err := s.ReadNext(3)
	if err != nil {
		t.Fatalf("ReadNext: %v", err)
	}
	if want := x.Passage(0, 3); got != want {
		t.Errorf("first read = %q, want %q", got, want)
	}
	if cp, _ := s.Checkpoint(); cp.LastIndex != 2 || cp.LastQuestion != "" {
		t.Errorf("checkpoint after first read = %+v", cp)
	}

	// Reading resumes at the last sentence read.
	got, _ = s.ReadNext(3)
	if want := x.Passage(2, 5); got != want {
		t.Errorf("second read = %q, want %q", got, want)
	}
	if cp, _ := s.Checkpoint(); cp.LastIndex != 4 {
		t.Errorf("LastIndex = %d, want 4", cp.LastIndex)
	}

	// Counts below one still read a sentence.
	got, _ = s.ReadNext(0)
	if want := x.Passage(4, 5); got != want {
		t.Errorf("zero-count read = %q, want %q", got, want)
	}
}

func TestReadNextAtEnd(t *testing.T) {
	s, store := newSession(t, aliceBook, Options{})
	store.Save(state.NewCheckpoint(s.BookID(), 2, "", "", fixedNow))

	got, err := s.ReadNext(5)
	if err != nil {
		t.Fatalf("ReadNext: %v", err)
	}
	if got != "Alice left quickly." {
		t.Errorf("ReadNext at end = %q", got)
	}
	if cp, _ := s.Checkpoint(); cp.LastIndex != 2 {
		t.Errorf("LastIndex = %d, want 2", cp.LastIndex)
	}

	empty, _ := newSession(t, "", Options{})
	if got, err := empty.ReadNext(3); err != nil || got != "" {
		t.Errorf("ReadNext on empty book = %q, %v", got, err)
	}
}

func TestRecap(t *testing.T) {
	s, _ := newSession(t, sampleBook, Options{})
	x := index.New(sampleBook)

	var parts []string
	for _, item := range x.SummarizeSpan(0, 5, 2) {
		parts = append(parts, item.Sentence)
	}
	if got, want := s.Recap(), strings.Join(parts, " "); got != want {
		t.Errorf("fresh Recap = %q, want %q", got, want)
	}

	if _, err := s.Ask("Netherfield"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	cp, _ := s.Checkpoint()
	if cp.LastSummary == "" || s.Recap() != cp.LastSummary {
		t.Errorf("Recap = %q, want stored %q", s.Recap(), cp.LastSummary)
	}
}

func TestCheckpointSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	store, _ := state.NewStore(dir)
	s := New(index.New(aliceBook), store, state.BookID(aliceBook), Options{})
	if _, err := s.Ask("quickly"); err != nil {
		t.Fatalf("Ask: %v", err)
	}

	reopened, _ := state.NewStore(dir)
	s2 := New(index.New(aliceBook), reopened, state.BookID(aliceBook), Options{})
	cp, ok := s2.Checkpoint()
	if !ok || cp.LastIndex != 2 || cp.LastQuestion != "quickly" {
		t.Errorf("reloaded checkpoint = %+v, %v", cp, ok)
	}
}

func TestNarrate(t *testing.T) {
	profile, note := voice.Preset("gemini", "fr", "")
	s, _ := newSession(t, aliceBook, Options{Voice: profile, Note: note})

	plan, err := s.Narrate("")
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if plan.Language != "fr" {
		t.Errorf("Language = %q, want fr", plan.Language)
	}
	if plan.Script != index.NotFound {
		t.Errorf("Script = %q, want %q", plan.Script, index.NotFound)
	}
	wantPrefix := note + "\n\nNarrate in fr with voice 'Gemini'"
	if !strings.HasPrefix(plan.VoicePrompt, wantPrefix) {
		t.Errorf("VoicePrompt = %q, want prefix %q", plan.VoicePrompt, wantPrefix)
	}
}

func TestNarrateContinuesStory(t *testing.T) {
	text := "Once upon a time. The story begins here. It ends well."
	profile := voice.Build("Narrator", []string{"en"}, "")
	s, _ := newSession(t, text, Options{Voice: profile, Window: 1})

	plan, err := s.Narrate("de")
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if plan.Language != "de" || plan.Script != text {
		t.Errorf("plan = %+v", plan)
	}
	if len(plan.SourceIndices) != 3 {
		t.Errorf("SourceIndices = %v", plan.SourceIndices)
	}
	if strings.HasPrefix(plan.VoicePrompt, "\n") {
		t.Error("empty note should not prefix the prompt")
	}
}

func TestNarrateWithoutVoice(t *testing.T) {
	s, _ := newSession(t, aliceBook, Options{})
	if _, err := s.Narrate("en"); err == nil {
		t.Error("expected an error without a voice profile")
	}
}
