// Package session drives a reading session over one book: answering
// questions, reading onward from the last position and recapping it, with
// every step recorded as a checkpoint.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/metcalfc/bookvox/internal/index"
	"github.com/metcalfc/bookvox/internal/state"
)

const (
	// ContinuePrompt is the question narrated after each session step.
	ContinuePrompt = "Continue the story"

	defaultWindow = 2
	recapSpan     = 5
	recapLength   = 2
)

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("add a question to search the book")

// Store is the checkpoint persistence a session needs.
type Store interface {
	Load(bookID string) (state.Checkpoint, bool)
	Save(cp state.Checkpoint) error
}

// Options configures a Session.
type Options struct {
	// Voice narrates session output. Narrate fails without one.
	Voice index.Voice
	// Note is prepended to narration prompts, e.g. a voice preset note.
	Note string
	// Window is the context half-width for answers; 0 selects 2.
	Window int
	// Now stamps checkpoints; nil selects time.Now.
	Now func() time.Time
}

// Session ties an index to its persisted checkpoint.
type Session struct {
	idx    *index.Index
	store  Store
	bookID string
	opts   Options
}

// Answer is the result of Ask.
type Answer struct {
	Text  string
	Found bool
	Index int
}

// New starts a session for the book identified by bookID.
func New(idx *index.Index, store Store, bookID string, opts Options) *Session {
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{idx: idx, store: store, bookID: bookID, opts: opts}
}

// BookID returns the identifier checkpoints are stored under.
func (s *Session) BookID() string {
	return s.bookID
}

// Checkpoint returns the stored checkpoint for the book.
func (s *Session) Checkpoint() (state.Checkpoint, bool) {
	return s.store.Load(s.bookID)
}

// Ask answers question with the best matching passage and moves the
// checkpoint to it. A miss leaves the checkpoint untouched.
func (s *Session) Ask(question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}

	hits := s.idx.Search(question, 1, s.opts.Window)
	if len(hits) == 0 {
		return Answer{Text: index.NotFound}, nil
	}

	best := hits[0]
	if _, err := s.record(best.Index, question); err != nil {
		return Answer{}, err
	}
	return Answer{
		Text:  strings.Join(best.Context, " "),
		Found: true,
		Index: best.Index,
	}, nil
}

// ReadNext returns the next count sentences from the checkpoint (at least
// one) and advances the checkpoint to the last sentence read.
func (s *Session) ReadNext(count int) (string, error) {
	start := 0
	if cp, ok := s.Checkpoint(); ok {
		start = cp.LastIndex
	}
	end := min(s.idx.Len(), start+max(count, 1))
	passage := s.idx.Passage(start, end)

	if _, err := s.record(max(end-1, 0), ""); err != nil {
		return "", err
	}
	return passage, nil
}

// Recap returns the stored summary, or a summary of the opening sentences
// when nothing has been recorded yet.
func (s *Session) Recap() string {
	if cp, ok := s.Checkpoint(); ok && cp.LastSummary != "" {
		return cp.LastSummary
	}
	return joinSummary(s.idx.SummarizeSpan(0, min(recapSpan, s.idx.Len()), recapLength))
}

// Narrate plans a narration continuing the story in language, or in the
// voice's default language when empty.
func (s *Session) Narrate(language string) (index.NarrationPlan, error) {
	if s.opts.Voice == nil {
		return index.NarrationPlan{}, errors.New("session has no voice profile")
	}
	plan, err := s.idx.NarrationPlan(ContinuePrompt, s.opts.Voice, language, s.opts.Window)
	if err != nil {
		return index.NarrationPlan{}, err
	}
	if s.opts.Note != "" {
		plan.VoicePrompt = s.opts.Note + "\n\n" + plan.VoicePrompt
	}
	return plan, nil
}

// record saves a checkpoint at sentence i with a summary of its surroundings.
func (s *Session) record(i int, question string) (state.Checkpoint, error) {
	summary := joinSummary(s.idx.SummarizeSpan(i-2, i+3, recapLength))
	cp := state.NewCheckpoint(s.bookID, i, question, summary, s.opts.Now())
	return cp, s.store.Save(cp)
}

func joinSummary(items []index.SummaryResult) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Sentence
	}
	return strings.Join(parts, " ")
}
