package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metcalfc/bookvox/internal/config"
	"github.com/metcalfc/bookvox/internal/index"
	"github.com/metcalfc/bookvox/internal/reader"
	"github.com/metcalfc/bookvox/internal/session"
	"github.com/metcalfc/bookvox/internal/state"
	"github.com/metcalfc/bookvox/internal/voice"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	searchLimit     = 5
	glossaryMinimum = 2
	ruleWidth       = 60
)

var (
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAFF"))

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)
)

var (
	errNoInput  = errors.New("no book provided: pass -book, a file argument, or pipe text to stdin")
	errNoAction = errors.New("nothing to do")
)

type options struct {
	book        string
	question    string
	context     int
	summary     int
	characters  int
	keywords    int
	chapters    bool
	voicePath   string
	preset      string
	style       string
	language    string
	read        int
	recap       bool
	interactive bool
	debug       bool
	version     bool
}

// parseFlags binds the command line on top of cfg. A positional argument
// stands in for -book.
func parseFlags(fs *flag.FlagSet, args []string, cfg *config.Config) (*options, error) {
	o := &options{}
	fs.StringVar(&o.book, "book", "", "Path to the book (.txt, .md or .epub)")
	fs.StringVar(&o.question, "q", "", "Question to search for in the book")
	fs.IntVar(&o.context, "context", cfg.Context, "Neighboring sentences to include with answers")
	fs.IntVar(&o.summary, "summary", 0, "Print an extractive summary of `N` sentences")
	fs.IntVar(&o.characters, "characters", 0, "Show the top `N` recurring capitalized names")
	fs.IntVar(&o.keywords, "keywords", 0, "Show the top `N` informative keywords")
	fs.BoolVar(&o.chapters, "chapters", false, "List chapters and their sentence ranges")
	fs.StringVar(&o.voicePath, "voice", "", "JSON voice profile for narration prompts")
	fs.StringVar(&o.preset, "preset", cfg.Preset, "Voice preset when no profile is given ("+strings.Join(voice.Presets(), ", ")+")")
	fs.StringVar(&o.style, "style", cfg.Style, "Override the vocal style")
	fs.StringVar(&o.language, "language", "", "Narration language (default: the voice's primary language)")
	fs.IntVar(&o.read, "read", 0, "Read the next `N` sentences from the saved position")
	fs.BoolVar(&o.recap, "recap", false, "Recap the saved position")
	fs.BoolVar(&o.interactive, "i", false, "Start an interactive reading session")
	fs.BoolVar(&o.debug, "debug", cfg.Debug, "Enable debug logging")
	fs.BoolVar(&o.version, "v", false, "Show version information")
	fs.BoolVar(&o.version, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.book == "" && fs.NArg() > 0 {
		o.book = fs.Arg(0)
	}
	if o.context < 0 {
		return nil, fmt.Errorf("-context must not be negative, got %d", o.context)
	}
	return o, nil
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		fmt.Fprintf(w, "Bookvox - Ask, summarize and narrate a book\n\n")
		fmt.Fprintf(w, "Usage:\n")
		fmt.Fprintf(w, "  bookvox [options] [file]\n\n")
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nSupported formats: %s and plain text\n", strings.Join(reader.SupportedFormats(), ", "))
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  bookvox -q \"who is Darcy\" book.txt      Answer a question\n")
		fmt.Fprintf(w, "  bookvox -summary 5 -characters 10 book.epub\n")
		fmt.Fprintf(w, "  bookvox -read 3 -preset gemini book.md  Continue reading with a narration prompt\n")
		fmt.Fprintf(w, "  cat book.txt | bookvox -keywords 10     Read from stdin\n")
		fmt.Fprintf(w, "  bookvox -i book.epub                    Interactive session\n")
		fmt.Fprintf(w, "\nControls (interactive):\n")
		fmt.Fprintf(w, "  ENTER    Ask the typed question\n")
		fmt.Fprintf(w, "  CTRL+N   Read the next sentences\n")
		fmt.Fprintf(w, "  CTRL+R   Recap the saved position\n")
		fmt.Fprintf(w, "  CTRL+P   Show a narration prompt\n")
		fmt.Fprintf(w, "  ESC      Quit\n")
	}
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadBook indexes the file at path, or stdin when path is empty. A nil
// stdin means nothing was piped.
func loadBook(path string, stdin io.Reader) (*index.Index, error) {
	if path != "" {
		idx, err := index.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load book '%s': %w", path, err)
		}
		return idx, nil
	}
	if stdin == nil {
		return nil, errNoInput
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("error reading stdin: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("stdin: %w", index.ErrInvalidUTF8)
	}
	return index.New(string(data)), nil
}

// loadVoice returns the narration voice and its preset note. A profile file
// wins over the preset.
func loadVoice(o *options, cfg *config.Config) (*voice.Profile, string, error) {
	if o.voicePath != "" {
		p, err := voice.LoadFile(o.voicePath)
		if err != nil {
			return nil, "", err
		}
		if o.style != "" {
			p.Style = o.style
		}
		return p, "", nil
	}
	lang := o.language
	if lang == "" {
		lang = cfg.Language
	}
	p, note := voice.Preset(o.preset, lang, o.style)
	return p, note, nil
}

func newSession(idx *index.Index, o *options, cfg *config.Config, logger *slog.Logger) (*session.Session, *state.Store, error) {
	store, err := state.NewStore(cfg.StateDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state: %w", err)
	}
	profile, note, err := loadVoice(o, cfg)
	if err != nil {
		return nil, nil, err
	}
	bookID := state.BookID(idx.Text())
	logger.Debug("session opened", "book", bookID, "state", store.Path(), "voice", profile.Name)

	sess := session.New(idx, store, bookID, session.Options{
		Voice:  profile,
		Note:   note,
		Window: o.context,
	})
	return sess, store, nil
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(title))
	fmt.Fprintln(w, ruleStyle.Render(strings.Repeat("─", ruleWidth)))
}

// report prints every requested one-shot query against idx.
func report(w io.Writer, idx *index.Index, o *options, cfg *config.Config, logger *slog.Logger) error {
	ran := false

	if o.question != "" {
		ran = true
		section(w, "Contextual answer")
		fmt.Fprintln(w, idx.ContextualAnswer(o.question, o.context))

		section(w, "Top passages")
		for _, hit := range idx.Search(o.question, searchLimit, o.context) {
			fmt.Fprintf(w, "%s %s\n", scoreStyle.Render(fmt.Sprintf("[score=%.3f]", hit.Score)), hit.Sentence)
		}

		if o.voicePath != "" {
			profile, _, err := loadVoice(o, cfg)
			if err != nil {
				return err
			}
			plan, err := idx.NarrationPlan(o.question, profile, o.language, o.context)
			if err != nil {
				return err
			}
			section(w, "Narration plan")
			printPlan(w, plan)
		}
	}

	if o.summary > 0 {
		ran = true
		section(w, fmt.Sprintf("Summary (top %d sentences)", o.summary))
		for _, item := range idx.Summarize(o.summary) {
			fmt.Fprintf(w, "[%d] %s\n", item.Index+1, item.Sentence)
		}
	}

	if o.characters > 0 {
		ran = true
		section(w, "Character glossary")
		for _, term := range idx.CharacterGlossary(o.characters, glossaryMinimum) {
			fmt.Fprintf(w, "%s (%d)\n", term.Word, term.Count)
		}
	}

	if o.keywords > 0 {
		ran = true
		section(w, "Top keywords")
		for _, kw := range idx.TopKeywords(o.keywords) {
			fmt.Fprintf(w, "%s: %.3f\n", kw.Word, kw.Weight)
		}
	}

	if o.chapters {
		ran = true
		section(w, "Chapters")
		chapters := idx.Chapters()
		if len(chapters) == 0 {
			fmt.Fprintln(w, "No chapters found.")
		}
		for i, ch := range chapters {
			fmt.Fprintf(w, "%2d. %s (sentences %d-%d)\n", i+1, ch.Title, ch.Start+1, ch.End)
		}
	}

	if o.read > 0 || o.recap {
		ran = true
		if err := reportSession(w, idx, o, cfg, logger); err != nil {
			return err
		}
	}

	if !ran {
		return errNoAction
	}
	return nil
}

// reportSession runs the stateful -read and -recap steps and closes with a
// narration prompt.
func reportSession(w io.Writer, idx *index.Index, o *options, cfg *config.Config, logger *slog.Logger) error {
	sess, store, err := newSession(idx, o, cfg, logger)
	if err != nil {
		return err
	}

	if o.read > 0 {
		passage, err := sess.ReadNext(o.read)
		if err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}
		cp, _ := sess.Checkpoint()
		logger.Debug("checkpoint saved", "book", sess.BookID(), "index", cp.LastIndex, "path", store.Path())

		title := "Reading"
		if ch, ok := idx.ChapterOf(cp.LastIndex); ok {
			title += " - " + ch.Title
		}
		section(w, title)
		fmt.Fprintln(w, passage)
	}

	if o.recap {
		section(w, "Recap")
		fmt.Fprintln(w, sess.Recap())
	}

	plan, err := sess.Narrate(o.language)
	if err != nil {
		return err
	}
	section(w, "Narration prompt")
	fmt.Fprintln(w, plan.VoicePrompt)
	return nil
}

func printPlan(w io.Writer, plan index.NarrationPlan) {
	sources := "none"
	if len(plan.SourceIndices) > 0 {
		sources = fmt.Sprint(plan.SourceIndices)
	}
	fmt.Fprintf(w, "Language: %s\n", plan.Language)
	fmt.Fprintf(w, "Source sentence indices: %s\n", sources)
	fmt.Fprintf(w, "Voice prompt:\n%s\n", plan.VoicePrompt)
}

func piped(f *os.File) io.Reader {
	stat, err := f.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return nil
	}
	return f
}

func main() {
	cfg := config.Load()

	fs := flag.NewFlagSet("bookvox", flag.ExitOnError)
	fs.Usage = usage(fs)
	opts, err := parseFlags(fs, os.Args[1:], cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(2)
	}

	if opts.version {
		fmt.Printf("bookvox %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	logger := newLogger(os.Stderr, opts.debug)
	slog.SetDefault(logger)

	var stdin io.Reader
	if opts.book == "" {
		stdin = piped(os.Stdin)
	}
	idx, err := loadBook(opts.book, stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		if errors.Is(err, errNoInput) {
			fmt.Fprintln(os.Stderr, "Try: bookvox -h")
		}
		os.Exit(1)
	}
	logger.Debug("book indexed", "path", opts.book, "sentences", idx.Len(), "chapters", len(idx.Chapters()))

	if opts.interactive {
		sess, _, err := newSession(idx, opts, cfg, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
			os.Exit(1)
		}
		p := tea.NewProgram(newModel(sess, idx, cfg.ReadCount, opts.language), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := report(os.Stdout, idx, opts, cfg, logger); err != nil {
		if errors.Is(err, errNoAction) {
			fs.Usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
