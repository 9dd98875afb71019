package reader

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

const maxLineBytes = 1 << 20

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// ExtractChapters splits a Markdown file on headers. Header lines become
// chapter titles and are not part of the chapter text. Text before the first
// header forms an untitled chapter.
func (f *MarkdownFormat) ExtractChapters(filename string) ([]Chapter, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var chapters []Chapter
	current := Chapter{}
	var lines []string

	flush := func() {
		current.Text = strings.TrimSpace(strings.Join(lines, "\n"))
		if current.Text != "" {
			chapters = append(chapters, current)
		}
		lines = nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()

		if match := headerRegex.FindStringSubmatch(line); match != nil {
			flush()
			current = Chapter{Title: strings.TrimSpace(match[2])}
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	// No headers: a single chapter named after the format.
	if len(chapters) == 1 && chapters[0].Title == "" {
		chapters[0].Title = "Document"
	}

	return chapters, nil
}
