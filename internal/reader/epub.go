package reader

import (
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBFormat implements Format for EPUB files.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }
func (f *EPUBFormat) Extract(filename string) (string, error) {
	return ExtractTextFromEPUB(filename)
}

// spineDoc is the extracted text of one spine item.
type spineDoc struct {
	href string
	text string
}

// ExtractTextFromEPUB extracts all text content from an EPUB file.
func ExtractTextFromEPUB(filename string) (string, error) {
	docs, _, err := readSpine(filename)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, d := range docs {
		out.WriteString(d.text)
		out.WriteString(" ")
	}
	return out.String(), nil
}

// readSpine returns the text of every readable spine item in reading order.
// Unreadable items are skipped.
func readSpine(filename string) ([]spineDoc, *epub.Rootfile, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, nil, fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	var docs []spineDoc
	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}
		docs = append(docs, spineDoc{
			href: ref.Item.HREF,
			text: extractTextFromHTML(string(data)),
		})
	}
	return docs, book, nil
}

func extractTextFromHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out.WriteString(t)
				out.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out.String()
}
