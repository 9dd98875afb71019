package reader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// NCX XML structures for parsing toc.ncx
type ncx struct {
	NavMap navMap `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	Label    navLabel   `xml:"navLabel"`
	Content  navContent `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

// ExtractChapters returns one chapter per non-empty spine item, titled from
// the NCX table of contents when it names the item.
func (f *EPUBFormat) ExtractChapters(filename string) ([]Chapter, error) {
	docs, book, err := readSpine(filename)
	if err != nil {
		return nil, err
	}

	titles := titlesByHref(filename, book)

	var chapters []Chapter
	for i, d := range docs {
		if strings.TrimSpace(d.text) == "" {
			continue
		}
		title := fmt.Sprintf("Section %d", i+1)
		if d.href != "" {
			if t, ok := titles[d.href]; ok {
				title = t
			} else if t, ok := titles[path.Base(d.href)]; ok {
				title = t
			}
		}
		chapters = append(chapters, Chapter{Title: title, Text: d.text})
	}
	return chapters, nil
}

// titlesByHref parses the NCX and returns a map of href to title. A missing
// or malformed NCX yields an empty map.
func titlesByHref(filename string, book *epub.Rootfile) map[string]string {
	result := make(map[string]string)

	ncxData, err := findAndReadNCX(filename, book)
	if err != nil {
		return result
	}

	var toc ncx
	if err := xml.Unmarshal(ncxData, &toc); err != nil {
		return result
	}

	var extract func(points []navPoint)
	extract = func(points []navPoint) {
		for _, np := range points {
			href := np.Content.Src
			title := strings.TrimSpace(np.Label.Text)

			keys := []string{href}
			if idx := strings.Index(href, "#"); idx != -1 {
				keys = append(keys, href[:idx])
			}
			base := path.Base(href)
			if idx := strings.Index(base, "#"); idx != -1 {
				base = base[:idx]
			}
			keys = append(keys, base)

			for _, k := range keys {
				if _, exists := result[k]; !exists {
					result[k] = title
				}
			}
			extract(np.Children)
		}
	}
	extract(toc.NavMap.NavPoints)

	return result
}

func findAndReadNCX(filename string, book *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range book.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}

	if ncxPath == "" {
		return nil, fmt.Errorf("no NCX file found in EPUB")
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}

	return nil, fmt.Errorf("NCX file %s not found in archive", ncxPath)
}
