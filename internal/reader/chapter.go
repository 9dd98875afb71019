package reader

// Chapter is a titled stretch of book text.
type Chapter struct {
	Title string
	Text  string
}

// ChapterExtractor is an optional interface for chapter-aware extraction
type ChapterExtractor interface {
	ExtractChapters(filename string) ([]Chapter, error)
}
