// Package statute parses plain-text Chinese statutes into a hierarchical
// document model of chapters, sections, and articles. Input text is expected
// to be noisy (copy-pasted from PDFs with broken line wrapping) and is
// normalized before structural recognition.
package statute

import "sort"

// Chapter is a 第X章 structural header grouping articles.
type Chapter struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	FullText string `json:"full_text"`
}

// Section is a 第X节 structural header. Sections live in a flat namespace
// keyed by number rather than nesting under chapters; statute section
// numbering restarts rarely enough that the flat map is a deliberate
// simplification.
type Section struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	FullText string `json:"full_text"`
}

// Article is the smallest numbered provision unit. Content is the normalized
// text with the 第X条 heading stripped; FullText retains the heading. The
// chapter and section back-references are nil for articles appearing before
// any header.
type Article struct {
	Number        int    `json:"number"`
	Content       string `json:"content"`
	FullText      string `json:"full_text"`
	ChapterNumber *int   `json:"chapter_num,omitempty"`
	SectionNumber *int   `json:"section_num,omitempty"`
	LineCount     int    `json:"line_count"`
}

// Stats holds aggregate counts for a parsed document.
type Stats struct {
	TotalChapters int `json:"total_chapters"`
	TotalSections int `json:"total_sections"`
	TotalArticles int `json:"total_articles"`
	ContentLength int `json:"total_content_length"`
}

// Document is the parsed form of one statute version. It is built once by
// Parser.Parse and never mutated afterward.
type Document struct {
	Chapters map[int]*Chapter `json:"chapters"`
	Sections map[int]*Section `json:"sections"`
	Articles map[int]*Article `json:"articles"`

	// Collisions lists article numbers that appeared more than once in the
	// source; the last occurrence wins. A non-empty list usually means a
	// malformed numeral converted to the wrong value.
	Collisions []int `json:"collisions,omitempty"`

	Stats Stats `json:"metadata"`
}

// ChapterOf resolves an article's chapter back-reference, or nil.
func (d *Document) ChapterOf(article *Article) *Chapter {
	if article == nil || article.ChapterNumber == nil {
		return nil
	}
	return d.Chapters[*article.ChapterNumber]
}

// SectionOf resolves an article's section back-reference, or nil.
func (d *Document) SectionOf(article *Article) *Section {
	if article == nil || article.SectionNumber == nil {
		return nil
	}
	return d.Sections[*article.SectionNumber]
}

// ArticleNumbers returns the article keys in ascending order.
func (d *Document) ArticleNumbers() []int {
	numbers := make([]int, 0, len(d.Articles))
	for number := range d.Articles {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	return numbers
}
