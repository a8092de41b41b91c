package statute

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/coolbeans/statutediff/pkg/normalize"
	"github.com/coolbeans/statutediff/pkg/numeral"
)

// Parser recognizes chapter, section, and article headers in normalized
// statute text and assembles a Document.
type Parser struct {
	chapterPattern *regexp.Regexp
	sectionPattern *regexp.Regexp
	articlePattern *regexp.Regexp

	// headerLookalikePattern catches bare 第X章/第X节 fragments appearing
	// mid-article (page headers, stray repeats) that the full header
	// patterns reject for lacking a title.
	headerLookalikePattern *regexp.Regexp

	// articleHeadingPattern strips the leading 第X条 token when extracting
	// an article's pure content.
	articleHeadingPattern *regexp.Regexp

	logger hclog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for parse progress and anomaly reporting.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser with the statute header patterns. Chapter and
// section numerals run through the tens; article numerals additionally allow
// 百/千/零 since statutes number articles into the hundreds and beyond.
func NewParser(options ...Option) *Parser {
	parser := &Parser{
		chapterPattern:         regexp.MustCompile(`^第([一二三四五六七八九十]+)章[　\s]*(.+)`),
		sectionPattern:         regexp.MustCompile(`^第([一二三四五六七八九十]+)节[　\s]*(.+)`),
		articlePattern:         regexp.MustCompile(`^第([一二三四五六七八九十百千零]+)条[　\s]*(.+)`),
		headerLookalikePattern: regexp.MustCompile(`^第[一二三四五六七八九十]+[章节]`),
		articleHeadingPattern:  regexp.MustCompile(`^第[一二三四五六七八九十百千零]+条[　\s]*`),
		logger:                 hclog.NewNullLogger(),
	}

	for _, option := range options {
		option(parser)
	}
	return parser
}

// Parse normalizes raw statute text and scans it into a Document. The scan
// is a single forward pass that tracks the current chapter and section
// context; entering a new chapter clears the section context. Article lines
// accumulate until the next header or end of input, then flush into the
// article map. The returned Document is complete and never mutated again.
func (p *Parser) Parse(text string) *Document {
	normalized := normalize.Normalize(text)

	doc := &Document{
		Chapters: make(map[int]*Chapter),
		Sections: make(map[int]*Section),
		Articles: make(map[int]*Article),
	}

	var currentChapter *int
	var currentSection *int

	var articleNumber int
	var articleLines []string
	inArticle := false

	flush := func() {
		if !inArticle {
			return
		}
		p.flushArticle(doc, articleNumber, articleLines, currentChapter, currentSection)
		articleLines = nil
		inArticle = false
	}

	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if match := p.chapterPattern.FindStringSubmatch(line); match != nil {
			number := numeral.Convert(match[1])
			doc.Chapters[number] = &Chapter{
				Number:   number,
				Title:    match[2],
				FullText: line,
			}
			chapterNumber := number
			currentChapter = &chapterNumber
			// A new chapter starts outside any section.
			currentSection = nil
			continue
		}

		if match := p.sectionPattern.FindStringSubmatch(line); match != nil {
			number := numeral.Convert(match[1])
			doc.Sections[number] = &Section{
				Number:   number,
				Title:    match[2],
				FullText: line,
			}
			sectionNumber := number
			currentSection = &sectionNumber
			continue
		}

		if match := p.articlePattern.FindStringSubmatch(line); match != nil {
			flush()
			articleNumber = numeral.Convert(match[1])
			articleLines = []string{line}
			inArticle = true
			continue
		}

		if inArticle {
			// Bare chapter/section fragments inside an article body are
			// layout artifacts, not content.
			if p.headerLookalikePattern.MatchString(line) {
				p.logger.Debug("skipping header look-alike inside article",
					"article", articleNumber, "line", line)
				continue
			}
			articleLines = append(articleLines, line)
		}
	}

	flush()

	doc.Stats = Stats{
		TotalChapters: len(doc.Chapters),
		TotalSections: len(doc.Sections),
		TotalArticles: len(doc.Articles),
		ContentLength: utf8.RuneCountInString(normalized),
	}

	p.logger.Debug("parsed statute",
		"chapters", doc.Stats.TotalChapters,
		"sections", doc.Stats.TotalSections,
		"articles", doc.Stats.TotalArticles,
		"collisions", len(doc.Collisions))

	return doc
}

// flushArticle assembles the accumulated lines of one article and stores it.
// The pure content drops the 第X条 heading and re-runs line-break repair so
// that sub-item enumerators (（一）, （二）, …) stay on separate logical
// segments while wrapped sentences rejoin.
func (p *Parser) flushArticle(doc *Document, number int, lines []string, chapter, section *int) {
	fullText := strings.Join(lines, "\n")

	content := p.articleHeadingPattern.ReplaceAllString(fullText, "")
	content = normalize.RepairLineBreaks(content)
	content = normalize.NormalizePunctuation(content)
	content = strings.TrimSpace(content)

	if _, exists := doc.Articles[number]; exists {
		// Duplicate numbers come from malformed numerals in the source.
		// Last occurrence wins; the collision is recorded for the caller.
		doc.Collisions = append(doc.Collisions, number)
		p.logger.Warn("duplicate article number, keeping last occurrence", "article", number)
	}

	article := &Article{
		Number:    number,
		Content:   content,
		FullText:  fullText,
		LineCount: len(lines),
	}
	if chapter != nil {
		chapterNumber := *chapter
		article.ChapterNumber = &chapterNumber
	}
	if section != nil {
		sectionNumber := *section
		article.SectionNumber = &sectionNumber
	}

	doc.Articles[number] = article
}
