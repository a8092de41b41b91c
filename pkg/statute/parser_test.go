package statute

import (
	"strings"
	"testing"
)

const sampleStatute = `中华人民共和国某某管理法

第一章　总则

第一条　为了维护公共秩序，制定本法。

第二条　在中华人民共和国境内从事相关活动，
适用本法。

第二章　管理规定

第一节　一般规定

第三条　从事相关活动应当遵守下列规定：
（一）依法取得许可；
（二）接受监督检查。

第二节　特别规定

第四条　违反本法规定的，处一百元罚款。

第三章　附则

第五条　本法自公布之日起施行。
`

func parseSample(t *testing.T) *Document {
	t.Helper()
	return NewParser().Parse(sampleStatute)
}

func TestParse_ChapterAndSectionHeaders(t *testing.T) {
	doc := parseSample(t)

	if len(doc.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(doc.Chapters))
	}
	if doc.Chapters[1] == nil || doc.Chapters[1].Title != "总则" {
		t.Errorf("chapter 1 title = %+v, want 总则", doc.Chapters[1])
	}
	if doc.Chapters[3] == nil || doc.Chapters[3].Title != "附则" {
		t.Errorf("chapter 3 title = %+v, want 附则", doc.Chapters[3])
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[1] == nil || doc.Sections[1].Title != "一般规定" {
		t.Errorf("section 1 = %+v, want 一般规定", doc.Sections[1])
	}
}

func TestParse_ArticleNumbersAndCounts(t *testing.T) {
	doc := parseSample(t)

	if len(doc.Articles) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(doc.Articles))
	}
	want := []int{1, 2, 3, 4, 5}
	got := doc.ArticleNumbers()
	for i, number := range want {
		if got[i] != number {
			t.Fatalf("article numbers = %v, want %v", got, want)
		}
	}

	if doc.Stats.TotalArticles != 5 || doc.Stats.TotalChapters != 3 || doc.Stats.TotalSections != 2 {
		t.Errorf("stats = %+v", doc.Stats)
	}
}

func TestParse_HeadingStrippedFromContent(t *testing.T) {
	doc := parseSample(t)

	article := doc.Articles[1]
	if article == nil {
		t.Fatal("article 1 missing")
	}
	if strings.Contains(article.Content, "第一条") {
		t.Errorf("content still contains heading: %q", article.Content)
	}
	if !strings.HasPrefix(article.FullText, "第一条") {
		t.Errorf("full text lost heading: %q", article.FullText)
	}
	if article.Content != "为了维护公共秩序，制定本法。" {
		t.Errorf("article 1 content = %q", article.Content)
	}
}

func TestParse_WrappedArticleLinesRejoin(t *testing.T) {
	doc := parseSample(t)

	article := doc.Articles[2]
	if article == nil {
		t.Fatal("article 2 missing")
	}
	if article.Content != "在中华人民共和国境内从事相关活动，适用本法。" {
		t.Errorf("article 2 content = %q", article.Content)
	}
	// Line-break repair runs before the structural scan, so the wrapped
	// source collapses to one buffered line.
	if article.LineCount != 1 {
		t.Errorf("article 2 line count = %d, want 1", article.LineCount)
	}
}

func TestParse_EnumeratorsStaySeparateSegments(t *testing.T) {
	doc := parseSample(t)

	article := doc.Articles[3]
	if article == nil {
		t.Fatal("article 3 missing")
	}
	segments := strings.Split(article.Content, "\n")
	if len(segments) != 3 {
		t.Fatalf("article 3 segments = %q, want 3 segments", segments)
	}
	if !strings.HasPrefix(segments[1], "（一）") || !strings.HasPrefix(segments[2], "（二）") {
		t.Errorf("enumerator segments were merged: %q", segments)
	}
}

func TestParse_ChapterSectionBackReferences(t *testing.T) {
	doc := parseSample(t)

	cases := []struct {
		article int
		chapter int
		section int // 0 means nil
	}{
		{1, 1, 0},
		{2, 1, 0},
		{3, 2, 1},
		{4, 2, 2},
		{5, 3, 0},
	}

	for _, tc := range cases {
		article := doc.Articles[tc.article]
		if article == nil {
			t.Fatalf("article %d missing", tc.article)
		}
		if article.ChapterNumber == nil || *article.ChapterNumber != tc.chapter {
			t.Errorf("article %d chapter = %v, want %d", tc.article, article.ChapterNumber, tc.chapter)
		}
		if tc.section == 0 {
			if article.SectionNumber != nil {
				t.Errorf("article %d section = %d, want nil", tc.article, *article.SectionNumber)
			}
		} else if article.SectionNumber == nil || *article.SectionNumber != tc.section {
			t.Errorf("article %d section = %v, want %d", tc.article, article.SectionNumber, tc.section)
		}

		// Back-references must resolve within the same document.
		if article.ChapterNumber != nil && doc.Chapters[*article.ChapterNumber] == nil {
			t.Errorf("article %d references missing chapter %d", tc.article, *article.ChapterNumber)
		}
		if article.SectionNumber != nil && doc.Sections[*article.SectionNumber] == nil {
			t.Errorf("article %d references missing section %d", tc.article, *article.SectionNumber)
		}
	}
}

func TestParse_NewChapterClearsSectionContext(t *testing.T) {
	doc := parseSample(t)

	// Article 5 follows chapter 3, which has no sections; the section
	// context from chapter 2 must not leak across the chapter boundary.
	article := doc.Articles[5]
	if article == nil {
		t.Fatal("article 5 missing")
	}
	if article.SectionNumber != nil {
		t.Errorf("article 5 section = %d, want nil", *article.SectionNumber)
	}
}

func TestParse_HeaderLookalikeSkippedMidArticle(t *testing.T) {
	input := "第一条　基本要求如下，\n第二章\n应当遵守规定。"
	doc := NewParser().Parse(input)

	article := doc.Articles[1]
	if article == nil {
		t.Fatal("article 1 missing")
	}
	if strings.Contains(article.Content, "第二章") {
		t.Errorf("header look-alike leaked into content: %q", article.Content)
	}
	if len(doc.Chapters) != 0 {
		t.Errorf("bare chapter fragment should not create a chapter: %v", doc.Chapters)
	}
}

func TestParse_DuplicateArticleNumberLastWins(t *testing.T) {
	input := "第一条　旧的内容。\n第一条　新的内容。"
	doc := NewParser().Parse(input)

	if len(doc.Articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(doc.Articles))
	}
	if doc.Articles[1].Content != "新的内容。" {
		t.Errorf("duplicate did not keep last occurrence: %q", doc.Articles[1].Content)
	}
	if len(doc.Collisions) != 1 || doc.Collisions[0] != 1 {
		t.Errorf("collisions = %v, want [1]", doc.Collisions)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	doc := NewParser().Parse("")

	if len(doc.Articles) != 0 || len(doc.Chapters) != 0 || len(doc.Sections) != 0 {
		t.Errorf("empty input produced non-empty document: %+v", doc.Stats)
	}
}

func TestParse_LargeArticleNumbers(t *testing.T) {
	input := "第一百零五条　内容甲。\n第一千二百三十四条　内容乙。"
	doc := NewParser().Parse(input)

	if doc.Articles[105] == nil {
		t.Errorf("article 105 not parsed: have %v", doc.ArticleNumbers())
	}
	if doc.Articles[1234] == nil {
		t.Errorf("article 1234 not parsed: have %v", doc.ArticleNumbers())
	}
}
