package align

import (
	"sort"

	"github.com/coolbeans/statutediff/pkg/statute"
)

// ChapterInfo carries the resolved chapter/section placement of an article,
// looked up by number against its owning document. Numbers are nil for
// articles outside any chapter or section.
type ChapterInfo struct {
	ChapterNumber *int   `json:"chapter_num,omitempty"`
	ChapterTitle  string `json:"chapter_title,omitempty"`
	SectionNumber *int   `json:"section_num,omitempty"`
	SectionTitle  string `json:"section_title,omitempty"`
}

// MatchedArticle is a pair classified as identical (similarity at or above
// IdenticalSimilarityFloor).
type MatchedArticle struct {
	OldNumber  int       `json:"old_number"`
	NewNumber  int       `json:"new_number"`
	Content    string    `json:"content"`
	Similarity float64   `json:"similarity"`
	MatchType  MatchType `json:"match_type"`
}

// ModifiedArticle is a matched pair whose text changed. Diff holds the
// span-level insert/delete annotation; how it is presented is the
// renderer's concern.
type ModifiedArticle struct {
	OldNumber      int           `json:"old_number"`
	NewNumber      int           `json:"new_number"`
	OldContent     string        `json:"old_content"`
	NewContent     string        `json:"new_content"`
	Similarity     float64       `json:"similarity"`
	MatchType      MatchType     `json:"match_type"`
	OldChapterInfo ChapterInfo   `json:"old_chapter_info"`
	NewChapterInfo ChapterInfo   `json:"new_chapter_info"`
	Diff           []DiffSegment `json:"diff"`
}

// ArticleRecord is an article that exists in only one version: deleted from
// the old document or added in the new one.
type ArticleRecord struct {
	ArticleNumber int         `json:"article_number"`
	Content       string      `json:"content"`
	ChapterInfo   ChapterInfo `json:"chapter_info"`
}

// Statistics aggregates the comparison outcome.
type Statistics struct {
	TotalArticlesOld int `json:"total_articles_v1"`
	TotalArticlesNew int `json:"total_articles_v2"`
	IdenticalCount   int `json:"identical_count"`
	ModifiedCount    int `json:"modified_count"`
	AddedCount       int `json:"new_count"`
	DeletedCount     int `json:"deleted_count"`
	ManualMatchCount int `json:"manual_matches_count"`
	AutoMatchCount   int `json:"auto_matches_count"`
}

// Comparison is the fully classified alignment of two statute versions,
// with article content and resolved chapter/section titles attached. This
// is the structure handed to report renderers; it is built once per call
// and never mutated.
type Comparison struct {
	Identical []MatchedArticle  `json:"identical"`
	Modified  []ModifiedArticle `json:"modified"`
	Added     []ArticleRecord   `json:"new"`
	Deleted   []ArticleRecord   `json:"deleted"`
	Mapping   map[int]int       `json:"mapping"`
	Warnings  []string          `json:"warnings,omitempty"`
	Stats     Statistics        `json:"statistics"`
}

// Compare aligns the two documents and classifies every article. It is the
// one-call form of Align followed by Classify.
func (a *Aligner) Compare(oldDoc, newDoc *statute.Document, manual []ManualMatch) *Comparison {
	return Classify(oldDoc, newDoc, a.Align(oldDoc, newDoc, manual))
}

// Classify turns a raw alignment Result into a Comparison: matched pairs
// split into identical and modified (with diff annotations), unmatched old
// articles become deleted records, and the result's Added numbers become
// added records. All lists are sorted for deterministic output.
func Classify(oldDoc, newDoc *statute.Document, result *Result) *Comparison {
	comparison := &Comparison{
		Identical: []MatchedArticle{},
		Modified:  []ModifiedArticle{},
		Added:     []ArticleRecord{},
		Deleted:   []ArticleRecord{},
		Mapping:   make(map[int]int),
		Warnings:  result.Warnings,
	}

	for _, entry := range result.Entries {
		if entry.NewNumber == -1 {
			article := oldDoc.Articles[entry.OldNumber]
			comparison.Deleted = append(comparison.Deleted, ArticleRecord{
				ArticleNumber: entry.OldNumber,
				Content:       article.Content,
				ChapterInfo:   resolveChapterInfo(oldDoc, article),
			})
			continue
		}

		comparison.Mapping[entry.OldNumber] = entry.NewNumber
		oldArticle := oldDoc.Articles[entry.OldNumber]
		newArticle := newDoc.Articles[entry.NewNumber]

		if entry.Similarity >= IdenticalSimilarityFloor {
			comparison.Identical = append(comparison.Identical, MatchedArticle{
				OldNumber:  entry.OldNumber,
				NewNumber:  entry.NewNumber,
				Content:    oldArticle.Content,
				Similarity: entry.Similarity,
				MatchType:  entry.MatchType,
			})
			continue
		}

		comparison.Modified = append(comparison.Modified, ModifiedArticle{
			OldNumber:      entry.OldNumber,
			NewNumber:      entry.NewNumber,
			OldContent:     oldArticle.Content,
			NewContent:     newArticle.Content,
			Similarity:     entry.Similarity,
			MatchType:      entry.MatchType,
			OldChapterInfo: resolveChapterInfo(oldDoc, oldArticle),
			NewChapterInfo: resolveChapterInfo(newDoc, newArticle),
			Diff:           DiffSegments(oldArticle.Content, newArticle.Content),
		})
	}

	for _, newNumber := range result.Added {
		article := newDoc.Articles[newNumber]
		comparison.Added = append(comparison.Added, ArticleRecord{
			ArticleNumber: newNumber,
			Content:       article.Content,
			ChapterInfo:   resolveChapterInfo(newDoc, article),
		})
	}

	sort.Slice(comparison.Identical, func(i, j int) bool {
		return comparison.Identical[i].OldNumber < comparison.Identical[j].OldNumber
	})
	sort.Slice(comparison.Modified, func(i, j int) bool {
		return comparison.Modified[i].OldNumber < comparison.Modified[j].OldNumber
	})
	sort.Slice(comparison.Added, func(i, j int) bool {
		return comparison.Added[i].ArticleNumber < comparison.Added[j].ArticleNumber
	})
	sort.Slice(comparison.Deleted, func(i, j int) bool {
		return comparison.Deleted[i].ArticleNumber < comparison.Deleted[j].ArticleNumber
	})

	comparison.Stats = Statistics{
		TotalArticlesOld: len(oldDoc.Articles),
		TotalArticlesNew: len(newDoc.Articles),
		IdenticalCount:   len(comparison.Identical),
		ModifiedCount:    len(comparison.Modified),
		AddedCount:       len(comparison.Added),
		DeletedCount:     len(comparison.Deleted),
		ManualMatchCount: result.ManualCount,
		AutoMatchCount:   result.AutoCount,
	}

	return comparison
}

// resolveChapterInfo looks up an article's chapter and section titles in
// its owning document.
func resolveChapterInfo(doc *statute.Document, article *statute.Article) ChapterInfo {
	info := ChapterInfo{}
	if chapter := doc.ChapterOf(article); chapter != nil {
		number := chapter.Number
		info.ChapterNumber = &number
		info.ChapterTitle = chapter.Title
	}
	if section := doc.SectionOf(article); section != nil {
		number := section.Number
		info.SectionNumber = &number
		info.SectionTitle = section.Title
	}
	return info
}
