package align

import (
	"testing"

	"github.com/coolbeans/statutediff/pkg/statute"
)

// testDocument builds a Document directly from article contents.
func testDocument(contents map[int]string) *statute.Document {
	doc := &statute.Document{
		Chapters: make(map[int]*statute.Chapter),
		Sections: make(map[int]*statute.Section),
		Articles: make(map[int]*statute.Article),
	}
	for number, content := range contents {
		doc.Articles[number] = &statute.Article{
			Number:   number,
			Content:  content,
			FullText: content,
		}
	}
	doc.Stats.TotalArticles = len(doc.Articles)
	return doc
}

func TestAlign_ManualPrecedenceOverLowSimilarity(t *testing.T) {
	oldDoc := testDocument(map[int]string{5: "甲甲甲甲甲甲甲甲"})
	newDoc := testDocument(map[int]string{9: "乙乙乙乙乙乙乙乙"})

	result := NewAligner().Align(oldDoc, newDoc, []ManualMatch{{OldNumber: 5, NewNumber: 9}})

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	entry := result.Entries[0]
	if entry.MatchType != MatchManual || entry.OldNumber != 5 || entry.NewNumber != 9 {
		t.Errorf("entry = %+v, want manual 5→9", entry)
	}
	if entry.Similarity > 0.1 {
		t.Errorf("similarity = %v, expected near zero for disjoint texts", entry.Similarity)
	}
	if len(result.Added) != 0 {
		t.Errorf("manually matched article must not also be added: %v", result.Added)
	}
	if result.ManualCount != 1 {
		t.Errorf("manual count = %d, want 1", result.ManualCount)
	}
}

func TestAlign_ManualMatchMissingArticleWarns(t *testing.T) {
	oldDoc := testDocument(map[int]string{1: "内容一。"})
	newDoc := testDocument(map[int]string{1: "内容一。"})

	result := NewAligner().Align(oldDoc, newDoc, []ManualMatch{{OldNumber: 7, NewNumber: 1}})

	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
	// Processing continues: article 1 still auto-matches.
	if result.AutoCount != 1 {
		t.Errorf("auto count = %d, want 1", result.AutoCount)
	}
}

func TestAlign_ThresholdBoundary(t *testing.T) {
	// Ratio("abcd", "abcdxy") is exactly 0.8.
	oldDoc := testDocument(map[int]string{1: "abcd"})
	newDoc := testDocument(map[int]string{1: "abcdxy"})

	atThreshold := NewAligner(WithThreshold(0.8)).Align(oldDoc, newDoc, nil)
	if atThreshold.Entries[0].MatchType != MatchAuto {
		t.Errorf("similarity exactly at threshold must match, got %+v", atThreshold.Entries[0])
	}

	aboveThreshold := NewAligner(WithThreshold(0.81)).Align(oldDoc, newDoc, nil)
	entry := aboveThreshold.Entries[0]
	if entry.MatchType != MatchNone || entry.NewNumber != -1 {
		t.Errorf("similarity below threshold must not match, got %+v", entry)
	}
	if len(aboveThreshold.Added) != 1 || aboveThreshold.Added[0] != 1 {
		t.Errorf("unmatched candidate must be reported added, got %v", aboveThreshold.Added)
	}
}

func TestAlign_RejectedCandidateStaysEligible(t *testing.T) {
	// Old article 1 is too dissimilar to claim the candidate, which must
	// remain available for old article 2.
	oldDoc := testDocument(map[int]string{
		1: "完全不同的文本内容。",
		2: "机动车应当遵守交通信号。",
	})
	newDoc := testDocument(map[int]string{
		1: "机动车应当遵守交通信号灯。",
	})

	result := NewAligner(WithThreshold(0.8)).Align(oldDoc, newDoc, nil)

	var matched *Entry
	for i := range result.Entries {
		if result.Entries[i].OldNumber == 2 {
			matched = &result.Entries[i]
		}
	}
	if matched == nil || matched.MatchType != MatchAuto || matched.NewNumber != 1 {
		t.Errorf("old article 2 should claim new article 1: %+v", result.Entries)
	}
}

func TestAlign_TieBreaksOnLowestNewNumber(t *testing.T) {
	// Both new articles are identical; the lower number wins.
	oldDoc := testDocument(map[int]string{1: "相同的条文内容。"})
	newDoc := testDocument(map[int]string{
		4: "相同的条文内容。",
		2: "相同的条文内容。",
	})

	result := NewAligner().Align(oldDoc, newDoc, nil)

	if result.Entries[0].NewNumber != 2 {
		t.Errorf("tie must break to lowest new number, got %d", result.Entries[0].NewNumber)
	}
}

func TestAlign_PartialBijection(t *testing.T) {
	oldDoc := testDocument(map[int]string{
		1: "禁止在公共场所吸烟。",
		2: "违反规定的处以罚款。",
		3: "本条例自公布之日起施行。",
		4: "独有的旧条文内容。",
	})
	newDoc := testDocument(map[int]string{
		1: "禁止在公共场所吸烟。",
		2: "违反规定的处以罚款。",
		5: "本条例自公布之日起施行。",
		9: "全新增加的条文内容。",
	})

	result := NewAligner(WithThreshold(0.8)).Align(oldDoc, newDoc,
		[]ManualMatch{{OldNumber: 3, NewNumber: 5}})

	seenOld := make(map[int]bool)
	seenNew := make(map[int]bool)
	for _, entry := range result.Entries {
		if seenOld[entry.OldNumber] {
			t.Errorf("old number %d consumed twice", entry.OldNumber)
		}
		seenOld[entry.OldNumber] = true
		if entry.NewNumber == -1 {
			continue
		}
		if seenNew[entry.NewNumber] {
			t.Errorf("new number %d consumed twice", entry.NewNumber)
		}
		seenNew[entry.NewNumber] = true
	}

	for _, added := range result.Added {
		if seenNew[added] {
			t.Errorf("added article %d also appears in a matched entry", added)
		}
	}

	if result.ManualCount != 1 || result.AutoCount != 2 {
		t.Errorf("counts = manual %d auto %d, want 1/2", result.ManualCount, result.AutoCount)
	}
	if len(result.Added) != 1 || result.Added[0] != 9 {
		t.Errorf("added = %v, want [9]", result.Added)
	}
}

func TestAlign_EmptyDocuments(t *testing.T) {
	oldDoc := testDocument(map[int]string{1: "条文内容一。", 2: "条文内容二。"})
	empty := testDocument(nil)

	allDeleted := NewAligner().Align(oldDoc, empty, nil)
	for _, entry := range allDeleted.Entries {
		if entry.NewNumber != -1 || entry.MatchType != MatchNone {
			t.Errorf("expected deleted entry, got %+v", entry)
		}
	}
	if len(allDeleted.Added) != 0 {
		t.Errorf("no additions expected, got %v", allDeleted.Added)
	}

	allAdded := NewAligner().Align(empty, oldDoc, nil)
	if len(allAdded.Entries) != 0 {
		t.Errorf("no entries expected, got %+v", allAdded.Entries)
	}
	if len(allAdded.Added) != 2 {
		t.Errorf("added = %v, want both articles", allAdded.Added)
	}
}

func TestAlign_Deterministic(t *testing.T) {
	oldDoc := testDocument(map[int]string{
		3: "条文内容甲。", 1: "条文内容乙。", 2: "条文内容丙。",
	})
	newDoc := testDocument(map[int]string{
		2: "条文内容甲。", 3: "条文内容乙。", 1: "条文内容丙。",
	})

	first := NewAligner().Align(oldDoc, newDoc, nil)
	for i := 0; i < 10; i++ {
		again := NewAligner().Align(oldDoc, newDoc, nil)
		if len(again.Entries) != len(first.Entries) {
			t.Fatalf("entry count changed between runs")
		}
		for j := range first.Entries {
			if again.Entries[j] != first.Entries[j] {
				t.Fatalf("run %d entry %d = %+v, want %+v", i, j, again.Entries[j], first.Entries[j])
			}
		}
	}
}

func TestCompare_ClassifiesIdenticalModifiedAddedDeleted(t *testing.T) {
	oldDoc := testDocument(map[int]string{
		1: "禁止吸烟。",
		2: "罚款一百元。",
		3: "本条例自公布之日起施行。",
	})
	newDoc := testDocument(map[int]string{
		1: "禁止吸烟。",
		2: "罚款二百元。",
		9: "新增加的监督检查条款。",
	})

	comparison := NewAligner(WithThreshold(0.8)).Compare(oldDoc, newDoc, nil)

	if len(comparison.Identical) != 1 || comparison.Identical[0].OldNumber != 1 {
		t.Errorf("identical = %+v", comparison.Identical)
	}
	if len(comparison.Modified) != 1 || comparison.Modified[0].NewNumber != 2 {
		t.Errorf("modified = %+v", comparison.Modified)
	}
	if len(comparison.Modified) == 1 && len(comparison.Modified[0].Diff) == 0 {
		t.Error("modified entry is missing its diff annotation")
	}
	if len(comparison.Deleted) != 1 || comparison.Deleted[0].ArticleNumber != 3 {
		t.Errorf("deleted = %+v", comparison.Deleted)
	}
	if len(comparison.Added) != 1 || comparison.Added[0].ArticleNumber != 9 {
		t.Errorf("added = %+v", comparison.Added)
	}
	if comparison.Mapping[1] != 1 || comparison.Mapping[2] != 2 {
		t.Errorf("mapping = %v", comparison.Mapping)
	}

	stats := comparison.Stats
	if stats.IdenticalCount != 1 || stats.ModifiedCount != 1 || stats.AddedCount != 1 || stats.DeletedCount != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalArticlesOld != 3 || stats.TotalArticlesNew != 3 {
		t.Errorf("totals = %+v", stats)
	}
}

func TestCompare_EndToEndScenario(t *testing.T) {
	// A one-character amendment and a wholly rewritten provision. With the
	// threshold below both pair similarities everything matches as
	// modified; with a high threshold the alignment degrades to
	// deleted/added without error.
	oldDoc := testDocument(map[int]string{
		1: "禁止吸烟。",
		2: "罚款一百元。",
	})
	newDoc := testDocument(map[int]string{
		1: "禁止吸烟和饮酒。",
		3: "罚款二百元。",
	})

	comparison := NewAligner(WithThreshold(0.7)).Compare(oldDoc, newDoc, nil)

	if len(comparison.Modified) != 2 {
		t.Fatalf("modified = %+v, want articles 1 and 2", comparison.Modified)
	}
	first := comparison.Modified[0]
	if first.OldNumber != 1 || first.NewNumber != 1 {
		t.Errorf("first modified pair = %d→%d, want 1→1", first.OldNumber, first.NewNumber)
	}
	if first.Similarity >= IdenticalSimilarityFloor || first.Similarity < 0.7 {
		t.Errorf("similarity = %v, want high but below the identical floor", first.Similarity)
	}

	strict := NewAligner(WithThreshold(0.9)).Compare(oldDoc, newDoc, nil)
	if len(strict.Deleted) != 2 || len(strict.Added) != 2 {
		t.Errorf("strict threshold: deleted=%d added=%d, want 2/2",
			len(strict.Deleted), len(strict.Added))
	}
}

func TestClassify_ManualMatchBelowIdenticalFloorIsModified(t *testing.T) {
	oldDoc := testDocument(map[int]string{5: "旧的条文内容。"})
	newDoc := testDocument(map[int]string{9: "新的条文内容。"})

	comparison := NewAligner().Compare(oldDoc, newDoc, []ManualMatch{{OldNumber: 5, NewNumber: 9}})

	if len(comparison.Modified) != 1 {
		t.Fatalf("modified = %+v", comparison.Modified)
	}
	modified := comparison.Modified[0]
	if modified.MatchType != MatchManual {
		t.Errorf("match type = %q, want manual", modified.MatchType)
	}
	if len(comparison.Deleted) != 0 || len(comparison.Added) != 0 {
		t.Errorf("manual pair must never appear deleted/added: %+v / %+v",
			comparison.Deleted, comparison.Added)
	}
}
