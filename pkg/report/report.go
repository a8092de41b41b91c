// Package report renders a classified statute comparison as JSON, HTML, or
// Markdown. The comparison data itself comes fully resolved from the align
// package; rendering here is purely presentational.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/coolbeans/statutediff/pkg/align"
	"github.com/coolbeans/statutediff/pkg/statute"
)

// Metadata identifies the two compared source files.
type Metadata struct {
	OldFile string `json:"law1_file"`
	NewFile string `json:"law2_file"`
}

// Report bundles a comparison with the parse statistics of both versions.
type Report struct {
	Metadata   Metadata          `json:"metadata"`
	Comparison *align.Comparison `json:"comparison_result"`
	OldStats   statute.Stats     `json:"law1_metadata"`
	NewStats   statute.Stats     `json:"law2_metadata"`
}

// New assembles a Report. Only the base names of the source paths are kept.
func New(comparison *align.Comparison, oldDoc, newDoc *statute.Document, oldFile, newFile string) *Report {
	return &Report{
		Metadata: Metadata{
			OldFile: filepath.Base(oldFile),
			NewFile: filepath.Base(newFile),
		},
		Comparison: comparison,
		OldStats:   oldDoc.Stats,
		NewStats:   newDoc.Stats,
	}
}

// ToJSON renders the report as indented JSON.
func (r *Report) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	return string(data), nil
}

// similarityPercent formats a similarity ratio for display.
func similarityPercent(similarity float64) string {
	return fmt.Sprintf("%.1f%%", similarity*100)
}

// articleLabel formats an article number the way statutes cite it.
func articleLabel(number int) string {
	return fmt.Sprintf("第%d条", number)
}

// formatChapterInfo renders an article's resolved placement, e.g.
// 第2章《管理规定》 - 第1节《一般规定》. Returns "" when the article sits
// outside any chapter.
func formatChapterInfo(info align.ChapterInfo) string {
	if info.ChapterNumber == nil {
		return ""
	}
	formatted := fmt.Sprintf("第%d章", *info.ChapterNumber)
	if info.ChapterTitle != "" {
		formatted += fmt.Sprintf("《%s》", info.ChapterTitle)
	}
	if info.SectionNumber != nil {
		formatted += fmt.Sprintf(" - 第%d节", *info.SectionNumber)
		if info.SectionTitle != "" {
			formatted += fmt.Sprintf("《%s》", info.SectionTitle)
		}
	}
	return formatted
}
