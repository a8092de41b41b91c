package report

import (
	"fmt"
	"strings"

	"github.com/coolbeans/statutediff/pkg/align"
)

// ToMarkdown converts the report into a GitHub-flavored Markdown document.
func (r *Report) ToMarkdown() string {
	var sb strings.Builder

	stats := r.Comparison.Stats

	sb.WriteString(fmt.Sprintf("# 法规对比报告：%s → %s\n\n", r.Metadata.OldFile, r.Metadata.NewFile))

	// Summary
	sb.WriteString("## 对比概要\n\n")
	sb.WriteString("| 分类 | 数量 |\n")
	sb.WriteString("|------|------|\n")
	sb.WriteString(fmt.Sprintf("| 未变更 | %d |\n", stats.IdenticalCount))
	sb.WriteString(fmt.Sprintf("| 已修改 | %d |\n", stats.ModifiedCount))
	sb.WriteString(fmt.Sprintf("| 新增 | %d |\n", stats.AddedCount))
	sb.WriteString(fmt.Sprintf("| 删除 | %d |\n\n", stats.DeletedCount))

	sb.WriteString(fmt.Sprintf("- **旧版本：** %d 章 / %d 节 / %d 条\n",
		r.OldStats.TotalChapters, r.OldStats.TotalSections, r.OldStats.TotalArticles))
	sb.WriteString(fmt.Sprintf("- **新版本：** %d 章 / %d 节 / %d 条\n",
		r.NewStats.TotalChapters, r.NewStats.TotalSections, r.NewStats.TotalArticles))
	sb.WriteString(fmt.Sprintf("- **匹配方式：** 手动 %d | 自动 %d\n\n",
		stats.ManualMatchCount, stats.AutoMatchCount))

	if len(r.Comparison.Warnings) > 0 {
		sb.WriteString("## 警告\n\n")
		for _, warning := range r.Comparison.Warnings {
			sb.WriteString(fmt.Sprintf("> ⚠️ %s\n", warning))
		}
		sb.WriteString("\n")
	}

	if len(r.Comparison.Modified) > 0 {
		sb.WriteString("## 已修改条文\n\n")
		for _, modified := range r.Comparison.Modified {
			sb.WriteString(fmt.Sprintf("### %s → %s（相似度 %s）\n\n",
				articleLabel(modified.OldNumber),
				articleLabel(modified.NewNumber),
				similarityPercent(modified.Similarity)))
			if modified.MatchType == align.MatchManual {
				sb.WriteString("*手动匹配*\n\n")
			}
			if placement := formatChapterInfo(modified.OldChapterInfo); placement != "" {
				sb.WriteString(fmt.Sprintf("旧版位置：%s\n\n", placement))
			}
			sb.WriteString("**旧版：**\n\n")
			sb.WriteString(fmt.Sprintf("> %s\n\n", modified.OldContent))
			if placement := formatChapterInfo(modified.NewChapterInfo); placement != "" {
				sb.WriteString(fmt.Sprintf("新版位置：%s\n\n", placement))
			}
			sb.WriteString("**新版：**\n\n")
			sb.WriteString(fmt.Sprintf("> %s\n\n", modified.NewContent))
		}
	}

	if len(r.Comparison.Added) > 0 {
		sb.WriteString("## 新增条文\n\n")
		for _, added := range r.Comparison.Added {
			writeArticleRecordMarkdown(&sb, added)
		}
	}

	if len(r.Comparison.Deleted) > 0 {
		sb.WriteString("## 删除条文\n\n")
		for _, deleted := range r.Comparison.Deleted {
			writeArticleRecordMarkdown(&sb, deleted)
		}
	}

	if len(r.Comparison.Identical) > 0 {
		sb.WriteString("## 未变更条文\n\n")
		sb.WriteString("| 旧条号 | 新条号 | 相似度 |\n")
		sb.WriteString("|--------|--------|--------|\n")
		for _, identical := range r.Comparison.Identical {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				articleLabel(identical.OldNumber),
				articleLabel(identical.NewNumber),
				similarityPercent(identical.Similarity)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// writeArticleRecordMarkdown renders one added or deleted article.
func writeArticleRecordMarkdown(sb *strings.Builder, record align.ArticleRecord) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", articleLabel(record.ArticleNumber)))
	if placement := formatChapterInfo(record.ChapterInfo); placement != "" {
		sb.WriteString(fmt.Sprintf("位置：%s\n\n", placement))
	}
	sb.WriteString(fmt.Sprintf("> %s\n\n", record.Content))
}
