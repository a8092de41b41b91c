package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/coolbeans/statutediff/pkg/align"
)

// ToHTML generates a self-contained HTML comparison report with inline CSS.
// Modified articles are shown side by side with a character-level diff.
func (r *Report) ToHTML() string {
	var htmlBuilder strings.Builder

	stats := r.Comparison.Stats

	htmlBuilder.WriteString("<!DOCTYPE html>\n<html lang=\"zh\">\n<head>\n")
	htmlBuilder.WriteString("<meta charset=\"UTF-8\">\n")
	htmlBuilder.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	htmlBuilder.WriteString("<title>法规对比报告</title>\n")
	htmlBuilder.WriteString(comparisonHTMLStyles())
	htmlBuilder.WriteString("</head>\n<body>\n")

	// Header
	htmlBuilder.WriteString("<div class=\"container\">\n")
	htmlBuilder.WriteString("<div class=\"header\">\n")
	htmlBuilder.WriteString("<h1>法规对比报告</h1>\n")
	htmlBuilder.WriteString(fmt.Sprintf("<span class=\"badge\">%s</span>\n",
		html.EscapeString(r.Metadata.OldFile)))
	htmlBuilder.WriteString("<span class=\"arrow\">&rarr;</span>\n")
	htmlBuilder.WriteString(fmt.Sprintf("<span class=\"badge\">%s</span>\n",
		html.EscapeString(r.Metadata.NewFile)))
	htmlBuilder.WriteString("</div>\n\n")

	// Summary cards
	htmlBuilder.WriteString("<div class=\"stat-grid\">\n")
	summaryCards := []struct {
		label string
		count int
		color string
	}{
		{"未变更", stats.IdenticalCount, "#4caf50"},
		{"已修改", stats.ModifiedCount, "#ff9800"},
		{"新增", stats.AddedCount, "#2196f3"},
		{"删除", stats.DeletedCount, "#f44336"},
	}
	for _, summaryCard := range summaryCards {
		htmlBuilder.WriteString("<div class=\"stat-card\">\n")
		htmlBuilder.WriteString(fmt.Sprintf("<div class=\"stat-value\" style=\"color:%s\">%d</div>\n",
			summaryCard.color, summaryCard.count))
		htmlBuilder.WriteString(fmt.Sprintf("<div class=\"stat-label\">%s</div>\n", summaryCard.label))
		htmlBuilder.WriteString("</div>\n")
	}
	htmlBuilder.WriteString("</div>\n\n")

	// Document statistics
	htmlBuilder.WriteString("<div class=\"section\">\n")
	htmlBuilder.WriteString("<h2>文档概况</h2>\n")
	htmlBuilder.WriteString("<table>\n")
	htmlBuilder.WriteString("<tr><th></th><th>旧版本</th><th>新版本</th></tr>\n")
	htmlBuilder.WriteString(fmt.Sprintf("<tr><td>章</td><td>%d</td><td>%d</td></tr>\n",
		r.OldStats.TotalChapters, r.NewStats.TotalChapters))
	htmlBuilder.WriteString(fmt.Sprintf("<tr><td>节</td><td>%d</td><td>%d</td></tr>\n",
		r.OldStats.TotalSections, r.NewStats.TotalSections))
	htmlBuilder.WriteString(fmt.Sprintf("<tr><td>条</td><td>%d</td><td>%d</td></tr>\n",
		r.OldStats.TotalArticles, r.NewStats.TotalArticles))
	htmlBuilder.WriteString(fmt.Sprintf("<tr><td>匹配方式</td><td colspan=\"2\">手动 %d / 自动 %d</td></tr>\n",
		stats.ManualMatchCount, stats.AutoMatchCount))
	htmlBuilder.WriteString("</table>\n")
	htmlBuilder.WriteString("</div>\n\n")

	// Warnings
	if len(r.Comparison.Warnings) > 0 {
		htmlBuilder.WriteString("<div class=\"section\">\n")
		htmlBuilder.WriteString("<h2>警告</h2>\n")
		for _, warning := range r.Comparison.Warnings {
			htmlBuilder.WriteString(fmt.Sprintf("<div class=\"alert alert-warning\">%s</div>\n",
				html.EscapeString(warning)))
		}
		htmlBuilder.WriteString("</div>\n\n")
	}

	// Modified articles with side-by-side panels and a character diff
	if len(r.Comparison.Modified) > 0 {
		htmlBuilder.WriteString("<details class=\"section\" open>\n")
		htmlBuilder.WriteString("<summary><h2>已修改条文</h2></summary>\n")
		for _, modified := range r.Comparison.Modified {
			htmlBuilder.WriteString("<div class=\"article-card\">\n")
			htmlBuilder.WriteString("<div class=\"article-header\">\n")
			htmlBuilder.WriteString(fmt.Sprintf("<h3>%s &rarr; %s</h3>\n",
				articleLabel(modified.OldNumber), articleLabel(modified.NewNumber)))
			htmlBuilder.WriteString(fmt.Sprintf("<span class=\"similarity\">相似度 %s</span>\n",
				similarityPercent(modified.Similarity)))
			if modified.MatchType == align.MatchManual {
				htmlBuilder.WriteString("<span class=\"match-type\">手动匹配</span>\n")
			}
			htmlBuilder.WriteString("</div>\n")

			oldPlacement := formatChapterInfo(modified.OldChapterInfo)
			newPlacement := formatChapterInfo(modified.NewChapterInfo)
			htmlBuilder.WriteString("<div class=\"panel-pair\">\n")
			htmlBuilder.WriteString("<div class=\"panel panel-old\">\n")
			if oldPlacement != "" {
				htmlBuilder.WriteString(fmt.Sprintf("<div class=\"placement\">%s</div>\n",
					html.EscapeString(oldPlacement)))
			}
			htmlBuilder.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(modified.OldContent)))
			htmlBuilder.WriteString("</div>\n")
			htmlBuilder.WriteString("<div class=\"panel panel-new\">\n")
			if newPlacement != "" {
				htmlBuilder.WriteString(fmt.Sprintf("<div class=\"placement\">%s</div>\n",
					html.EscapeString(newPlacement)))
			}
			htmlBuilder.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(modified.NewContent)))
			htmlBuilder.WriteString("</div>\n")
			htmlBuilder.WriteString("</div>\n")

			htmlBuilder.WriteString("<div class=\"diff-view\">\n")
			htmlBuilder.WriteString(renderDiffHTML(modified.Diff))
			htmlBuilder.WriteString("\n</div>\n")

			htmlBuilder.WriteString("</div>\n")
		}
		htmlBuilder.WriteString("</details>\n\n")
	}

	// Added articles
	if len(r.Comparison.Added) > 0 {
		htmlBuilder.WriteString("<details class=\"section\" open>\n")
		htmlBuilder.WriteString("<summary><h2>新增条文</h2></summary>\n")
		for _, added := range r.Comparison.Added {
			writeArticleRecordHTML(&htmlBuilder, added, "panel-new")
		}
		htmlBuilder.WriteString("</details>\n\n")
	}

	// Deleted articles
	if len(r.Comparison.Deleted) > 0 {
		htmlBuilder.WriteString("<details class=\"section\" open>\n")
		htmlBuilder.WriteString("<summary><h2>删除条文</h2></summary>\n")
		for _, deleted := range r.Comparison.Deleted {
			writeArticleRecordHTML(&htmlBuilder, deleted, "panel-old")
		}
		htmlBuilder.WriteString("</details>\n\n")
	}

	// Unchanged articles, collapsed by default
	if len(r.Comparison.Identical) > 0 {
		htmlBuilder.WriteString("<details class=\"section\">\n")
		htmlBuilder.WriteString("<summary><h2>未变更条文</h2></summary>\n")
		htmlBuilder.WriteString("<table>\n")
		htmlBuilder.WriteString("<tr><th>旧条号</th><th>新条号</th><th>相似度</th></tr>\n")
		for _, identical := range r.Comparison.Identical {
			htmlBuilder.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				articleLabel(identical.OldNumber),
				articleLabel(identical.NewNumber),
				similarityPercent(identical.Similarity)))
		}
		htmlBuilder.WriteString("</table>\n")
		htmlBuilder.WriteString("</details>\n\n")
	}

	htmlBuilder.WriteString("</div>\n") // container
	htmlBuilder.WriteString("</body>\n</html>\n")

	return htmlBuilder.String()
}

// writeArticleRecordHTML renders one added or deleted article as a card.
func writeArticleRecordHTML(htmlBuilder *strings.Builder, record align.ArticleRecord, panelClass string) {
	htmlBuilder.WriteString("<div class=\"article-card\">\n")
	htmlBuilder.WriteString("<div class=\"article-header\">\n")
	htmlBuilder.WriteString(fmt.Sprintf("<h3>%s</h3>\n", articleLabel(record.ArticleNumber)))
	htmlBuilder.WriteString("</div>\n")
	htmlBuilder.WriteString(fmt.Sprintf("<div class=\"panel %s\">\n", panelClass))
	if placement := formatChapterInfo(record.ChapterInfo); placement != "" {
		htmlBuilder.WriteString(fmt.Sprintf("<div class=\"placement\">%s</div>\n",
			html.EscapeString(placement)))
	}
	htmlBuilder.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(record.Content)))
	htmlBuilder.WriteString("</div>\n")
	htmlBuilder.WriteString("</div>\n")
}

// renderDiffHTML turns diff segments into escaped HTML with inserted text
// wrapped in <ins> and deleted text in <del>.
func renderDiffHTML(segments []align.DiffSegment) string {
	var diffBuilder strings.Builder
	for _, segment := range segments {
		escaped := html.EscapeString(segment.Text)
		switch segment.Op {
		case align.DiffInsert:
			diffBuilder.WriteString("<ins>" + escaped + "</ins>")
		case align.DiffDelete:
			diffBuilder.WriteString("<del>" + escaped + "</del>")
		default:
			diffBuilder.WriteString(escaped)
		}
	}
	return diffBuilder.String()
}

// comparisonHTMLStyles returns the inline CSS <style> block used by HTML reports.
func comparisonHTMLStyles() string {
	return `<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", "PingFang SC", "Microsoft YaHei", sans-serif; background: #f5f5f5; color: #333; line-height: 1.8; }
.container { max-width: 1000px; margin: 20px auto; padding: 20px; }
.header { display: flex; align-items: center; gap: 12px; margin-bottom: 24px; flex-wrap: wrap; }
.header h1 { font-size: 24px; }
.badge { background: #e3f2fd; color: #1565c0; padding: 4px 12px; border-radius: 4px; font-size: 14px; font-weight: 600; }
.arrow { color: #757575; font-size: 18px; }
.stat-grid { display: grid; grid-template-columns: repeat(4, 1fr); gap: 12px; margin-bottom: 20px; }
.stat-card { background: white; border-radius: 8px; padding: 16px; text-align: center; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
.stat-value { font-size: 32px; font-weight: 700; }
.stat-label { color: #757575; font-size: 14px; margin-top: 4px; }
.section { background: white; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
.section h2 { font-size: 18px; margin-bottom: 16px; display: inline; }
.section summary { cursor: pointer; padding: 4px 0; }
table { width: 100%; border-collapse: collapse; margin: 12px 0; }
th, td { padding: 8px 12px; text-align: left; border-bottom: 1px solid #e0e0e0; }
th { background: #fafafa; font-weight: 600; font-size: 13px; color: #757575; }
td { font-size: 14px; }
.alert { padding: 10px 14px; border-radius: 4px; margin: 8px 0; font-size: 14px; }
.alert-warning { background: #fff8e1; color: #f57f17; border-left: 4px solid #ff9800; }
.article-card { background: #fafafa; border: 1px solid #e0e0e0; border-radius: 8px; padding: 16px; margin-bottom: 12px; }
.article-header { display: flex; align-items: center; gap: 12px; margin-bottom: 12px; }
.article-header h3 { font-size: 16px; }
.similarity { color: #757575; font-size: 14px; }
.match-type { background: #ede7f6; color: #4527a0; padding: 2px 8px; border-radius: 4px; font-size: 12px; font-weight: 600; }
.panel-pair { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; margin-bottom: 12px; }
.panel { border-radius: 6px; padding: 12px; font-size: 14px; }
.panel-old { background: #ffebee; }
.panel-new { background: #e8f5e9; }
.placement { color: #757575; font-size: 12px; margin-bottom: 6px; }
.diff-view { background: white; border: 1px solid #e0e0e0; border-radius: 6px; padding: 12px; font-size: 14px; }
.diff-view ins { background: #c8e6c9; text-decoration: none; }
.diff-view del { background: #ffcdd2; }
details { border: none; }
details summary { list-style: none; }
details summary::-webkit-details-marker { display: none; }
details[open] summary h2::after { content: " -"; }
details:not([open]) summary h2::after { content: " +"; }
</style>
`
}
