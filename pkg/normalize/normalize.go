// Package normalize repairs line-wrapping damage in copy-pasted statute text
// and normalizes punctuation ahead of structural parsing. Statute sources
// copied out of PDFs arrive with mid-sentence line breaks and a mix of ASCII
// and full-width punctuation; both passes here run before any header pattern
// matching.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// enumeratorPattern matches sub-item enumerator tokens like （一）, (2),
	// or （十三） at the start of a line. Lines opening with an enumerator
	// begin a new logical segment and are never merged into.
	enumeratorPattern = regexp.MustCompile(`^[\(（][一二三四五六七八九十百千万零\d]+[\)）]`)

	// terminalPunctuationPattern matches a sentence-ending or clause-ending
	// mark (full-width or ASCII) at the end of a line.
	terminalPunctuationPattern = regexp.MustCompile(`[。，；：！？、.;:!?]$`)

	// bareHeaderPattern matches a structural token with no title or content
	// after it, a stray page-header fragment like 第二章 on its own line.
	// Merging one forward would fabricate a header that the source never
	// had, so these lines stay put for the parser to skip.
	bareHeaderPattern = regexp.MustCompile(`^第[一二三四五六七八九十百千零]+[章节条]$`)
)

// terminalSuffixes are the sentence-ending marks after which a line is
// considered complete and is never merged into its successor.
var terminalSuffixes = []string{".", "。", ";", "；", ":", "：", "!", "！", "?", "？"}

// commaSuffixes are the comma-class separators after which a line is
// certainly mid-sentence and is always merged with its successor.
var commaSuffixes = []string{",", "，", "、"}

// structuralPrefixes are line openings that indicate a structural header or
// a new logical segment; a line starting with one of these is never absorbed
// into the previous line.
var structuralPrefixes = []string{"(", "（", "第", "条", "章", "节"}

// RepairLineBreaks merges lines that were split mid-sentence by the source
// document's layout. It scans consecutive non-blank lines and keeps merging
// line N+1 into line N while ShouldMergeLines holds, so a sentence wrapped
// across three or four physical lines collapses back into one. Blank lines
// are hard boundaries and are dropped from the output.
func RepairLineBreaks(text string) string {
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	var repaired []string

	for i := 0; i < len(lines); i++ {
		current := strings.TrimSpace(lines[i])
		if current == "" {
			continue
		}

		for i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next == "" {
				break
			}
			if !ShouldMergeLines(current, next) {
				break
			}
			current = current + next
			i++
		}

		repaired = append(repaired, current)
	}

	return strings.Join(repaired, "\n")
}

// ShouldMergeLines reports whether next is the continuation of current and
// the two should be joined into one logical line.
func ShouldMergeLines(current, next string) bool {
	// A completed sentence or clause stays on its own line.
	for _, suffix := range terminalSuffixes {
		if strings.HasSuffix(current, suffix) {
			return false
		}
	}

	// A bare structural fragment is a layout artifact, not a wrapped
	// sentence.
	if bareHeaderPattern.MatchString(current) {
		return false
	}

	// Structural headers and enumerated sub-items start fresh lines.
	for _, prefix := range structuralPrefixes {
		if strings.HasPrefix(next, prefix) {
			return false
		}
	}
	if enumeratorPattern.MatchString(next) {
		return false
	}

	// A trailing comma-class separator means the sentence continues.
	for _, suffix := range commaSuffixes {
		if strings.HasSuffix(current, suffix) {
			return true
		}
	}

	// No terminal punctuation at all: the line was wrapped mid-sentence.
	if !terminalPunctuationPattern.MatchString(current) {
		return true
	}

	return false
}

// punctuationMap maps ASCII punctuation to its full-width equivalent.
// Quotes are unified to the Chinese curly forms and angle brackets become
// title marks, matching typeset statute text.
var punctuationMap = map[rune]rune{
	',': '，',
	'.': '。',
	';': '；',
	':': '：',
	'?': '？',
	'!': '！',
	'(': '（',
	')': '）',
	'[': '［',
	']': '］',
	'{': '｛',
	'}': '｝',
	'<': '《',
	'>': '》',
	'«': '《',
	'»': '》',
	'"': '“',
	'\'': '‘',
}

// NormalizePunctuation converts ASCII punctuation to full-width equivalents
// and strips all whitespace within each line. A period immediately following
// a digit is preserved as-is: it marks a numeric list item (1. 2. 3.), not a
// sentence end. Line structure is untouched, so segments produced by
// RepairLineBreaks stay separate. The pass is idempotent.
func NormalizePunctuation(text string) string {
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for lineIndex, line := range lines {
		lines[lineIndex] = normalizeLine(line)
	}
	return strings.Join(lines, "\n")
}

// normalizeLine applies the punctuation mapping and whitespace stripping to
// a single line.
func normalizeLine(line string) string {
	var builder strings.Builder
	builder.Grow(len(line))

	var previous rune
	for _, char := range line {
		if unicode.IsSpace(char) {
			continue
		}

		if char == '.' && previous >= '0' && previous <= '9' {
			// Numeric list marker, e.g. "1.", keeps the ASCII period.
			builder.WriteRune(char)
			previous = char
			continue
		}

		if replacement, ok := punctuationMap[char]; ok {
			builder.WriteRune(replacement)
			previous = replacement
			continue
		}

		builder.WriteRune(char)
		previous = char
	}

	return builder.String()
}

// Normalize chains both passes: line-break repair first, then punctuation
// normalization. This is the form handed to the structural parser.
func Normalize(text string) string {
	return NormalizePunctuation(RepairLineBreaks(text))
}
