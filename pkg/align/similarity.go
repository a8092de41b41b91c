package align

import "sort"

// Ratio computes the Ratcliff/Obershelp similarity between two strings over
// their raw rune sequences: twice the total length of all matching blocks
// divided by the combined length. The measure is symmetric and ranges over
// [0,1], with 1.0 for identical inputs. It is defined as 0 when either input
// is empty. Statute articles are short, so no junk filtering is applied.
func Ratio(oldText, newText string) float64 {
	if oldText == "" || newText == "" {
		return 0.0
	}

	matcher := newSequenceMatcher([]rune(oldText), []rune(newText))
	matched := 0
	for _, block := range matcher.matchingBlocks() {
		matched += block.size
	}
	return 2.0 * float64(matched) / float64(len(matcher.a)+len(matcher.b))
}

// DiffOp labels a diff segment as unchanged, inserted, or deleted text.
type DiffOp string

const (
	// DiffEqual marks text present in both versions.
	DiffEqual DiffOp = "equal"
	// DiffInsert marks text present only in the new version.
	DiffInsert DiffOp = "insert"
	// DiffDelete marks text present only in the old version.
	DiffDelete DiffOp = "delete"
)

// DiffSegment is one span of a character-level diff between two article
// texts. Renderers turn these into highlighted output; the segment data
// itself is presentation-free.
type DiffSegment struct {
	Op   DiffOp `json:"op"`
	Text string `json:"text"`
}

// DiffSegments computes the span-level diff between two texts using the
// same matching-block engine that drives Ratio. Replaced spans decompose
// into a delete segment followed by an insert segment.
func DiffSegments(oldText, newText string) []DiffSegment {
	oldRunes := []rune(oldText)
	newRunes := []rune(newText)
	matcher := newSequenceMatcher(oldRunes, newRunes)

	var segments []DiffSegment
	oldPos, newPos := 0, 0
	for _, block := range matcher.matchingBlocks() {
		if oldPos < block.a {
			segments = append(segments, DiffSegment{Op: DiffDelete, Text: string(oldRunes[oldPos:block.a])})
		}
		if newPos < block.b {
			segments = append(segments, DiffSegment{Op: DiffInsert, Text: string(newRunes[newPos:block.b])})
		}
		if block.size > 0 {
			segments = append(segments, DiffSegment{Op: DiffEqual, Text: string(oldRunes[block.a : block.a+block.size])})
		}
		oldPos = block.a + block.size
		newPos = block.b + block.size
	}
	return segments
}

// matchingBlock is a maximal run of runes common to both sequences:
// a[a:a+size] == b[b:b+size].
type matchingBlock struct {
	a, b, size int
}

// sequenceMatcher finds matching blocks between two rune sequences using
// the recursive longest-matching-block strategy.
type sequenceMatcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newSequenceMatcher(a, b []rune) *sequenceMatcher {
	b2j := make(map[rune][]int, len(b))
	for j, char := range b {
		b2j[char] = append(b2j[char], j)
	}
	return &sequenceMatcher{a: a, b: b, b2j: b2j}
}

// findLongestMatch returns the longest matching block within
// a[alo:ahi] and b[blo:bhi]. Of all maximal blocks it prefers the one
// starting earliest in a, then earliest in b, which keeps the overall
// decomposition deterministic.
func (m *sequenceMatcher) findLongestMatch(alo, ahi, blo, bhi int) matchingBlock {
	bestA, bestB, bestSize := alo, blo, 0
	lengths := map[int]int{}

	for i := alo; i < ahi; i++ {
		newLengths := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := lengths[j-1] + 1
			newLengths[j] = k
			if k > bestSize {
				bestA, bestB, bestSize = i-k+1, j-k+1, k
			}
		}
		lengths = newLengths
	}

	return matchingBlock{a: bestA, b: bestB, size: bestSize}
}

// matchingBlocks returns all matching blocks in order, ending with a
// zero-length sentinel block at (len(a), len(b)). Adjacent blocks are
// coalesced.
func (m *sequenceMatcher) matchingBlocks() []matchingBlock {
	type span struct {
		alo, ahi, blo, bhi int
	}

	queue := []span{{0, len(m.a), 0, len(m.b)}}
	var found []matchingBlock

	for len(queue) > 0 {
		region := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		block := m.findLongestMatch(region.alo, region.ahi, region.blo, region.bhi)
		if block.size == 0 {
			continue
		}
		found = append(found, block)
		if region.alo < block.a && region.blo < block.b {
			queue = append(queue, span{region.alo, block.a, region.blo, block.b})
		}
		if block.a+block.size < region.ahi && block.b+block.size < region.bhi {
			queue = append(queue, span{block.a + block.size, region.ahi, block.b + block.size, region.bhi})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].a != found[j].a {
			return found[i].a < found[j].a
		}
		return found[i].b < found[j].b
	})

	// Coalesce adjacent blocks into maximal runs.
	var blocks []matchingBlock
	for _, block := range found {
		if len(blocks) > 0 {
			last := &blocks[len(blocks)-1]
			if last.a+last.size == block.a && last.b+last.size == block.b {
				last.size += block.size
				continue
			}
		}
		blocks = append(blocks, block)
	}

	blocks = append(blocks, matchingBlock{a: len(m.a), b: len(m.b), size: 0})
	return blocks
}
