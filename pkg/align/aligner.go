// Package align matches the articles of two statute versions. Matching is a
// constrained bipartite assignment: externally supplied manual pairs take
// strict priority, remaining old articles greedily claim their most similar
// unclaimed counterpart above a similarity threshold, and everything left
// over is classified as deleted or added.
package align

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/coolbeans/statutediff/pkg/statute"
)

// DefaultSimilarityThreshold is the minimum similarity for an automatic
// match.
const DefaultSimilarityThreshold = 0.8

// IdenticalSimilarityFloor is the similarity at or above which a matched
// pair is classified as identical rather than modified.
const IdenticalSimilarityFloor = 0.98

// MatchType records how an alignment entry was produced.
type MatchType string

const (
	// MatchManual marks a pair forced by the manual-match list.
	MatchManual MatchType = "manual"
	// MatchAuto marks a pair selected by similarity.
	MatchAuto MatchType = "auto"
	// MatchNone marks an old article with no qualifying counterpart.
	MatchNone MatchType = "none"
)

// ManualMatch is an externally supplied forced pairing between an old and a
// new article number. Manual pairs override similarity-based matching and
// are intended for known renumberings that automatic matching gets wrong.
type ManualMatch struct {
	OldNumber int `json:"old_number" yaml:"old_number"`
	NewNumber int `json:"new_number" yaml:"new_number"`
}

// Entry is one row of an alignment: an old article number paired with a new
// one, or with -1 when the old article has no counterpart (deleted).
type Entry struct {
	OldNumber  int       `json:"old_number"`
	NewNumber  int       `json:"new_number"`
	Similarity float64   `json:"similarity"`
	MatchType  MatchType `json:"match_type"`
}

// Result is the raw alignment between two article sets: the per-old-article
// entries, the new-only article numbers, and any non-fatal warnings raised
// while processing the manual list. It is built once per Align call and
// never mutated.
type Result struct {
	Entries  []Entry  `json:"entries"`
	Added    []int    `json:"added"`
	Warnings []string `json:"warnings,omitempty"`

	ManualCount int `json:"manual_count"`
	AutoCount   int `json:"auto_count"`
}

// Aligner computes article alignments. The zero configuration uses
// DefaultSimilarityThreshold and discards log output.
type Aligner struct {
	threshold float64
	logger    hclog.Logger
}

// AlignerOption configures an Aligner.
type AlignerOption func(*Aligner)

// WithThreshold sets the minimum similarity for automatic matches.
func WithThreshold(threshold float64) AlignerOption {
	return func(a *Aligner) {
		a.threshold = threshold
	}
}

// WithLogger sets the logger used for match progress and warnings.
func WithLogger(logger hclog.Logger) AlignerOption {
	return func(a *Aligner) {
		a.logger = logger
	}
}

// NewAligner creates an Aligner.
func NewAligner(options ...AlignerOption) *Aligner {
	aligner := &Aligner{
		threshold: DefaultSimilarityThreshold,
		logger:    hclog.NewNullLogger(),
	}
	for _, option := range options {
		option(aligner)
	}
	return aligner
}

// Threshold returns the configured similarity threshold.
func (a *Aligner) Threshold() float64 {
	return a.threshold
}

// Align computes the best-effort alignment between the articles of oldDoc
// and newDoc. The manual list is applied first: a pair whose articles both
// exist and are still unclaimed is recorded as a manual match regardless of
// similarity; invalid pairs degrade to warnings. Remaining old articles are
// processed in ascending number order, each claiming the unclaimed new
// article with the highest similarity (ties go to the lowest new number);
// a best candidate below the threshold leaves the old article unmatched
// with NewNumber -1. New articles never claimed are returned as Added.
//
// Across all matched entries no old or new number appears twice: the
// alignment is a partial bijection. Identical inputs always produce the
// identical Result.
func (a *Aligner) Align(oldDoc, newDoc *statute.Document, manual []ManualMatch) *Result {
	result := &Result{}

	consumedOld := make(map[int]bool)
	consumedNew := make(map[int]bool)

	// Manual phase.
	for _, pair := range manual {
		oldArticle, oldExists := oldDoc.Articles[pair.OldNumber]
		newArticle, newExists := newDoc.Articles[pair.NewNumber]
		if !oldExists || !newExists {
			warning := fmt.Sprintf("manual match 第%d条 → 第%d条 references a missing article",
				pair.OldNumber, pair.NewNumber)
			result.Warnings = append(result.Warnings, warning)
			a.logger.Warn("skipping manual match", "old", pair.OldNumber, "new", pair.NewNumber,
				"reason", "missing article")
			continue
		}
		if consumedOld[pair.OldNumber] || consumedNew[pair.NewNumber] {
			warning := fmt.Sprintf("manual match 第%d条 → 第%d条 references an already matched article",
				pair.OldNumber, pair.NewNumber)
			result.Warnings = append(result.Warnings, warning)
			a.logger.Warn("skipping manual match", "old", pair.OldNumber, "new", pair.NewNumber,
				"reason", "already matched")
			continue
		}

		similarity := Ratio(oldArticle.Content, newArticle.Content)
		result.Entries = append(result.Entries, Entry{
			OldNumber:  pair.OldNumber,
			NewNumber:  pair.NewNumber,
			Similarity: similarity,
			MatchType:  MatchManual,
		})
		consumedOld[pair.OldNumber] = true
		consumedNew[pair.NewNumber] = true
		result.ManualCount++
		a.logger.Debug("manual match", "old", pair.OldNumber, "new", pair.NewNumber,
			"similarity", similarity)
	}

	// Automatic phase: ascending old numbers for deterministic tie-breaks.
	newNumbers := newDoc.ArticleNumbers()
	for _, oldNumber := range oldDoc.ArticleNumbers() {
		if consumedOld[oldNumber] {
			continue
		}
		oldArticle := oldDoc.Articles[oldNumber]

		bestNumber := -1
		bestSimilarity := 0.0
		for _, newNumber := range newNumbers {
			if consumedNew[newNumber] {
				continue
			}
			similarity := Ratio(oldArticle.Content, newDoc.Articles[newNumber].Content)
			// Strictly-greater keeps the lowest new number on ties.
			if similarity > bestSimilarity {
				bestNumber = newNumber
				bestSimilarity = similarity
			}
		}

		if bestNumber != -1 && bestSimilarity >= a.threshold {
			result.Entries = append(result.Entries, Entry{
				OldNumber:  oldNumber,
				NewNumber:  bestNumber,
				Similarity: bestSimilarity,
				MatchType:  MatchAuto,
			})
			consumedNew[bestNumber] = true
			result.AutoCount++
			a.logger.Debug("auto match", "old", oldNumber, "new", bestNumber,
				"similarity", bestSimilarity)
		} else {
			result.Entries = append(result.Entries, Entry{
				OldNumber:  oldNumber,
				NewNumber:  -1,
				Similarity: 0.0,
				MatchType:  MatchNone,
			})
		}
	}

	// Residual phase: unclaimed new articles are additions.
	for _, newNumber := range newNumbers {
		if !consumedNew[newNumber] {
			result.Added = append(result.Added, newNumber)
		}
	}
	sort.Ints(result.Added)

	a.logger.Debug("alignment complete",
		"manual", result.ManualCount,
		"auto", result.AutoCount,
		"added", len(result.Added))

	return result
}
