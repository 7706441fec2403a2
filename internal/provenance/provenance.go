// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provenance cross-checks quoted claims in a report draft against
// the evidence actually gathered for the run. Validation is advisory:
// unverifiable quotes produce warnings but stay in the draft, because
// removing them discards usable content more often than it catches
// fabrication. Only conflicting-claim entries that carry no information
// (sentinel quotes, identical sides, or both sides from one source) are
// removed outright.
package provenance

import (
	"fmt"
	"strings"

	"github.com/timio-source/timio-research/pkg/types"
)

// QuoteSentinel is the value the model is instructed to emit when no
// verbatim quote supports a claim. It is never treated as a mismatch.
const QuoteSentinel = "no quote available"

// Warning records a quote that could not be traced back to gathered
// evidence.
type Warning struct {
	Context string // where the quote appeared, e.g. "viewpoint" or "conflict"
	Source  string
	Quote   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s quote from %q not found in evidence: %q", w.Context, w.Source, w.Quote)
}

// Validate checks every quote in the draft's viewpoints and conflicting
// claims against the evidence quote pool. It prunes uninformative
// conflicting claims in place and returns a warning for each remaining
// quote that has no evidence backing.
func Validate(draft *types.ReportDraft, evidence []types.ScrapedDocument) []Warning {
	pool := quotePool(evidence)
	var warnings []Warning

	for _, group := range draft.Viewpoints {
		for _, art := range group.Articles {
			if isSentinel(art.Quote) || pool.contains(art.Quote) {
				continue
			}
			warnings = append(warnings, Warning{Context: "viewpoint", Source: art.Source, Quote: art.Quote})
		}
	}

	kept := draft.ConflictingInfo[:0]
	for _, claim := range draft.ConflictingInfo {
		if !informative(claim) {
			continue
		}
		kept = append(kept, claim)
		for _, side := range []types.ClaimSide{claim.SourceA, claim.SourceB} {
			if isSentinel(side.Quote) || pool.contains(side.Quote) {
				continue
			}
			warnings = append(warnings, Warning{Context: "conflict", Source: side.Source, Quote: side.Quote})
		}
	}
	draft.ConflictingInfo = kept

	return warnings
}

// informative reports whether a conflicting claim actually opposes two
// distinct positions. Claims with a sentinel quote on either side, with
// textually identical sides, or with both sides attributed to the same
// source are noise.
func informative(claim types.ConflictingClaim) bool {
	a, b := claim.SourceA, claim.SourceB
	if isSentinel(a.Quote) || isSentinel(b.Quote) {
		return false
	}
	if canon(a.Source) == canon(b.Source) {
		return false
	}
	if canon(a.Quote) == canon(b.Quote) && canon(a.Claim) == canon(b.Claim) {
		return false
	}
	return true
}

type pool []string

// quotePool flattens every evidence quote into one canonicalized list.
func quotePool(evidence []types.ScrapedDocument) pool {
	var p pool
	for _, doc := range evidence {
		for _, q := range doc.Quotes {
			if c := canon(q); c != "" {
				p = append(p, c)
			}
		}
	}
	return p
}

// contains reports whether the candidate quote matches the pool exactly or
// as a substring in either direction, after canonicalization.
func (p pool) contains(quote string) bool {
	c := canon(quote)
	if c == "" {
		return false
	}
	for _, q := range p {
		if strings.Contains(q, c) || strings.Contains(c, q) {
			return true
		}
	}
	return false
}

func isSentinel(quote string) bool {
	return strings.Contains(canon(quote), QuoteSentinel)
}

// canon lowercases and collapses whitespace so cosmetic differences do not
// fail a provenance check.
func canon(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
