// Package fuzzy ranks candidate strings against a query using subsequence
// matching. Scoring is delegated to fzf's V2 algorithm, which rewards
// contiguous runs and word-boundary starts; ties fall back to shorter text and
// then to the original candidate order.
package fuzzy

import (
	"context"
	"sort"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"
)

const (
	// segmentSize is the number of candidates scored by one worker.
	segmentSize = 512
	// cancelCheckEvery controls how often a worker polls its context.
	cancelCheckEvery = 64

	slab16Size = 100 * 1024
	slab32Size = 2048

	// scheme selects fzf's generic bonus tables: word starts after
	// whitespace or a delimiter score above mid-word matches.
	scheme = "default"
)

// fzf keeps its character classes and bonus matrix in package state that is
// zero until Init runs.
func init() {
	algo.Init(scheme)
}

// Candidate is one string offered to MatchStrings. ID is echoed back in Match
// so callers can map results to their own items.
type Candidate struct {
	ID   int
	Text string
}

// Options tunes case handling and result size.
type Options struct {
	CaseSensitive bool
	// SmartCase makes a query containing an upper-case rune case sensitive.
	SmartCase bool
	// MaxResults truncates the ranked output; values <= 0 keep everything.
	MaxResults int
}

// DefaultOptions mirrors the picker defaults: smart case, top 100.
func DefaultOptions() Options {
	return Options{SmartCase: true, MaxResults: 100}
}

// Match is a ranked candidate. Positions are rune indices into the
// candidate text in ascending order.
type Match struct {
	CandidateID int
	Score       int
	Positions   []int
}

type scored struct {
	Match
	length int
	order  int
}

// MatchStrings returns the candidates matching query, best first. An empty
// query returns every candidate in its original order without positions.
func MatchStrings(ctx context.Context, candidates []Candidate, query string, opts Options) ([]Match, error) {
	if len(candidates) == 0 {
		return []Match{}, nil
	}
	if query == "" {
		all := make([]Match, len(candidates))
		for i, c := range candidates {
			all[i] = Match{CandidateID: c.ID}
		}
		return all, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	caseSensitive := opts.caseSensitiveFor(query)
	pattern := []rune(query)
	if !caseSensitive {
		pattern = lowerRunes(pattern)
	}

	segments := (len(candidates) + segmentSize - 1) / segmentSize
	found := make([][]scored, segments)
	g, gctx := errgroup.WithContext(ctx)
	for s := 0; s < segments; s++ {
		start := s * segmentSize
		end := start + segmentSize
		if end > len(candidates) {
			end = len(candidates)
		}
		s := s
		g.Go(func() error {
			matches, err := scoreSegment(gctx, candidates[start:end], start, pattern, caseSensitive)
			found[s] = matches
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, seg := range found {
		total += len(seg)
	}
	merged := make([]scored, 0, total)
	for _, seg := range found {
		merged = append(merged, seg...)
	}
	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.length != b.length {
			return a.length < b.length
		}
		return a.order < b.order
	})
	if opts.MaxResults > 0 && len(merged) > opts.MaxResults {
		merged = merged[:opts.MaxResults]
	}

	out := make([]Match, len(merged))
	for i, m := range merged {
		out[i] = m.Match
	}
	return out, nil
}

func scoreSegment(ctx context.Context, segment []Candidate, offset int, pattern []rune, caseSensitive bool) ([]scored, error) {
	slab := util.MakeSlab(slab16Size, slab32Size)
	folded := string(pattern)
	var out []scored
	for i, c := range segment {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text := []rune(c.Text)
		if len(text) < len(pattern) {
			continue
		}
		if !caseSensitive {
			text = lowerRunes(text)
		}
		// Early out on the same folded runes the scorer sees.
		if !fuzzysearch.Match(folded, string(text)) {
			continue
		}
		chars := util.RunesToChars(text)
		// Both sides are already folded, so fzf runs in case-sensitive mode.
		result, pos := algo.FuzzyMatchV2(true, false, true, &chars, pattern, true, slab)
		if result.Start < 0 || result.Score <= 0 {
			continue
		}
		var positions []int
		if pos != nil {
			positions = make([]int, len(*pos))
			copy(positions, *pos)
			sort.Ints(positions)
		}
		out = append(out, scored{
			Match:  Match{CandidateID: c.ID, Score: result.Score, Positions: positions},
			length: len(text),
			order:  offset + i,
		})
	}
	return out, nil
}

func (o Options) caseSensitiveFor(query string) bool {
	if o.CaseSensitive {
		return true
	}
	if !o.SmartCase {
		return false
	}
	for _, r := range query {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func lowerRunes(runes []rune) []rune {
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}
	return lowered
}
