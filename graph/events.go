package graph

import (
	"context"

	"github.com/google/osv-impact/internal/plumbing"
	"github.com/google/osv-impact/internal/trace"
)

// EventKind is one of the four event annotations spec.md §3 allows on a
// commit.
type EventKind int

const (
	Introduced EventKind = iota
	Fixed
	Limit
	LastAffected
)

func (k EventKind) String() string {
	switch k {
	case Introduced:
		return "introduced"
	case Fixed:
		return "fixed"
	case Limit:
		return "limit"
	case LastAffected:
		return "last_affected"
	default:
		return "unknown"
	}
}

// HashSet is the plain set type used throughout the analyzer: a commit
// identifier present as a key, mapped to the empty struct.
type HashSet map[plumbing.Hash]struct{}

// NewHashSet builds a HashSet from a list of hashes.
func NewHashSet(hs ...plumbing.Hash) HashSet {
	s := make(HashSet, len(hs))
	for _, h := range hs {
		s[h] = struct{}{}
	}
	return s
}

// Clone returns a shallow copy of s.
func (s HashSet) Clone() HashSet {
	c := make(HashSet, len(s))
	for h := range s {
		c[h] = struct{}{}
	}
	return c
}

// Union returns a new HashSet containing every element of s and other.
func (s HashSet) Union(other HashSet) HashSet {
	u := s.Clone()
	for h := range other {
		u[h] = struct{}{}
	}
	return u
}

// EventSet is the four input sets the analyzer consumes (spec.md §2):
// introduced, fixed, limit and last_affected commit identifiers. A commit
// may appear in at most one of the four (spec.md §3).
type EventSet struct {
	Introduced   HashSet
	Fixed        HashSet
	Limit        HashSet
	LastAffected HashSet
}

// NewEventSet validates and builds an EventSet. It returns an
// InvariantViolation error if any commit is present in more than one of
// the four sets (spec.md §3, §7).
func NewEventSet(introduced, fixed, limit, lastAffected HashSet) (EventSet, error) {
	seen := make(map[plumbing.Hash]EventKind, len(introduced)+len(fixed)+len(limit)+len(lastAffected))
	kinds := []struct {
		kind EventKind
		set  HashSet
	}{
		{Introduced, introduced},
		{Fixed, fixed},
		{Limit, limit},
		{LastAffected, lastAffected},
	}
	for _, k := range kinds {
		for h := range k.set {
			if prior, ok := seen[h]; ok {
				return EventSet{}, plumbing.NewInvariantViolation(
					"commit %s tagged both %s and %s", h, prior, k.kind)
			}
			seen[h] = k.kind
		}
	}
	return EventSet{
		Introduced:   introduced,
		Fixed:        fixed,
		Limit:        limit,
		LastAffected: lastAffected,
	}, nil
}

// Filter drops commits absent from g from every one of the four sets,
// logging each drop (spec.md §7: UnknownCommit — logged and dropped,
// analysis continues), and returns the filtered EventSet plus the sorted
// list of dropped hashes for caller diagnostics.
func (e EventSet) Filter(ctx context.Context, g Graph) (EventSet, []plumbing.Hash) {
	var dropped []plumbing.Hash
	filterSet := func(kind EventKind, s HashSet) HashSet {
		out := make(HashSet, len(s))
		for h := range s {
			if g.Exists(ctx, h) {
				out[h] = struct{}{}
				continue
			}
			trace.DroppedCommit(kind.String(), h.String())
			dropped = append(dropped, h)
		}
		return out
	}
	filtered := EventSet{
		Introduced:   filterSet(Introduced, e.Introduced),
		Fixed:        filterSet(Fixed, e.Fixed),
		Limit:        filterSet(Limit, e.Limit),
		LastAffected: filterSet(LastAffected, e.LastAffected),
	}
	plumbing.SortHashes(dropped)
	return filtered, dropped
}
