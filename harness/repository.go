// Package harness builds small synthetic commit graphs for tests, the way
// original_source/osv/impact_git_test.py's TestRepository builds throwaway
// git repositories per scenario: add a commit, optionally branch and merge,
// tag a handful of commits with events, then hand the result to the
// analyzer and check which commits come back.
//
// Repository never shells out to git — there is no working tree here, only
// the parent/child skeleton and patch content the analyzer package cares
// about. Commit identifiers are derived deterministically from the
// repository's name and a monotonically increasing sequence number, so two
// Repository values built with the same calls in the same order compare
// equal.
package harness

import (
	"fmt"

	"github.com/google/osv-impact/graph"
	"github.com/google/osv-impact/internal/plumbing"
	"github.com/google/osv-impact/patchid"
)

// Event is the annotation a test attaches to a commit as it builds a
// Repository (spec.md §3). None means "just a commit" — the majority of
// nodes in any scenario.
type Event int

const (
	None Event = iota
	Introduced
	Fixed
	Limit
	LastAffected
)

// Repository is a mutable commit-graph builder. It is not safe for
// concurrent use — scenarios build it single-threaded, then call Build to
// hand off an immutable graph.Graph.
type Repository struct {
	name string
	seq  int

	labels  map[string]plumbing.Hash
	parents map[plumbing.Hash][]plumbing.Hash
	patches map[plumbing.Hash]patchid.Input

	branches map[string]plumbing.Hash
	current  string

	introduced   graph.HashSet
	fixed        graph.HashSet
	limit        graph.HashSet
	lastAffected graph.HashSet
}

// NewRepository creates a Repository with a single root commit "A" on a
// branch named "main", mirroring the fresh repository TestRepository(name)
// starts from before any add_commit call.
func NewRepository(name string) *Repository {
	r := &Repository{
		name:         name,
		labels:       make(map[string]plumbing.Hash),
		parents:      make(map[plumbing.Hash][]plumbing.Hash),
		patches:      make(map[plumbing.Hash]patchid.Input),
		branches:     make(map[string]plumbing.Hash),
		current:      "main",
		introduced:   graph.HashSet{},
		fixed:        graph.HashSet{},
		limit:        graph.HashSet{},
		lastAffected: graph.HashSet{},
	}
	root := r.commit("A", nil)
	r.branches["main"] = root
	return r
}

// commit derives a deterministic hash for the next commit in sequence and
// registers it under label, regardless of which branch it lands on.
func (r *Repository) commit(label string, parents []plumbing.Hash) plumbing.Hash {
	r.seq++
	h := plumbing.HashContent([]byte(fmt.Sprintf("%s/%d/%s", r.name, r.seq, label)))
	r.labels[label] = h
	r.parents[h] = parents
	// Two commits sharing a label carry the same patch-id (spec.md §3) —
	// the minimal stand-in for "this change was cherry-picked verbatim".
	r.patches[h] = patchid.Input{After: []string{label}}
	return h
}

// Head returns the current branch's tip.
func (r *Repository) Head() plumbing.Hash {
	return r.branches[r.current]
}

// AddCommit appends a new commit with the given message (used both as its
// test label and, by default, as the content its patch-id is derived from)
// and parents onto the current branch, tags it with event if event != None,
// and returns its identifier.
func (r *Repository) AddCommit(message string, parents []plumbing.Hash, event Event) plumbing.Hash {
	h := r.commit(message, parents)
	r.branches[r.current] = h
	r.tag(h, event)
	return h
}

func (r *Repository) tag(h plumbing.Hash, event Event) {
	switch event {
	case Introduced:
		r.introduced[h] = struct{}{}
	case Fixed:
		r.fixed[h] = struct{}{}
	case Limit:
		r.limit[h] = struct{}{}
	case LastAffected:
		r.lastAffected[h] = struct{}{}
	}
}

// Branch creates a branch named name at the current head, if it does not
// already exist, and checks it out — mirroring
// create_branch_if_needed_and_checkout.
func (r *Repository) Branch(name string) {
	if _, ok := r.branches[name]; !ok {
		r.branches[name] = r.Head()
	}
	r.current = name
}

// Checkout switches the current branch to name, which must already exist.
func (r *Repository) Checkout(name string) {
	r.current = name
}

// GetRanges returns the four event sets accumulated so far, validated
// against spec.md §3's disjointness invariant.
func (r *Repository) GetRanges() (graph.EventSet, error) {
	return graph.NewEventSet(r.introduced, r.fixed, r.limit, r.lastAffected)
}

// GetCommitIDs resolves a list of commit labels (the message each was
// added with) to their identifiers.
func (r *Repository) GetCommitIDs(labels ...string) graph.HashSet {
	ids := make(graph.HashSet, len(labels))
	for _, l := range labels {
		if h, ok := r.labels[l]; ok {
			ids[h] = struct{}{}
		}
	}
	return ids
}

// GetMessageByCommitIDs reverses GetCommitIDs, for turning a result set
// back into readable labels in assertion failure messages.
func (r *Repository) GetMessageByCommitIDs(ids graph.HashSet) []string {
	byHash := make(map[plumbing.Hash]string, len(r.labels))
	for label, h := range r.labels {
		byHash[h] = label
	}
	messages := make([]string, 0, len(ids))
	for h := range ids {
		if label, ok := byHash[h]; ok {
			messages = append(messages, label)
			continue
		}
		messages = append(messages, h.String())
	}
	return messages
}

// Build compiles the accumulated commit graph into an immutable
// graph.Graph, ready for analyzer.GetAffected.
func (r *Repository) Build() (graph.Graph, error) {
	return graph.New(r.parents, r.patches)
}
