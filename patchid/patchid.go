// Package patchid computes a stable hash of a commit's patch — the "patch
// identity" spec.md §3 defines as a normalized diff hash, invariant under
// whitespace noise and context line renumbering. It is deliberately
// independent of any full diff engine: cherry-pick detection only needs a
// content-equality test, not a renderable diff, so the normalization below
// is the minimal transform that makes two equivalent patches hash equal
// regardless of surrounding context.
package patchid

import (
	"strings"

	"github.com/google/osv-impact/internal/plumbing"
)

// ID is a patch identity. Two commits with equal ID carry the same logical
// change (spec.md §3).
type ID = plumbing.Hash

// Input is the normalized-diff-relevant content of one commit: the
// before/after text of every changed file, in a stable file order. The
// commit message is deliberately not part of Input — cherry-picks commonly
// reword the message while keeping the diff identical, and spec.md §3
// scopes patch identity to diff content alone.
type Input struct {
	Before []string
	After  []string
}

// Compute derives the patch-id of a commit from its diff against its first
// parent. before and after are the pre-image and post-image file contents,
// already ordered consistently by the caller (e.g. by path).
func Compute(in Input) ID {
	var b strings.Builder
	for _, before := range in.Before {
		writeNormalizedLines(&b, before, '-')
	}
	for _, after := range in.After {
		writeNormalizedLines(&b, after, '+')
	}
	return plumbing.HashContent([]byte(b.String()))
}

// writeNormalizedLines appends every non-blank line of content, with all of
// its whitespace removed, to b, each prefixed with op ('-' for a removed/old
// line, '+' for an added/new line). Line numbers are never written, so content
// shifted by unrelated context renumbers to the same stream (spec.md §3:
// "ignore whitespace and context line numbers"). Runs of blank lines
// collapse to nothing, so reformatting that only adds/removes blank
// separators does not change the patch-id.
func writeNormalizedLines(b *strings.Builder, content string, op byte) {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.Join(strings.Fields(line), "")
		if trimmed == "" {
			continue
		}
		b.WriteByte(op)
		b.WriteString(trimmed)
		b.WriteByte('\n')
	}
}
