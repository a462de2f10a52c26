package buffer

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// graphemeClusters splits s into user-perceived characters.
//
// Adapted from core/internal/domain/service.UnicodeService.GraphemeClusters
// (teacher: phoenix-tui/phoenix), generalized to free functions operating
// directly on buffer text instead of a service receiver.
func graphemeClusters(s string) []string {
	if s == "" {
		return nil
	}
	var clusters []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	return clusters
}

// stringWidth calculates the visual width of s in terminal columns,
// expanding tabs to the next multiple of 8 as spec.md §3.1 requires.
func stringWidth(s string, col int) int {
	width := 0
	for _, cluster := range splitClustersKeepingTabs(s) {
		if cluster == "\t" {
			next := ((col + width + 8) / 8) * 8
			width += next - (col + width)
			continue
		}
		width += clusterWidth(cluster)
	}
	return width
}

// splitClustersKeepingTabs segments s into grapheme clusters, but treats
// each tab byte as its own one-rune cluster so callers can special-case
// tab expansion without re-scanning runes.
func splitClustersKeepingTabs(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i, r := range s {
		if r == '\t' {
			if i > start {
				out = append(out, graphemeClusters(s[start:i])...)
			}
			out = append(out, "\t")
			start = i + utf8.RuneLen(r)
		}
	}
	if start < len(s) {
		out = append(out, graphemeClusters(s[start:])...)
	}
	return out
}

// containsTrulyComplexUnicode reports whether s contains characters that
// require grapheme segmentation (ZWJ sequences, emoji modifiers, variation
// selectors, combining marks). Simple emoji do not require it.
//
// Grounded on UnicodeService.containsTrulyComplexUnicode.
func containsTrulyComplexUnicode(s string) bool {
	for _, r := range s {
		if r == 0x200D {
			return true
		}
		if r >= 0xFE00 && r <= 0xFE0F {
			return true
		}
		if r >= 0x1F3FB && r <= 0x1F3FF {
			return true
		}
		if unicode.In(r, unicode.Mn, unicode.Me, unicode.Mc) {
			return true
		}
	}
	return false
}

// clusterWidth is the visual width of one grapheme cluster: 0 for
// zero-width/combining, 1 for ASCII and most narrow characters, 2 for
// emoji and CJK.
//
// Grounded on UnicodeService.ClusterWidth: for multi-rune clusters, use
// the width of the base (first) rune only — modifiers, ZWJ continuations,
// and combining marks never add visual width of their own.
func clusterWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	runes := []rune(cluster)
	if len(runes) == 1 {
		return uniwidth.RuneWidth(runes[0])
	}

	first := runes[0]
	if isZeroWidthRune(first) {
		return 0
	}
	if len(runes) >= 2 && (runes[1] == 0xFE0E || runes[1] == 0xFE0F) {
		return uniwidth.StringWidth(cluster)
	}
	return uniwidth.RuneWidth(first)
}

func isZeroWidthRune(r rune) bool {
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Mc, unicode.Cf) {
		return true
	}
	return r == '\u200B' || r == '\uFEFF'
}

// stringWidthFast is the non-tab-aware fast path used when a caller
// already knows no tabs are present (e.g. a single inserted grapheme).
func stringWidthFast(s string) int {
	if s == "" {
		return 0
	}
	if !containsTrulyComplexUnicode(s) {
		return uniwidth.StringWidth(s)
	}
	width := 0
	for _, cluster := range graphemeClusters(s) {
		width += clusterWidth(cluster)
	}
	return width
}
