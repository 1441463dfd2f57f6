package cli

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title  lipgloss.Style
	prompt lipgloss.Style
	word   lipgloss.Style
	weight lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
}

// newStyles renders for w, so colors are dropped when w is not a terminal.
func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
		prompt: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#907aa9", Dark: "#c4a7e7"}),
		word:   r.NewStyle().Foreground(lipgloss.Color("75")),
		weight: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"}),
		dim:    r.NewStyle().Faint(true),
		warn:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#ea9d34", Dark: "#f6c177"}),
		err:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}),
	}
}

func (h *InputHandler) printSuggestions(suggestions []suggest.Suggestion) {
	width := 0
	for _, s := range suggestions {
		width = max(width, lipgloss.Width(s.Word))
	}
	for i, s := range suggestions {
		pad := strings.Repeat(" ", width-lipgloss.Width(s.Word))
		h.println(fmt.Sprintf("%2d. %s%s  %s", i+1,
			h.styles.word.Render(s.Word), pad,
			h.styles.weight.Render("(weight: "+formatWeight(s.Weight)+")")))
	}
}

func (h *InputHandler) printStats(stats map[string]int) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		h.println(fmt.Sprintf("%-16s %s", k, formatWithCommas(int64(stats[k]))))
	}
}

// formatWeight prints whole weights with comma separators and keeps the
// fraction of the others.
func formatWeight(w float64) string {
	if w == math.Trunc(w) && math.Abs(w) < 1e15 {
		return formatWithCommas(int64(w))
	}
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int64) string {
	if n < 0 {
		return "-" + formatWithCommas(-n)
	}
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
