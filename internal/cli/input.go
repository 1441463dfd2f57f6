// Package cli reads prefixes from a terminal and prints ranked completions,
// for debugging an index by hand.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads one prefix per line and prints its completions.
// Lines starting with '!' are commands:
//
//	!k <n>        set the number of suggestions
//	!t <prefix>   show only the heaviest completion
//	!add <w> <n>  insert or re-weight a word
//	!stats        print index counters
//	!q            quit
type InputHandler struct {
	completer       *suggest.Completer
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
	out             io.Writer
	styles          *styles
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer *suggest.Completer, minLength, maxLength, limit int, noFilter bool, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		out:             out,
		styles:          newStyles(out),
	}
}

// Start runs the prompt loop until in ends or the user quits.
func (h *InputHandler) Start(in io.Reader) error {
	h.println(h.styles.title.Render("wordrank CLI") + " " + h.styles.dim.Render(h.completer.Kind()+" index"))
	h.println(h.styles.dim.Render("type a prefix and press Enter, !q to exit"))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(h.out, h.styles.prompt.Render("> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		// keep inner spaces: words may contain them
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "!") {
			if quit := h.handleCommand(line); quit {
				return nil
			}
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleCommand(line string) bool {
	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "q", "quit":
		return true
	case "k":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			h.errorf("usage: !k <n> with n >= 0")
			return false
		}
		h.suggestLimit = n
		h.println(h.styles.dim.Render(fmt.Sprintf("limit set to %d", n)))
	case "t":
		h.handleTop(arg)
	case "add":
		word, weightStr, ok := cutLast(arg)
		if !ok {
			h.errorf("usage: !add <word> <weight>")
			return false
		}
		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			h.errorf("invalid weight %q", weightStr)
			return false
		}
		if err := h.completer.AddWord(word, weight); err != nil {
			h.errorf("%v", err)
			return false
		}
		h.println(h.styles.dim.Render(fmt.Sprintf("added %q with weight %s", word, formatWeight(weight))))
	case "stats":
		h.printStats(h.completer.Stats())
	default:
		h.errorf("unknown command !%s", cmd)
	}
	return false
}

// handleInput validates the prefix the same way the server does, then prints
// the ranked suggestions.
func (h *InputHandler) handleInput(prefix string) {
	if !h.acceptPrefix(prefix) {
		return
	}

	start := time.Now()
	suggestions, err := h.completer.Complete(prefix, h.suggestLimit)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)
	if err != nil {
		h.errorf("%v", err)
		return
	}
	if len(suggestions) == 0 {
		h.println(h.styles.warn.Render(fmt.Sprintf("No suggestions found for prefix: '%s'", prefix)))
		return
	}

	h.println(fmt.Sprintf("Found %d suggestions for prefix '%s' %s", len(suggestions), prefix,
		h.styles.dim.Render(fmt.Sprintf("(%v)", elapsed.Round(time.Microsecond)))))
	h.printSuggestions(suggestions)
}

func (h *InputHandler) handleTop(prefix string) {
	if !h.acceptPrefix(prefix) {
		return
	}
	word, err := h.completer.Top(prefix)
	if err != nil {
		h.errorf("%v", err)
		return
	}
	if word == "" {
		h.println(h.styles.warn.Render(fmt.Sprintf("No suggestions found for prefix: '%s'", prefix)))
		return
	}
	weight, _ := h.completer.Weight(word)
	h.printSuggestions([]suggest.Suggestion{{Word: word, Weight: weight}})
}

func (h *InputHandler) acceptPrefix(prefix string) bool {
	n := utf8.RuneCountInString(prefix)
	if n < h.minPrefixLength {
		h.errorf("Prefix too short: %s", prefix)
		return false
	}
	if n > h.maxPrefixLength {
		h.errorf("Prefix too long: %s", prefix)
		return false
	}
	if !h.noFilter && prefix != "" && !utils.IsValidInput(prefix) {
		h.println(h.styles.warn.Render(fmt.Sprintf("No suggestions found for prefix: '%s' (filtered out)", prefix)))
		return false
	}
	return true
}

// cutLast splits s at its last space.
func cutLast(s string) (before, after string, ok bool) {
	i := strings.LastIndexByte(s, ' ')
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return strings.TrimSpace(s[:i]), s[i+1:], true
}

func (h *InputHandler) println(s string) {
	fmt.Fprintln(h.out, s)
}

func (h *InputHandler) errorf(format string, args ...any) {
	h.println(h.styles.err.Render(fmt.Sprintf(format, args...)))
}
