package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadText reads a text dictionary file. See ReadText for the format.
func LoadText(filename string, maxWords int) (*Vocabulary, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", filename, err)
	}
	defer file.Close()

	vocab, err := ReadText(file, maxWords)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	log.Debugf("Loaded %d words from %s", vocab.Len(), filename)
	return vocab, nil
}

// ReadText parses lines of "weight<TAB>word". The first non-blank line may
// instead hold just the number of entries, which is only used as a size hint.
// Words may contain spaces; if a line has no tab, the first run of whitespace
// separates weight from word. Blank lines are skipped. maxWords <= 0 reads
// everything.
func ReadText(r io.Reader, maxWords int) (*Vocabulary, error) {
	vocab := NewVocabulary()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	sawEntry := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !sawEntry && !strings.ContainsAny(line, " \t") {
			if n, err := strconv.Atoi(line); err == nil && n >= 0 {
				vocab.Words = make([]string, 0, n)
				vocab.Weights = make([]float64, 0, n)
				sawEntry = true
				continue
			}
		}
		sawEntry = true

		weightStr, word, ok := strings.Cut(line, "\t")
		if !ok {
			i := strings.IndexAny(line, " ")
			if i < 0 {
				return nil, fmt.Errorf("line %d: expected weight and word, got %q", lineNo, line)
			}
			weightStr, word = line[:i], line[i+1:]
		}
		weightStr, word = strings.TrimSpace(weightStr), strings.TrimSpace(word)

		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid weight %q: %w", lineNo, weightStr, err)
		}
		if word == "" {
			return nil, fmt.Errorf("line %d: missing word", lineNo)
		}

		vocab.Add(word, weight)
		if maxWords > 0 && vocab.Len() >= maxWords {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return vocab, nil
}
