package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/charmbracelet/log"
)

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// GetAvailableChunks scans dirPath for dict_NNNN.bin files, sorted by ID.
func GetAvailableChunks(dirPath string) ([]ChunkInfo, error) {
	pattern := filepath.Join(dirPath, "dict_*.bin")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		wordCount, err := getChunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{
			ChunkID:   chunkID,
			Filename:  file,
			WordCount: wordCount,
		})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// getChunkWordCount reads the word count from a chunk file's header
func getChunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// LoadChunks reads chunk files in ID order into one vocabulary, stopping once
// maxWords words are loaded (maxWords <= 0 loads everything).
func LoadChunks(dirPath string, maxWords int) (*Vocabulary, error) {
	chunks, err := GetAvailableChunks(dirPath)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunk files found in %s", dirPath)
	}
	log.Debugf("Found %d chunk files", len(chunks))

	vocab := NewVocabulary()
	for _, chunk := range chunks {
		if maxWords > 0 && vocab.Len() >= maxWords {
			break
		}
		if err := loadChunk(chunk.Filename, vocab, maxWords); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk.ChunkID, err)
		}
		log.Debugf("Chunk %d loaded, %d words so far", chunk.ChunkID, vocab.Len())
	}
	return vocab, nil
}

func loadChunk(filename string, vocab *Vocabulary, maxWords int) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()
	return ReadChunk(bufio.NewReader(file), vocab, maxWords)
}

// ReadChunk decodes one chunk into vocab. The layout is a little-endian int32
// entry count followed by, per entry, a uint16 word length, the word bytes and
// a uint16 rank. Rank 1 is the most frequent word; it is stored as weight
// 65535, rank 2 as 65534 and so on.
func ReadChunk(r io.Reader, vocab *Vocabulary, maxWords int) error {
	var totalEntries int32
	if err := binary.Read(r, binary.LittleEndian, &totalEntries); err != nil {
		return fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 {
		return fmt.Errorf("invalid word count %d (negative)", totalEntries)
	}

	for count := 0; count < int(totalEntries); count++ {
		if maxWords > 0 && vocab.Len() >= maxWords {
			return nil
		}

		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				log.Warnf("Chunk ended after %d of %d words", count, totalEntries)
				return nil
			}
			return fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(r, wordBytes); err != nil {
			return fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return fmt.Errorf("failed to read rank: %w", err)
		}

		vocab.Add(string(wordBytes), float64(65536-int(rank)))
	}
	return nil
}

// WriteChunks stores vocab in dirPath as dict_NNNN.bin files of at most
// chunkSize words each, heaviest word first. Ranks run across chunks and
// saturate at 65535, so only the first 65535 words keep distinct weights.
// It returns the number of chunk files written.
func WriteChunks(dirPath string, vocab *Vocabulary, chunkSize int) (int, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("invalid chunk size %d", chunkSize)
	}
	if err := utils.EnsureDir(dirPath); err != nil {
		return 0, err
	}

	order := make([]int, vocab.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		wa, wb := vocab.Weights[order[a]], vocab.Weights[order[b]]
		if wa != wb {
			return wa > wb
		}
		return vocab.Words[order[a]] < vocab.Words[order[b]]
	})
	words := make([]string, len(order))
	for i, idx := range order {
		words[i] = vocab.Words[idx]
	}
	ranks := utils.CreateRankList(len(words))

	chunks := 0
	for start := 0; start < len(words); start += chunkSize {
		end := min(start+chunkSize, len(words))
		chunks++
		name := filepath.Join(dirPath, fmt.Sprintf("dict_%04d.bin", chunks))
		if err := writeChunkFile(name, words[start:end], ranks[start:end]); err != nil {
			return chunks - 1, err
		}
		log.Debugf("Wrote %d words to %s", end-start, name)
	}
	return chunks, nil
}

func writeChunkFile(filename string, words []string, ranks []uint16) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", filename, err)
	}
	w := bufio.NewWriter(file)
	if err := WriteChunk(w, words, ranks); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", filename, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteChunk encodes words with their ranks in the layout ReadChunk reads.
func WriteChunk(w io.Writer, words []string, ranks []uint16) error {
	if len(words) != len(ranks) {
		return fmt.Errorf("got %d words and %d ranks", len(words), len(ranks))
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for i, word := range words {
		if len(word) > math.MaxUint16 {
			return fmt.Errorf("word %q... is longer than %d bytes", word[:16], math.MaxUint16)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, word); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, ranks[i]); err != nil {
			return err
		}
	}
	return nil
}
