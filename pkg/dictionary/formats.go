package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatChunk              // Directory of dict_NNNN.bin chunks, or one chunk
	FormatText               // weight<TAB>word lines
)

func (f FileFormat) String() string {
	switch f {
	case FormatChunk:
		return "chunk"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4, // word count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt", ".tsv", ""},
		MinSize:     0,
	},
}

// maxChunkWords bounds the header of a single chunk file.
const maxChunkWords = 1_000_000

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	if expectedFormat == FormatChunk {
		ext := strings.ToLower(filepath.Ext(filename))
		if ext != ".bin" {
			return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
				filename, ext, formatInfo.Description, formatInfo.Extensions)
		}
		return validateChunkHeader(filename)
	}
	return nil
}

func validateChunkHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("invalid word count in %s: %d (negative)", filename, wordCount)
	}
	if wordCount > maxChunkWords {
		return fmt.Errorf("suspicious word count in %s: %d (too large)", filename, wordCount)
	}

	log.Debugf("Chunk file %s validated: %d words", filename, wordCount)
	return nil
}

// DetectFileFormat picks a format from the path: directories and dict_*.bin
// files are chunks, anything else is read as text.
func DetectFileFormat(path string) (FileFormat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return FormatChunk, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".bin" {
		if err := ValidateFileFormat(path, FormatChunk); err != nil {
			return FormatUnknown, err
		}
		return FormatChunk, nil
	}
	return FormatText, nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// Load reads the dictionary at path in whatever format it is stored.
// maxWords <= 0 loads every word.
func Load(path string, maxWords int) (*Vocabulary, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	if info, ok := GetFormatInfo(format); ok {
		log.Debugf("Loading %s from %s", info.Description, path)
	}

	switch format {
	case FormatChunk:
		if utils.IsDir(path) {
			return LoadChunks(path, maxWords)
		}
		vocab := NewVocabulary()
		if err := loadChunk(path, vocab, maxWords); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return vocab, nil
	case FormatText:
		return LoadText(path, maxWords)
	}
	return nil, fmt.Errorf("unable to detect format for %s", path)
}
