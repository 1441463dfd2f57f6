// Package dictionary reads weighted vocabularies from disk: plain text files
// of "weight<TAB>word" lines and binary chunk directories (dict_0001.bin, ...).
package dictionary

// Vocabulary is an ordered list of distinct words with their weights, ready to
// be handed to an index builder.
type Vocabulary struct {
	Words   []string
	Weights []float64
	pos     map[string]int
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		Words:   []string{},
		Weights: []float64{},
		pos:     make(map[string]int),
	}
}

// Add appends word, or overwrites its weight if it was already added.
// It reports whether the word is new.
func (v *Vocabulary) Add(word string, weight float64) bool {
	if i, ok := v.pos[word]; ok {
		v.Weights[i] = weight
		return false
	}
	v.pos[word] = len(v.Words)
	v.Words = append(v.Words, word)
	v.Weights = append(v.Weights, weight)
	return true
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int { return len(v.Words) }

// MaxWeight returns the largest weight, or 0 for an empty vocabulary.
func (v *Vocabulary) MaxWeight() float64 {
	var m float64
	for _, w := range v.Weights {
		m = max(m, w)
	}
	return m
}
