// Package chunker provides sentence-aware text chunking.
package chunker

import "strings"

// DefaultChunkSize is the default character budget per chunk.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of characters carried
// between adjacent chunks.
const DefaultChunkOverlap = 100

// abbreviations that end with a full stop without ending a sentence.
var abbreviations = map[string]struct{}{
	"dr": {}, "mr": {}, "mrs": {}, "ms": {}, "prof": {}, "sr": {}, "jr": {},
	"st": {}, "vs": {}, "etc": {}, "eg": {}, "ie": {}, "vol": {}, "no": {},
	"fig": {}, "al": {}, "inc": {}, "ltd": {}, "approx": {},
}

// Processor splits text into overlapping sentence-aligned chunks.
// Sentences are never split mid-word; a single sentence larger than
// the budget becomes its own oversized chunk.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Split chunks a text. Sentences are accumulated greedily until the
// budget would be exceeded; each new chunk is re-seeded with the
// trailing sentences of the previous one up to the overlap budget.
// Every character of every sentence appears in at least one chunk.
func (p *Processor) Split(text string) []string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var (
		chunks []string
		cur    []string
		curLen int
	)

	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(cur, " "))
	}

	for _, sentence := range sentences {
		need := len(sentence)
		if curLen > 0 {
			need++ // joining space
		}
		if curLen > 0 && curLen+need > p.chunkSize {
			flush()
			cur, curLen = p.overlapTail(cur)
			// A seed that leaves no room for the sentence defeats the
			// budget; start clean instead.
			if curLen > 0 && curLen+1+len(sentence) > p.chunkSize {
				cur, curLen = nil, 0
			}
			need = len(sentence)
			if curLen > 0 {
				need++
			}
		}
		cur = append(cur, sentence)
		curLen += need
	}
	flush()

	return chunks
}

// overlapTail returns the trailing sentences of a chunk that fit the
// overlap budget, with their joined length.
func (p *Processor) overlapTail(cur []string) ([]string, int) {
	var (
		tail  []string
		total int
	)
	for i := len(cur) - 1; i >= 0; i-- {
		need := len(cur[i])
		if len(tail) > 0 {
			need++
		}
		if total+need > p.overlap {
			break
		}
		tail = append([]string{cur[i]}, tail...)
		total += need
	}
	return tail, total
}

// SplitSentences splits text into sentences. Terminators are . ! and ?,
// optionally followed by closing quotes or brackets. A full stop after
// a single letter, a known abbreviation or a dotted acronym does not
// end a sentence. All whitespace runs, including newlines, collapse to
// single spaces.
func SplitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}

		// Absorb runs of terminators ("..." "?!") and trailing quotes.
		j := i + 1
		dotsOnly := c == '.'
		for j < len(text) && strings.IndexByte(".!?", text[j]) >= 0 {
			if text[j] != '.' {
				dotsOnly = false
			}
			j++
		}
		ellipsis := dotsOnly && j > i+1
		for j < len(text) && strings.IndexByte(`"')]`, text[j]) >= 0 {
			j++
		}
		if j >= len(text) {
			i = j
			break
		}
		if text[j] != ' ' {
			i = j - 1
			continue
		}
		// An ellipsis reads as a pause, not a sentence end.
		if ellipsis {
			i = j - 1
			continue
		}
		if c == '.' && j == i+1 && isAbbreviation(text[start:i]) {
			continue
		}

		sentences = append(sentences, strings.TrimSpace(text[start:j]))
		start = j + 1
		i = j
	}

	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// isAbbreviation reports whether the text ending at a full stop ends
// in an initial, a known abbreviation or a dotted acronym.
func isAbbreviation(prefix string) bool {
	word := prefix
	if k := strings.LastIndexByte(prefix, ' '); k >= 0 {
		word = prefix[k+1:]
	}
	word = strings.ToLower(strings.TrimLeft(word, `"'([`))
	if word == "" {
		return false
	}
	if len(word) == 1 {
		return true
	}
	if strings.Contains(word, ".") {
		return true
	}
	_, ok := abbreviations[word]
	return ok
}
