// Package chunk splits sanitized document text into bounded, semantically coherent
// chunks ready for embedding. Identical input always produces the identical chunk
// sequence.
package chunk

import (
	"regexp"
	"strings"

	"github.com/ndadi/PersonaRAG/internal/config"
)

// Section headers that start a new semantic block. The header line itself begins the
// section it names.
var sectionHeaderPattern = regexp.MustCompile(`(?m)^(Skills|Professional Experience|Projects|Education)\b`)

var bulletPattern = regexp.MustCompile(`\n[•\-]\s?`)

// Separators ordered from best to worst for keeping semantic meaning, "" is the
// hard-cut fallback.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Split produces the ordered chunk sequence for one document.
func Split(text string) []string {
	var chunks []string

	for _, section := range splitBySections(text) {
		for _, piece := range splitByBullets(section) {
			if len(piece) > config.ChunkOverflowLimit {
				chunks = append(chunks, splitTextIntoChunks(piece, config.ChunkSize, config.ChunkOverlap, separators)...)
			} else if piece != "" {
				chunks = append(chunks, piece)
			}
		}
	}

	kept := chunks[:0]
	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if len(c) >= config.MinChunkLength {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// splitBySections cuts the text at the start of every line matching a section
// header, keeping the header with its section. Text before the first header is its
// own leading section.
func splitBySections(text string) []string {
	indexes := sectionHeaderPattern.FindAllStringIndex(text, -1)
	if len(indexes) == 0 {
		return []string{text}
	}

	var sections []string
	prev := 0
	for _, idx := range indexes {
		if idx[0] > prev {
			sections = append(sections, text[prev:idx[0]])
		}
		prev = idx[0]
	}
	sections = append(sections, text[prev:])
	return sections
}

func splitByBullets(section string) []string {
	var pieces []string
	for _, p := range bulletPattern.Split(section, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// splitTextIntoChunks subdivides an oversized piece with the separator ladder,
// carrying an overlap between neighbouring chunks. Every returned chunk fits within
// limit characters.
func splitTextIntoChunks(text string, limit int, overlap int, seps []string) []string {
	if len(text) <= limit {
		return []string{text}
	}

	sep := ""
	rest := seps
	for len(rest) > 0 {
		sep = rest[0]
		rest = rest[1:]
		if sep == "" || strings.Contains(text, sep) {
			break
		}
	}
	if sep == "" {
		return hardCut(text, limit, overlap)
	}

	var chunks []string
	var currentChunk strings.Builder

	flush := func() {
		if currentChunk.Len() == 0 {
			return
		}
		chunks = append(chunks, currentChunk.String())

		// Start the next chunk with the tail of this one so neighbouring chunks
		// share context.
		overlapContent := ""
		if currentChunk.Len() > overlap {
			overlapContent = currentChunk.String()[currentChunk.Len()-overlap:]
		}
		currentChunk.Reset()
		currentChunk.WriteString(overlapContent)
	}

	for _, part := range strings.Split(text, sep) {
		if len(part) > limit {
			// The part alone exceeds the limit, recurse with the finer separators.
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
				currentChunk.Reset()
			}
			chunks = append(chunks, splitTextIntoChunks(part, limit, overlap, rest)...)
			continue
		}

		if currentChunk.Len()+len(part)+len(sep) > limit {
			flush()
			if currentChunk.Len()+len(part)+len(sep) > limit {
				// Even the overlap carry would not fit next to this part.
				currentChunk.Reset()
			}
		}
		if currentChunk.Len() > 0 {
			currentChunk.WriteString(sep)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}
	return chunks
}

func hardCut(text string, limit int, overlap int) []string {
	step := limit - overlap
	if step <= 0 {
		step = limit
	}

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + limit
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
