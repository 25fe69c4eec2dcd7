package utils

import "strings"

// SplitParagraphs breaks corpus markdown into blank-line-separated passages,
// dropping empty ones. Oversized passages are further split by SplitText.
func SplitParagraphs(text string, maxChunkSize int, overlap int) []string {
	var out []string
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if maxChunkSize > 0 && len(part) > maxChunkSize {
			out = append(out, SplitText(part, maxChunkSize, overlap)...)
			continue
		}
		out = append(out, part)
	}
	return out
}

// SplitText splits a long string into chunks of approximately 'chunkSize' characters.
// It includes an 'overlap' to preserve context at boundaries.
// This is a simple character-based splitter. Ideally, use a tokenizer-aware splitter.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
