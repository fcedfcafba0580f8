package utils

// SplitText splits text into windows of at most chunkSize characters, each starting
// chunkSize-overlap characters after the previous one. The last partial window is kept.
// Sizes are counted in runes so multi-byte text is never cut mid-character.
func SplitText(text string, chunkSize int, overlap int) []string {
	if text == "" || chunkSize <= 0 {
		return nil
	}

	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
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

// JoinChunks reverses SplitText for windows produced with the same overlap.
func JoinChunks(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	out := []rune(chunks[0])
	for _, c := range chunks[1:] {
		r := []rune(c)
		if overlap < len(r) {
			out = append(out, r[overlap:]...)
		}
	}
	return string(out)
}
