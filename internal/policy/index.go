package policy

import (
	"math"
	"regexp"
	"strings"
)

var (
	tokenPattern  = regexp.MustCompile(`[a-zA-Z]{2,}`)
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	numberPattern = regexp.MustCompile(`\b\d{6,}\b`)
)

// index holds per-document token frequency vectors for lexical scoring.
type index struct {
	vectors map[string]map[string]int
}

func buildIndex(docs []Document) *index {
	vectors := make(map[string]map[string]int, len(docs))
	for _, doc := range docs {
		text := strings.Join([]string{doc.Title, doc.Category, doc.Audience, doc.Content, strings.Join(doc.Tags, " ")}, " ")
		vectors[doc.ID] = tokenize(text)
	}
	return &index{vectors: vectors}
}

// score computes the cosine similarity between the question vector and the
// indexed document vector.
func (ix *index) score(docID string, question map[string]int) float64 {
	return cosineSimilarity(question, ix.vectors[docID])
}

func tokenize(text string) map[string]int {
	counts := make(map[string]int)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		counts[token]++
	}
	return counts
}

func cosineSimilarity(a, b map[string]int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dot := 0
	for token, weight := range a {
		if other, ok := b[token]; ok {
			dot += weight * other
		}
	}
	if dot == 0 {
		return 0
	}
	return float64(dot) / (norm(a) * norm(b))
}

func norm(vec map[string]int) float64 {
	sum := 0
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(float64(sum))
}

// sanitizeQuestion strips direct identifiers before a question is stored or
// logged: email addresses and long digit runs (employee or phone numbers).
func sanitizeQuestion(question string) string {
	question = emailPattern.ReplaceAllString(question, "[REDACTED_EMAIL]")
	question = numberPattern.ReplaceAllString(question, "[REDACTED_NUMBER]")
	return question
}
