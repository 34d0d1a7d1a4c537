package face

import (
	"math"
)

// Threshold is the fixed acceptance bound; a comparison passes on
// score >= Threshold.
const Threshold = 0.85

type Result struct {
	Score float64
	Pass  bool
}

type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Verify compares an enrolled embedding against a live one by cosine
// similarity. Mismatched lengths truncate to the shorter vector; an all-zero
// vector scores 0 and fails. The live vector is never persisted.
func (m *Matcher) Verify(enrolled, live []float64) Result {
	score := cosineSimilarity(enrolled, live)
	return Result{
		Score: score,
		Pass:  score >= Threshold,
	}
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
