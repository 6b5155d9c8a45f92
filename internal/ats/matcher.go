package ats

import (
	"math"
	"regexp"
	"strings"
)

// Tokens of at least two word characters, matching typical vectorizer
// behaviour.
var wordPattern = regexp.MustCompile(`\b\w\w+\b`)

func tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// MatchResumes ranks each resume text against the job description using
// TF-IDF weighted cosine similarity. The vocabulary is fitted on the
// job description, so terms absent from it contribute nothing. Returns
// one similarity in [0, 1] per resume, in input order.
func MatchResumes(jobDescription string, resumeTexts []string) []float64 {
	vocab := map[string]int{}
	for _, token := range tokenize(jobDescription) {
		if _, ok := vocab[token]; !ok {
			vocab[token] = len(vocab)
		}
	}

	jobVector := vectorize(jobDescription, vocab)

	similarities := make([]float64, len(resumeTexts))
	for i, text := range resumeTexts {
		similarities[i] = cosine(jobVector, vectorize(text, vocab))
	}
	return similarities
}

// vectorize computes an l2-normalized term frequency vector over the
// fixed vocabulary.
func vectorize(text string, vocab map[string]int) []float64 {
	vec := make([]float64, len(vocab))
	for _, token := range tokenize(text) {
		if idx, ok := vocab[token]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
