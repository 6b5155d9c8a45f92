package ats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOpenAI returns a server that answers every chat completion with
// the given content.
func stubOpenAI(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestEvaluateParsesReport(t *testing.T) {
	reply := `{
		"overall_score": 85,
		"formatting_score": 80,
		"keyword_score": 75,
		"keyword_match": 70,
		"skills_check": 90,
		"experience_check": 88,
		"grammar_check": 95,
		"contact_info_check": 100,
		"file_check": 90,
		"job_title_match": 80,
		"education_check": 85,
		"certification_check": 60,
		"professional_summary_check": 75,
		"customization_check": 70,
		"consistency_check": 85,
		"visual_consistency_check": 80,
		"action_oriented_language_check": 78,
		"file_metadata_check": 82,
		"recommendations": ["Add more keywords", "Quantify achievements", "Shorten summary"]
	}`
	server := stubOpenAI(t, reply)
	defer server.Close()

	client := NewClient("test-key", "gpt-3.5-turbo", server.URL)

	report, _, err := client.Evaluate(context.Background(), "John Doe, software engineer with 5 years of Go experience")
	require.NoError(t, err)
	assert.Equal(t, 85, report.OverallScore)
	assert.Equal(t, 100, report.ContactInfoCheck)
	assert.Len(t, report.Recommendations, 3)
}

func TestEvaluateStripsCodeFences(t *testing.T) {
	reply := "```json\n{\"overall_score\": 72, \"recommendations\": [\"Tighten formatting\"]}\n```"
	server := stubOpenAI(t, reply)
	defer server.Close()

	client := NewClient("test-key", "gpt-3.5-turbo", server.URL)

	report, _, err := client.Evaluate(context.Background(), "some cv text")
	require.NoError(t, err)
	assert.Equal(t, 72, report.OverallScore)
}

func TestEvaluateMalformedReply(t *testing.T) {
	server := stubOpenAI(t, "I could not evaluate this CV, sorry.")
	defer server.Close()

	client := NewClient("test-key", "gpt-3.5-turbo", server.URL)

	report, raw, err := client.Evaluate(context.Background(), "some cv text")
	assert.ErrorIs(t, err, ErrMalformedReport)
	assert.Nil(t, report)
	assert.Equal(t, "I could not evaluate this CV, sorry.", raw)
}

func TestEvaluateTruncatesLongCV(t *testing.T) {
	var captured string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		captured = req.Messages[1].Content

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"overall_score": 50}`}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-3.5-turbo", server.URL)

	long := make([]byte, 20000)
	for i := range long {
		long[i] = 'a'
	}
	_, _, err := client.Evaluate(context.Background(), string(long))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(captured), maxPromptChars+len(evaluationUserPrompt))
}

func TestEvaluateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-3.5-turbo", server.URL)

	_, _, err := client.Evaluate(context.Background(), "some cv text")
	assert.Error(t, err)
}

func TestAskAboutCV(t *testing.T) {
	server := stubOpenAI(t, "  The candidate has five years of experience.  ")
	defer server.Close()

	client := NewClient("test-key", "gpt-3.5-turbo", server.URL)

	answer, err := client.AskAboutCV(context.Background(), "cv text here", "How many years of experience?")
	require.NoError(t, err)
	assert.Equal(t, "The candidate has five years of experience.", answer)
}

func TestMatchResumes(t *testing.T) {
	job := "Looking for a Go developer with PostgreSQL and Docker experience"
	resumes := []string{
		"Senior Go developer, PostgreSQL, Docker, Kubernetes",
		"Graphic designer with Photoshop and Illustrator skills",
		"",
	}

	scores := MatchResumes(job, resumes)
	require.Len(t, scores, 3)

	assert.Greater(t, scores[0], scores[1])
	assert.Zero(t, scores[2])
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestMatchResumesIdenticalText(t *testing.T) {
	job := "backend engineer golang microservices"
	scores := MatchResumes(job, []string{job})
	require.Len(t, scores, 1)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
}

func TestCleanJSONResponse(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse(`{"a":1}`))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 10))

	// "é" is two bytes; a limit landing mid-rune must back up, not split.
	assert.Equal(t, "h", truncate("héllo", 2))

	long := strings.Repeat("é", 4000)
	cut := truncate(long, maxPromptChars)
	assert.LessOrEqual(t, len(cut), maxPromptChars)
	assert.True(t, utf8.ValidString(cut))
}
