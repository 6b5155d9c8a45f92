package ats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Prompts longer than this are truncated before being sent to the model.
const maxPromptChars = 5000

// ErrMalformedReport is returned when the model reply cannot be parsed
// as a valid evaluation report. The raw reply is returned alongside so
// callers can surface it.
var ErrMalformedReport = errors.New("evaluation report is not valid JSON")

// Report is the full ATS evaluation produced by the model. Every metric
// is a 0-100 score.
type Report struct {
	OverallScore                int      `json:"overall_score"`
	FormattingScore             int      `json:"formatting_score"`
	KeywordScore                int      `json:"keyword_score"`
	KeywordMatch                int      `json:"keyword_match"`
	SkillsCheck                 int      `json:"skills_check"`
	ExperienceCheck             int      `json:"experience_check"`
	GrammarCheck                int      `json:"grammar_check"`
	ContactInfoCheck            int      `json:"contact_info_check"`
	FileCheck                   int      `json:"file_check"`
	JobTitleMatch               int      `json:"job_title_match"`
	EducationCheck              int      `json:"education_check"`
	CertificationCheck          int      `json:"certification_check"`
	ProfessionalSummaryCheck    int      `json:"professional_summary_check"`
	CustomizationCheck          int      `json:"customization_check"`
	ConsistencyCheck            int      `json:"consistency_check"`
	VisualConsistencyCheck      int      `json:"visual_consistency_check"`
	ActionOrientedLanguageCheck int      `json:"action_oriented_language_check"`
	FileMetadataCheck           int      `json:"file_metadata_check"`
	Recommendations             []string `json:"recommendations"`
}

const evaluationSystemPrompt = "You are an expert in evaluating CVs/Resumes for Applicant Tracking Systems (ATS). " +
	"When given the text of a CV/Resume, return an evaluation in JSON format with the following keys: " +
	"'overall_score' (0-100), " +
	"'formatting_score' (0-100), " +
	"'keyword_score' (0-100), " +
	"'keyword_match' (0-100) indicating how many important job-related keywords match, " +
	"'skills_check' (0-100) indicating if the CV has the required skills, " +
	"'experience_check' (0-100) indicating if the work experience is relevant, " +
	"'grammar_check' (0-100) indicating spelling and grammar accuracy, " +
	"'contact_info_check' (0-100) indicating whether contact information is correctly provided, " +
	"'file_check' (0-100) indicating if the PDF is ATS-readable, " +
	"'job_title_match' (0-100) indicating if job titles match industry standards, " +
	"'education_check' (0-100) evaluating the quality or relevance of the education section, " +
	"'certification_check' (0-100) evaluating the presence and relevance of certifications, " +
	"'professional_summary_check' (0-100) evaluating the quality of the professional summary, " +
	"'customization_check' (0-100) evaluating if the CV is tailored for the job, " +
	"'consistency_check' (0-100) evaluating consistency in formatting and style, " +
	"'visual_consistency_check' (0-100) evaluating the visual layout and consistency, " +
	"'action_oriented_language_check' (0-100) evaluating if the language is action-oriented, " +
	"'file_metadata_check' (0-100) evaluating if file metadata is optimized for ATS, " +
	"and 'recommendations' (a list of 3 specific suggestions for improvement). " +
	"Ensure that the output is valid JSON."

const evaluationUserPrompt = "Please evaluate the following CV/Resume for ATS compatibility. Provide scores (all out of 100) for the following: \n" +
	"- Overall ATS Score\n" +
	"- Formatting Score (ATS-friendly layout)\n" +
	"- Keyword Score (overall keyword optimization)\n" +
	"- Keyword Match (number of important job-related keywords that match)\n" +
	"- Skills Check (presence of required skills)\n" +
	"- Experience Check (relevance of work experience)\n" +
	"- Grammar Check (spelling and grammar accuracy)\n" +
	"- Contact Info Check (correct contact information)\n" +
	"- File Check (PDF readability by ATS)\n" +
	"- Job Title Match (job titles matching industry standards)\n" +
	"- Education Check (quality and relevance of education details)\n" +
	"- Certification Check (presence and relevance of certifications)\n" +
	"- Professional Summary Check (quality of the professional summary)\n" +
	"- Customization Check (tailoring of the CV for the job)\n" +
	"- Consistency Check (consistency in formatting and style)\n" +
	"- Visual Consistency Check (visual layout and consistency)\n" +
	"- Action-Oriented Language Check (use of action verbs and language)\n" +
	"- File Metadata Check (optimization of file metadata for ATS)\n" +
	"Also, include 3 actionable recommendations for improvement. " +
	"Return your answer as a valid JSON object with keys: " +
	"'overall_score', 'formatting_score', 'keyword_score', 'keyword_match', 'skills_check', 'experience_check', " +
	"'grammar_check', 'contact_info_check', 'file_check', 'job_title_match', 'education_check', 'certification_check', " +
	"'professional_summary_check', 'customization_check', 'consistency_check', 'visual_consistency_check', " +
	"'action_oriented_language_check', 'file_metadata_check', and 'recommendations'.\n\n" +
	"CV/Resume Content:\n%s"

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// cleanJSONResponse strips markdown code fences the model sometimes
// wraps its JSON in.
func cleanJSONResponse(response string) string {
	cleaned := fenceOpen.ReplaceAllString(strings.TrimSpace(response), "")
	cleaned = fenceClose.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back up to a rune boundary so a multi-byte character is never split.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Evaluate scores the extracted CV text against ATS criteria. On parse
// failure it returns a nil report, the raw model reply and
// ErrMalformedReport.
func (c *Client) Evaluate(ctx context.Context, cvText string) (*Report, string, error) {
	prompt := fmt.Sprintf(evaluationUserPrompt, truncate(cvText, maxPromptChars))

	content, err := c.ChatCompletion(ctx, evaluationSystemPrompt, prompt)
	if err != nil {
		return nil, "", err
	}

	cleaned := cleanJSONResponse(content)

	var report Report
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, content, ErrMalformedReport
	}

	return &report, content, nil
}
