package ats

import (
	"context"
	"fmt"
	"strings"
)

const chatSystemPrompt = "You are an AI that answers questions related to CVs and resumes."

// AskAboutCV answers a free-form question grounded in the extracted CV
// text.
func (c *Client) AskAboutCV(ctx context.Context, cvText, question string) (string, error) {
	prompt := fmt.Sprintf(
		"Based on the following CV/Resume, answer this question:\n\n%s\n\nQuestion: %s",
		truncate(cvText, maxPromptChars),
		question,
	)

	answer, err := c.ChatCompletion(ctx, chatSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
