// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/livepoll/models"
)

const minAnswers = 2

// buildQuestions validates input and returns the trimmed title and the
// questions with positional ids and zeroed counters. Blank answers are
// dropped before the minimum is checked.
func buildQuestions(input models.PollInput) (string, []models.Question, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", nil, models.NewValidationError("title", "is required")
	}
	if len(input.Questions) == 0 {
		return "", nil, models.NewValidationError("questions", "at least one question is required")
	}

	questions := make([]models.Question, 0, len(input.Questions))
	for i, qi := range input.Questions {
		text := strings.TrimSpace(qi.Text)
		if text == "" {
			return "", nil, models.NewValidationError(fmt.Sprintf("questions[%d].text", i), "is required")
		}

		answers := make([]models.Answer, 0, len(qi.Answers))
		for _, ai := range qi.Answers {
			at := strings.TrimSpace(ai.Text)
			if at == "" {
				continue
			}
			answers = append(answers, models.Answer{ID: len(answers), Text: at})
		}
		if len(answers) < minAnswers {
			return "", nil, models.NewValidationError(fmt.Sprintf("questions[%d].answers", i),
				"at least %d non-empty answers are required", minAnswers)
		}

		questions = append(questions, models.Question{ID: i, Text: text, Answers: answers})
	}
	return title, questions, nil
}
