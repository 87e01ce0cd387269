// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/models"
)

// ApplyVote adds one vote to the chosen answer and, when the voter names a
// previous answer in the same question, takes one vote back from it. Counts
// never drop below zero. Re-submitting the same answer is a no-op and
// reports changed=false.
func ApplyVote(poll *models.Poll, v models.Vote) (changed bool, err error) {
	q := findQuestion(poll, v.QuestionID)
	if q == nil {
		return false, fmt.Errorf("question %d: %w", v.QuestionID, models.ErrInvalidQuestion)
	}
	next := findAnswer(q, v.AnswerID)
	if next == nil {
		return false, fmt.Errorf("answer %d: %w", v.AnswerID, models.ErrInvalidAnswer)
	}
	if v.PreviousAnswerID != nil && *v.PreviousAnswerID == v.AnswerID {
		return false, nil
	}

	next.Votes++
	if v.PreviousAnswerID != nil {
		if prev := findAnswer(q, *v.PreviousAnswerID); prev != nil && prev.Votes > 0 {
			prev.Votes--
		}
	}
	return true, nil
}

func findQuestion(poll *models.Poll, id int) *models.Question {
	for i := range poll.Questions {
		if poll.Questions[i].ID == id {
			return &poll.Questions[i]
		}
	}
	return nil
}

func findAnswer(q *models.Question, id int) *models.Answer {
	for i := range q.Answers {
		if q.Answers[i].ID == id {
			return &q.Answers[i]
		}
	}
	return nil
}

// CastVote applies v to the owner's active poll and returns the poll as
// stored afterwards.
func (m *Manager) CastVote(ctx context.Context, owner string, v models.Vote) (models.Poll, error) {
	unlock := m.locks.Lock(owner)
	defer unlock()

	poll, err := m.activeLocked(ctx, owner)
	if err != nil {
		return models.Poll{}, err
	}
	changed, err := ApplyVote(&poll, v)
	if err != nil {
		return models.Poll{}, err
	}
	if !changed {
		return poll, nil
	}
	if err := m.polls.SavePoll(ctx, poll); err != nil {
		return models.Poll{}, err
	}

	log.Debug().
		Str("owner", owner).
		Str("poll_id", poll.ID).
		Int("question_id", v.QuestionID).
		Int("answer_id", v.AnswerID).
		Msg("Vote recorded")
	return poll, nil
}
