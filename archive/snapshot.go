// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package archive

import (
	"math"
	"time"

	"github.com/danielhkuo/livepoll/models"
)

// Reasons recorded in a snapshot.
const (
	ReasonEnded   = "ended"   // poll deactivated, replaced, or deleted
	ReasonUpdated = "updated" // manual archive of the running poll
	ReasonLive    = "live"    // on-demand export, never stored
)

type AnswerResult struct {
	ID         int     `json:"id"`
	Text       string  `json:"text"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type QuestionResult struct {
	ID         int            `json:"id"`
	Text       string         `json:"text"`
	TotalVotes int            `json:"total_votes"`
	Answers    []AnswerResult `json:"answers"`
}

// Snapshot is the rendered, immutable content of a result artifact.
type Snapshot struct {
	PollID      string           `json:"poll_id"`
	Title       string           `json:"title"`
	Owner       string           `json:"owner"`
	Reason      string           `json:"reason"`
	GeneratedAt time.Time        `json:"generated_at"`
	Questions   []QuestionResult `json:"questions"`
}

// NewSnapshot renders poll's current tallies.
func NewSnapshot(poll models.Poll, reason string, at time.Time) Snapshot {
	snap := Snapshot{
		PollID:      poll.ID,
		Title:       poll.Title,
		Owner:       poll.Owner,
		Reason:      reason,
		GeneratedAt: at.UTC(),
		Questions:   make([]QuestionResult, 0, len(poll.Questions)),
	}
	for _, q := range poll.Questions {
		total := q.TotalVotes()
		qr := QuestionResult{
			ID:         q.ID,
			Text:       q.Text,
			TotalVotes: total,
			Answers:    make([]AnswerResult, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			qr.Answers = append(qr.Answers, AnswerResult{
				ID:         a.ID,
				Text:       a.Text,
				Votes:      a.Votes,
				Percentage: percentage(a.Votes, total),
			})
		}
		snap.Questions = append(snap.Questions, qr)
	}
	return snap
}

// percentage rounds to one decimal place; zero total yields 0.
func percentage(votes, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(votes)*1000/float64(total)) / 10
}
