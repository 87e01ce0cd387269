// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/testutil"
)

func castVote(h *VotingHandler, owner string, vote any) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/p/"+owner+"/votes", vote, nil)
	req.SetPathValue("username", owner)
	w := httptest.NewRecorder()
	h.CastVote(w, req)
	return w
}

func intPtr(v int) *int { return &v }

func TestGetActivePoll(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewVotingHandler(s.Manager, s.Config.SessionSecret)
	s.RegisterUser(t, "alice")

	get := func(owner string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/p/"+owner, nil, nil)
		req.SetPathValue("username", owner)
		w := httptest.NewRecorder()
		h.GetActivePoll(w, req)
		return w
	}

	// Only a draft exists.
	s.CreatePoll(t, "alice", "Draft", false)
	w := get("alice")
	testutil.AssertStatus(t, w, http.StatusNotFound)
	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Message != "no active poll" {
		t.Errorf("Expected 'no active poll', got %q", errResp.Message)
	}

	live := s.CreatePoll(t, "alice", "Live", true)
	w = get("alice")
	testutil.AssertStatus(t, w, http.StatusOK)
	var poll models.Poll
	testutil.AssertJSON(t, w, &poll)
	if poll.ID != live.ID || !poll.IsActive {
		t.Errorf("Expected active poll %s, got %+v", live.ID, poll)
	}

	testutil.AssertStatus(t, get("nobody"), http.StatusNotFound)
	testutil.AssertStatus(t, get(".."), http.StatusBadRequest)
}

func TestCastVote(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewVotingHandler(s.Manager, s.Config.SessionSecret)
	s.RegisterUser(t, "alice")
	s.CreatePoll(t, "alice", "Lunch", true)

	testCases := []struct {
		name       string
		vote       models.Vote
		wantStatus int
		wantVotes  []int // question 0 tallies afterwards
	}{
		{"first vote", models.Vote{QuestionID: 0, AnswerID: 0}, http.StatusOK, []int{1, 0, 0}},
		{"second vote", models.Vote{QuestionID: 0, AnswerID: 1}, http.StatusOK, []int{1, 1, 0}},
		{"change vote", models.Vote{QuestionID: 0, AnswerID: 2, PreviousAnswerID: intPtr(0)}, http.StatusOK, []int{0, 1, 1}},
		{"same answer again", models.Vote{QuestionID: 0, AnswerID: 2, PreviousAnswerID: intPtr(2)}, http.StatusOK, []int{0, 1, 1}},
		{"previous already zero", models.Vote{QuestionID: 0, AnswerID: 1, PreviousAnswerID: intPtr(0)}, http.StatusOK, []int{0, 2, 1}},
		{"unknown question", models.Vote{QuestionID: 7, AnswerID: 0}, http.StatusBadRequest, nil},
		{"unknown answer", models.Vote{QuestionID: 1, AnswerID: 5}, http.StatusBadRequest, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := castVote(h, "alice", tc.vote)
			testutil.AssertStatus(t, w, tc.wantStatus)
			if tc.wantVotes == nil {
				return
			}

			var poll models.Poll
			testutil.AssertJSON(t, w, &poll)
			for i, want := range tc.wantVotes {
				if got := poll.Questions[0].Answers[i].Votes; got != want {
					t.Errorf("Answer %d: expected %d votes, got %d", i, want, got)
				}
			}
		})
	}
}

func TestCastVote_NoActivePoll(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewVotingHandler(s.Manager, s.Config.SessionSecret)
	s.RegisterUser(t, "alice")
	s.CreatePoll(t, "alice", "Draft", false)

	w := castVote(h, "alice", models.Vote{QuestionID: 0, AnswerID: 0})
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestCastVote_InvalidJSON(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewVotingHandler(s.Manager, s.Config.SessionSecret)

	req := httptest.NewRequest("POST", "/p/alice/votes", nil)
	req.SetPathValue("username", "alice")
	w := httptest.NewRecorder()
	h.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
