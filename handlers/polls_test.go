// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/testutil"
)

func TestCreatePoll(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewPollHandler(s.Manager)
	token := s.RegisterUser(t, "alice")

	testCases := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"valid", testutil.SamplePollInput("Team lunch"), http.StatusCreated},
		{"missing title", models.PollInput{Questions: testutil.SamplePollInput("").Questions}, http.StatusBadRequest},
		{"no questions", models.PollInput{Title: "Empty"}, http.StatusBadRequest},
		{"one answer", models.PollInput{Title: "Short", Questions: []models.QuestionInput{
			{Text: "Only?", Answers: []models.AnswerInput{{Text: "Yes"}}},
		}}, http.StatusBadRequest},
		{"blank answers dropped", models.PollInput{Title: "Blanks", Questions: []models.QuestionInput{
			{Text: "Pick", Answers: []models.AnswerInput{{Text: "A"}, {Text: "  "}, {Text: "B"}}},
		}}, http.StatusCreated},
		{"blank question", models.PollInput{Title: "Blank", Questions: []models.QuestionInput{
			{Text: " ", Answers: []models.AnswerInput{{Text: "A"}, {Text: "B"}}},
		}}, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(s, h.CreatePoll, testutil.MakeRequest("POST", "/admin/polls", tc.body, testutil.BearerHeader(token)))
			testutil.AssertStatus(t, w, tc.wantStatus)
			if tc.wantStatus != http.StatusCreated {
				return
			}

			var poll models.Poll
			testutil.AssertJSON(t, w, &poll)
			if _, err := uuid.Parse(poll.ID); err != nil {
				t.Errorf("Expected UUID id, got %q", poll.ID)
			}
			if poll.Owner != "alice" || poll.IsActive {
				t.Errorf("Unexpected poll %+v", poll)
			}
			for qi, q := range poll.Questions {
				if q.ID != qi {
					t.Errorf("Question %d has id %d", qi, q.ID)
				}
				for ai, a := range q.Answers {
					if a.ID != ai || a.Votes != 0 || a.Text == "" {
						t.Errorf("Unexpected answer %+v at %d", a, ai)
					}
				}
			}
		})
	}
}

func TestCreatePoll_InvalidJSON(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewPollHandler(s.Manager)
	token := s.RegisterUser(t, "alice")

	req := httptest.NewRequest("POST", "/admin/polls", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(s, h.CreatePoll, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestPollRoutesRequireSession(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewPollHandler(s.Manager)

	w := serve(s, h.ListPolls, testutil.MakeRequest("GET", "/admin/polls", nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = serve(s, h.CreatePoll, testutil.MakeRequest("POST", "/admin/polls", testutil.SamplePollInput("x"), testutil.BearerHeader("not-a-token")))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestPollLifecycle(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewPollHandler(s.Manager)
	token := s.RegisterUser(t, "alice")
	hdr := testutil.BearerHeader(token)

	first := s.CreatePoll(t, "alice", "First", false)
	second := s.CreatePoll(t, "alice", "Second", false)

	call := func(handler http.HandlerFunc, method, id string, body any) *httptest.ResponseRecorder {
		req := testutil.MakeRequest(method, "/admin/polls/"+id, body, hdr)
		req.SetPathValue("id", id)
		return serve(s, handler, req)
	}

	// List is ordered by title.
	w := serve(s, h.ListPolls, testutil.MakeRequest("GET", "/admin/polls", nil, hdr))
	testutil.AssertStatus(t, w, http.StatusOK)
	var list models.PollListResponse
	testutil.AssertJSON(t, w, &list)
	if len(list.Polls) != 2 || list.Polls[0].ID != first.ID {
		t.Fatalf("Unexpected list %+v", list.Polls)
	}

	// Activate first, then second: first ends up inactive.
	testutil.AssertStatus(t, call(h.ActivatePoll, "POST", first.ID, nil), http.StatusOK)
	w = call(h.ActivatePoll, "POST", second.ID, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = call(h.GetPoll, "GET", first.ID, nil)
	var got models.Poll
	testutil.AssertJSON(t, w, &got)
	if got.IsActive || got.State() != models.StateInactive {
		t.Errorf("Expected first poll inactive, got state %s", got.State())
	}

	// Ending the active poll writes an artifact.
	testutil.AssertStatus(t, call(h.DeactivatePoll, "POST", second.ID, nil), http.StatusOK)
	testutil.AssertStatus(t, call(h.DeactivatePoll, "POST", second.ID, nil), http.StatusConflict)

	// Update replaces the questions.
	w = call(h.UpdatePoll, "PUT", first.ID, models.PollInput{Title: "First v2", Questions: []models.QuestionInput{
		{Text: "Ok?", Answers: []models.AnswerInput{{Text: "Yes"}, {Text: "No"}}},
	}})
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &got)
	if got.Title != "First v2" || len(got.Questions) != 1 {
		t.Errorf("Update not applied: %+v", got)
	}

	testutil.AssertStatus(t, call(h.DeletePoll, "DELETE", first.ID, nil), http.StatusOK)
	testutil.AssertStatus(t, call(h.GetPoll, "GET", first.ID, nil), http.StatusNotFound)
	testutil.AssertStatus(t, call(h.DeletePoll, "DELETE", first.ID, nil), http.StatusNotFound)
}

func TestPollIDValidation(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewPollHandler(s.Manager)
	token := s.RegisterUser(t, "alice")

	testCases := []struct {
		id         string
		wantStatus int
	}{
		{uuid.NewString(), http.StatusNotFound},
		{"../../alice/user", http.StatusBadRequest},
		{"not-a-uuid", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/admin/polls/x", nil, testutil.BearerHeader(token))
			req.SetPathValue("id", tc.id)
			testutil.AssertStatus(t, serve(s, h.GetPoll, req), tc.wantStatus)
		})
	}
}

func TestPollsAreScopedToOwner(t *testing.T) {
	s := testutil.SetupFileStack(t)
	h := NewPollHandler(s.Manager)
	s.RegisterUser(t, "alice")
	bob := s.RegisterUser(t, "bob")
	poll := s.CreatePoll(t, "alice", "Private", false)

	req := testutil.MakeRequest("GET", "/admin/polls/"+poll.ID, nil, testutil.BearerHeader(bob))
	req.SetPathValue("id", poll.ID)
	testutil.AssertStatus(t, serve(s, h.GetPoll, req), http.StatusNotFound)

	w := serve(s, h.ListPolls, testutil.MakeRequest("GET", "/admin/polls", nil, testutil.BearerHeader(bob)))
	var list models.PollListResponse
	testutil.AssertJSON(t, w, &list)
	if len(list.Polls) != 0 {
		t.Errorf("Expected bob to see no polls, got %d", len(list.Polls))
	}
}
