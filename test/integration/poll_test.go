package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPollFlow covers the basic lifecycle: create, fetch, vote, duplicate
// rejection, and the has-voted flag.
func TestPollFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	creatorID, creatorToken := app.createUserAndToken(t)

	// Creating without an identity is rejected outright.
	resp := app.do(t, http.MethodPost, "/api/polls", "", map[string]any{
		"question": "Anonymous?",
		"choices":  []string{"A", "B"},
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	poll := app.createPoll(t, creatorToken, "Flow Test Poll", []string{"Option A", "Option B"})
	assert.Equal(t, creatorID, poll.CreatedBy)
	assert.True(t, poll.Active)
	require.Len(t, poll.Choices, 2)

	resp = app.do(t, http.MethodGet, "/api/polls/"+poll.ID.String(), creatorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode[pollJSON](t, resp)
	assert.Equal(t, poll.ID, fetched.ID)
	assert.Equal(t, int64(0), fetched.TotalVotes)
	assert.False(t, fetched.UserHasVoted)

	// Cast a vote and watch the flag flip.
	_, voterToken := app.createUserAndToken(t)
	resp = app.castVote(t, voterToken, poll.ID, poll.Choices[0].ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.do(t, http.MethodGet, "/api/polls/"+poll.ID.String(), voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched = decode[pollJSON](t, resp)
	assert.Equal(t, int64(1), fetched.TotalVotes)
	assert.True(t, fetched.UserHasVoted)

	// Same voter again: conflict, tally untouched.
	resp = app.castVote(t, voterToken, poll.ID, poll.Choices[1].ID)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	var total int64
	err := app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1", poll.ID).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCreatePollValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := app.createUserAndToken(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"no choices", map[string]any{"question": "Q?", "choices": []string{}}},
		{"blank question", map[string]any{"question": " ", "choices": []string{"A"}}},
		{"oversized choice", map[string]any{"question": "Q?", "choices": []string{strings.Repeat("x", 201)}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := app.do(t, http.MethodPost, "/api/polls", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			resp.Body.Close()
		})
	}

	// Nothing was half-created.
	var polls int
	require.NoError(t, app.DB.QueryRow("SELECT COUNT(*) FROM polls").Scan(&polls))
	assert.Equal(t, 0, polls)
}

func TestListPollsActiveNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := app.createUserAndToken(t)

	first := app.createPoll(t, token, "First", []string{"A", "B"})
	second := app.createPoll(t, token, "Second", []string{"A", "B"})
	third := app.createPoll(t, token, "Third", []string{"A", "B"})

	// Deactivate the middle one; it must drop out of the public listing.
	inactive := false
	resp := app.do(t, http.MethodPatch, "/api/polls/"+second.ID.String(), token, map[string]any{"active": &inactive})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.do(t, http.MethodGet, "/api/polls", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[[]pollJSON](t, resp)

	require.Len(t, listed, 2)
	assert.Equal(t, third.ID, listed[0].ID, "newest first")
	assert.Equal(t, first.ID, listed[1].ID)

	// The creator still sees all three under /my-polls.
	resp = app.do(t, http.MethodGet, "/api/my-polls", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mine := decode[[]pollJSON](t, resp)
	assert.Len(t, mine, 3)
}

func TestUpdatePollAuthorization(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorToken := app.createUserAndToken(t)
	_, strangerToken := app.createUserAndToken(t)

	poll := app.createPoll(t, creatorToken, "Owned", []string{"A", "B"})

	inactive := false
	resp := app.do(t, http.MethodPatch, "/api/polls/"+poll.ID.String(), strangerToken, map[string]any{"active": &inactive})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.do(t, http.MethodDelete, "/api/polls/"+poll.ID.String(), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.do(t, http.MethodDelete, "/api/polls/"+poll.ID.String(), creatorToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestDeletePollCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorToken := app.createUserAndToken(t)
	_, voterToken := app.createUserAndToken(t)

	poll := app.createPoll(t, creatorToken, "Doomed", []string{"A", "B"})
	resp := app.castVote(t, voterToken, poll.ID, poll.Choices[0].ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.do(t, http.MethodDelete, "/api/polls/"+poll.ID.String(), creatorToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	for _, table := range []string{"polls", "choices", "votes"} {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		require.NoError(t, app.DB.QueryRow(query).Scan(&count))
		assert.Equal(t, 0, count, "%s should be empty after cascade", table)
	}
}
