package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type choiceJSON struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Votes      int64     `json:"votes"`
	Percentage float64   `json:"percentage"`
}

type pollJSON struct {
	ID           uuid.UUID    `json:"id"`
	Question     string       `json:"question"`
	CreatedBy    uuid.UUID    `json:"created_by"`
	PubDate      time.Time    `json:"pub_date"`
	Active       bool         `json:"active"`
	Choices      []choiceJSON `json:"choices"`
	TotalVotes   int64        `json:"total_votes"`
	UserHasVoted bool         `json:"user_has_voted"`
}

func (app *TestApp) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (app *TestApp) createPoll(t *testing.T, token, question string, choices []string) pollJSON {
	t.Helper()

	resp := app.do(t, http.MethodPost, "/api/polls", token, map[string]any{
		"question": question,
		"choices":  choices,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[pollJSON](t, resp)
}

func (app *TestApp) castVote(t *testing.T, token string, pollID, choiceID uuid.UUID) *http.Response {
	t.Helper()
	return app.do(t, http.MethodPost, fmt.Sprintf("/api/polls/%s/vote/%s", pollID, choiceID), token, nil)
}
