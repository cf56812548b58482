package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/domain"
	"github.com/ballotbox/api/internal/core/ports"
)

type PollHandler struct {
	pollService ports.PollService
	voteService ports.VoteService
}

func NewPollHandler(pollService ports.PollService, voteService ports.VoteService) *PollHandler {
	return &PollHandler{
		pollService: pollService,
		voteService: voteService,
	}
}

type createPollRequest struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
}

type updatePollRequest struct {
	Question *string `json:"question"`
	Active   *bool   `json:"active"`
}

type choiceResponse struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Votes      int64     `json:"votes"`
	Percentage float64   `json:"percentage"`
}

type pollResponse struct {
	ID           uuid.UUID        `json:"id"`
	Question     string           `json:"question"`
	CreatedBy    uuid.UUID        `json:"created_by"`
	PubDate      time.Time        `json:"pub_date"`
	Active       bool             `json:"active"`
	Choices      []choiceResponse `json:"choices"`
	TotalVotes   int64            `json:"total_votes"`
	UserHasVoted bool             `json:"user_has_voted"`
}

func newPollResponse(poll *domain.Poll, hasVoted bool) pollResponse {
	results := domain.NewPollResults(poll)

	resp := pollResponse{
		ID:           poll.ID,
		Question:     poll.Question,
		CreatedBy:    poll.CreatedBy,
		PubDate:      poll.PubDate,
		Active:       poll.Active,
		Choices:      make([]choiceResponse, 0, len(results.Choices)),
		TotalVotes:   results.TotalVotes,
		UserHasVoted: hasVoted,
	}
	for _, c := range results.Choices {
		resp.Choices = append(resp.Choices, choiceResponse{
			ID:         c.ChoiceID,
			Text:       c.Text,
			Votes:      c.Votes,
			Percentage: c.Percentage,
		})
	}
	return resp
}

// CreatePoll godoc
// @Summary      Creates a poll with its choices
// @Description  The poll starts active; the authenticated caller becomes its creator.
// @Tags         polls
// @Accept       json
// @Success      201
// @Failure      400
// @Failure      401
// @Router       /polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}

	poll, err := h.pollService.Create(r.Context(), ports.CreatePollInput{
		Question:  req.Question,
		Choices:   req.Choices,
		CreatedBy: userID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newPollResponse(poll, false))
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollService.ListPolls(r.Context(), ports.ListPollsInput{ActiveOnly: true})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writePolls(w, r, polls)
}

func (h *PollHandler) MyPolls(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	polls, err := h.pollService.ListByCreator(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writePolls(w, r, polls)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid poll id")
		return
	}

	poll, err := h.pollService.GetPoll(r.Context(), pollID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newPollResponse(poll, h.hasVoted(r, poll.ID)))
}

func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid poll id")
		return
	}

	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	var req updatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}

	poll, err := h.pollService.Update(r.Context(), pollID, userID, ports.UpdatePollInput{
		Question: req.Question,
		Active:   req.Active,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newPollResponse(poll, h.hasVoted(r, poll.ID)))
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid poll id")
		return
	}

	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	if err := h.pollService.Delete(r.Context(), pollID, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PollHandler) writePolls(w http.ResponseWriter, r *http.Request, polls []*domain.Poll) {
	responses := make([]pollResponse, 0, len(polls))
	for _, poll := range polls {
		responses = append(responses, newPollResponse(poll, h.hasVoted(r, poll.ID)))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *PollHandler) hasVoted(r *http.Request, pollID uuid.UUID) bool {
	userID, ok := callerID(r)
	if !ok {
		return false
	}
	hasVoted, err := h.voteService.HasVoted(r.Context(), pollID, userID)
	if err != nil {
		return false
	}
	return hasVoted
}
