package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ballotbox/api/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

// CastVote godoc
// @Summary      Casts the caller's vote on a poll
// @Description  One vote per user per poll; a repeat cast returns 409 and leaves the tally unchanged.
// @Tags         votes
// @Success      200
// @Failure      400
// @Failure      401
// @Failure      404
// @Failure      409
// @Router       /polls/{id}/vote/{choiceID} [post]
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid poll id")
		return
	}
	choiceID, err := uuid.Parse(chi.URLParam(r, "choiceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid choice id")
		return
	}

	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "voting requires an identity")
		return
	}

	receipt, err := h.service.CastVote(r.Context(), ports.CastVoteInput{
		PollID:   pollID,
		ChoiceID: choiceID,
		UserID:   userID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

func (h *VoteHandler) MyVote(w http.ResponseWriter, r *http.Request) {
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

	vote, err := h.service.GetVote(r.Context(), pollID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if vote == nil {
		writeError(w, http.StatusNotFound, "not_found", "no vote on this poll")
		return
	}

	writeJSON(w, http.StatusOK, vote)
}
