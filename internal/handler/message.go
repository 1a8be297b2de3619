package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/altruria/farmstore/internal/domain/message"
)

type messageResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(m message.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Sender:    string(m.Sender),
		Text:      m.Text,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

func toMessageResponses(msgs []message.Message) []messageResponse {
	out := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = toMessageResponse(m)
	}
	return out
}

type createMessageRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

func (h *Handler) createMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	var req createMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.messages.Send(r.Context(), id, req.UserID, req.Text)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageResponse(*m))
}

func (h *Handler) listUserMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	msgs, err := h.messages.ListForUser(r.Context(), id, chi.URLParam(r, "user_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponses(msgs))
}

func (h *Handler) listUnreadMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	msgs, err := h.messages.ListUnread(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponses(msgs))
}

type markReadRequest struct {
	MessageID int64 `json:"message_id"`
}

func (h *Handler) markMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	var req markReadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.messages.MarkRead(r.Context(), id, req.MessageID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponse(*m))
}
