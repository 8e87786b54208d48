package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/service"
	"github.com/crazyplay/storefront-service/internal/ws"
)

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type MarkReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid4"`
}

type MessageHandler struct {
	service *service.MessageService
	hub     *ws.Hub
}

func NewMessageHandler(svc *service.MessageService, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{service: svc, hub: hub}
}

// Thread handles GET /orders/{kind}/{id}/messages
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	kind, orderID, ok := h.threadParams(w, r)
	if !ok {
		return
	}

	msgs, err := h.service.Thread(r.Context(), kind, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_messages")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// SendAs returns a handler posting into a thread as the given sender; the
// customer route and the admin route share everything but the sender type.
func (h *MessageHandler) SendAs(sender models.SenderType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, orderID, ok := h.threadParams(w, r)
		if !ok {
			return
		}

		var req SendMessageRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body")
			return
		}

		msg, err := h.service.Send(r.Context(), kind, orderID, sender, req.Message)
		if err != nil {
			if errors.Is(err, service.ErrOrderNotFound) {
				writeError(w, http.StatusNotFound, "order_not_found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed_send_message")
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// MarkRead handles POST /orders/{kind}/{id}/messages/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req MarkReadRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id")
			return
		}
		ids = append(ids, id)
	}

	if err := h.service.MarkRead(r.Context(), ids); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_mark_read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "marked_read"})
}

// Delete handles DELETE /admin/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	found, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_delete_message")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "message_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "message_deleted"})
}

// UnreadCounts handles GET /admin/messages/unread-counts — counts of unread
// customer messages across all orders, for the admin badge.
func (h *MessageHandler) UnreadCounts(sender models.SenderType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.service.UnreadCounts(r.Context(), sender)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed_count_messages")
			return
		}
		writeJSON(w, http.StatusOK, countsJSON(counts))
	}
}

// CustomerUnreadCounts handles GET /messages/unread-counts?email= — unread
// admin replies on that customer's own orders only. The endpoint is public,
// so it never reports counts (or order ids) outside the given email.
func (h *MessageHandler) CustomerUnreadCounts(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}

	counts, err := h.service.UnreadCountsForEmail(r.Context(), models.SenderAdmin, email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_count_messages")
		return
	}
	writeJSON(w, http.StatusOK, countsJSON(counts))
}

func countsJSON(counts map[uuid.UUID]int) map[string]int {
	out := make(map[string]int, len(counts))
	for id, n := range counts {
		out[id.String()] = n
	}
	return out
}

// Subscribe handles GET /ws/orders/{kind}/{id}/messages — live thread updates
// over a websocket instead of polling the thread endpoint.
func (h *MessageHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	kind, orderID, ok := h.threadParams(w, r)
	if !ok {
		return
	}
	h.hub.Serve(w, r, service.ThreadTopic(kind, orderID))
}

func (h *MessageHandler) threadParams(w http.ResponseWriter, r *http.Request) (models.OrderKind, uuid.UUID, bool) {
	kind, ok := kindParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind")
		return "", uuid.Nil, false
	}
	orderID, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return "", uuid.Nil, false
	}
	return kind, orderID, true
}
