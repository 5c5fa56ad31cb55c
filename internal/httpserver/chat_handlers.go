package httpserver

import (
	"encoding/json"
	"net/http"

	"mediwallet/internal/domain"
)

type sendMessageRequest struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Message    string `json:"message"`
}

type markReadRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// handleSendMessage godoc
// @Summary      Send a direct message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        input body sendMessageRequest true "Message"
// @Success      201  {object}  domain.ChatMessage
// @Failure      400  {object}  map[string]string
// @Router       /chat/messages [post]
func handleSendMessage(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		msg, err := b.SendMessage(r.Context(), req.SenderID, req.ReceiverID, req.Message)
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// handleListMessages godoc
// @Summary      Messages between two users
// @Tags         chat
// @Produce      json
// @Param        user  query  string  true  "One participant"
// @Param        with  query  string  true  "The other participant"
// @Success      200  {array}  domain.ChatMessage
// @Router       /chat/messages [get]
func handleListMessages(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, with := r.URL.Query().Get("user"), r.URL.Query().Get("with")
		if user == "" || with == "" {
			badRequest(w, "user and with are required")
			return
		}
		msgs, err := b.GetMessages(r.Context(), user, with)
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(msgs))
	}
}

func handleMarkRead(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req markReadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if req.From == "" || req.To == "" {
			badRequest(w, "from and to are required")
			return
		}
		if err := b.MarkAsRead(r.Context(), req.From, req.To); err != nil {
			errs.write(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListConversations(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convs, err := b.GetConversations(r.Context(), r.URL.Query().Get("user"))
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(convs))
	}
}
