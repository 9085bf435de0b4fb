package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/solvesmart/storefront/internal/auth"
	"github.com/solvesmart/storefront/internal/chat"
)

type ChatHandler struct {
	Store    *chat.Store
	Sessions *auth.Sessions
}

type sendMessageReq struct {
	Text string `json:"text"`
}

func (h *ChatHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireUser)
		r.Get("/chat/messages", h.listMine)
		r.Post("/chat/messages", h.sendCustomer)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireAdmin)
		r.Get("/admin/chats", h.threads)
		r.Get("/admin/chats/{chatID}/messages", h.listThread)
		r.Post("/admin/chats/{chatID}/messages", h.sendReply)
		r.Post("/admin/chats/{chatID}/read", h.markRead)
	})
}

// Satu thread per customer: chatId = uid.
func (h *ChatHandler) listMine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msgs, err := h.Store.ListThread(ctx, id.UID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) sendCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req sendMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	m := &chat.Message{
		ChatID:        id.UID,
		UID:           id.UID,
		Sender:        id.Name,
		Text:          req.Text,
		Type:          chat.TypeCustomerMessage,
		CustomerEmail: id.Email,
		CustomerName:  id.Name,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Insert(ctx, m); err != nil {
		if errors.Is(err, chat.ErrEmptyText) {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *ChatHandler) threads(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	threads, err := h.Store.Threads(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if threads == nil {
		threads = []chat.Thread{}
	}
	writeJSON(w, http.StatusOK, threads)
}

func (h *ChatHandler) listThread(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msgs, err := h.Store.ListThread(ctx, chi.URLParam(r, "chatID"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) sendReply(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req sendMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	m := &chat.Message{
		ChatID: chi.URLParam(r, "chatID"),
		UID:    id.UID,
		Sender: id.Name,
		Text:   req.Text,
		Type:   chat.TypeSellerReply,
		Read:   true, // balasan seller tidak masuk hitungan unread
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Insert(ctx, m); err != nil {
		if errors.Is(err, chat.ErrEmptyText) {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *ChatHandler) markRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.MarkRead(ctx, chi.URLParam(r, "chatID")); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
