package chat

import (
	"errors"
	"time"
)

type MessageType string

const (
	TypeCustomerMessage MessageType = "customer_message"
	TypeSellerReply     MessageType = "seller_reply"
)

func (t MessageType) Valid() bool {
	return t == TypeCustomerMessage || t == TypeSellerReply
}

type Message struct {
	ID            string      `json:"id"`
	ChatID        string      `json:"chatId"`
	UID           string      `json:"uid"`
	Sender        string      `json:"sender"`
	Text          string      `json:"text"`
	Type          MessageType `json:"type"`
	Read          bool        `json:"read"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
	CustomerName  string      `json:"customerName,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

// Thread adalah ringkasan satu percakapan utk monitor admin.
type Thread struct {
	ChatID        string    `json:"chatId"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerName  string    `json:"customerName,omitempty"`
	LastText      string    `json:"lastText"`
	LastAt        time.Time `json:"lastAt"`
	Unread        int       `json:"unread"`
}

var (
	ErrEmptyText   = errors.New("message text is empty")
	ErrEmptyChatID = errors.New("message needs a chat id")
	ErrBadType     = errors.New("message type must be customer_message or seller_reply")
)

func (m *Message) Validate() error {
	if m.ChatID == "" {
		return ErrEmptyChatID
	}
	if m.Text == "" {
		return ErrEmptyText
	}
	if !m.Type.Valid() {
		return ErrBadType
	}
	return nil
}
