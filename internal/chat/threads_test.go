package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(min int) time.Time {
	return time.Date(2025, 8, 1, 10, min, 0, 0, time.UTC)
}

func TestSummarizeThreads(t *testing.T) {
	msgs := []Message{
		{ChatID: "c1", Text: "Halo, produknya ready?", Type: TypeCustomerMessage,
			CustomerEmail: "budi@mail.com", CustomerName: "Budi", Timestamp: at(0)},
		{ChatID: "c1", Text: "Ready kak", Type: TypeSellerReply, Read: true, Timestamp: at(5)},
		{ChatID: "c1", Text: "Oke saya order", Type: TypeCustomerMessage,
			CustomerEmail: "budi@mail.com", Timestamp: at(10)},
		{ChatID: "c2", Text: "Bisa custom?", Type: TypeCustomerMessage,
			CustomerEmail: "sari@mail.com", CustomerName: "Sari", Timestamp: at(7)},
	}

	threads := SummarizeThreads(msgs)
	require.Len(t, threads, 2)

	// terbaru dulu
	assert.Equal(t, "c1", threads[0].ChatID)
	assert.Equal(t, "Oke saya order", threads[0].LastText)
	assert.Equal(t, at(10), threads[0].LastAt)
	assert.Equal(t, 2, threads[0].Unread) // seller_reply tidak dihitung
	assert.Equal(t, "Budi", threads[0].CustomerName)

	assert.Equal(t, "c2", threads[1].ChatID)
	assert.Equal(t, 1, threads[1].Unread)
}

func TestSummarizeReadMessagesNotCounted(t *testing.T) {
	msgs := []Message{
		{ChatID: "c1", Text: "a", Type: TypeCustomerMessage, Read: true, Timestamp: at(0)},
		{ChatID: "c1", Text: "b", Type: TypeSellerReply, Timestamp: at(1)},
	}
	threads := SummarizeThreads(msgs)
	require.Len(t, threads, 1)
	assert.Equal(t, 0, threads[0].Unread)
}

func TestMessageValidate(t *testing.T) {
	m := &Message{ChatID: "c1", Text: "halo", Type: TypeCustomerMessage}
	assert.NoError(t, m.Validate())

	assert.ErrorIs(t, (&Message{Text: "x", Type: TypeSellerReply}).Validate(), ErrEmptyChatID)
	assert.ErrorIs(t, (&Message{ChatID: "c", Type: TypeSellerReply}).Validate(), ErrEmptyText)
	assert.ErrorIs(t, (&Message{ChatID: "c", Text: "x", Type: "broadcast"}).Validate(), ErrBadType)
}
