package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store membaca koleksi messages lewat satu jalur query ber-index
// (chat_id, timestamp). Tidak ada fallback berjenjang: index-nya wajib ada
// (lihat db/schema.sql), gagal ya gagal.
type Store struct{ DB *pgxpool.Pool }

func (s *Store) Insert(ctx context.Context, m *Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	_, err := s.DB.Exec(ctx, `
		INSERT INTO messages(id, chat_id, uid, sender, text, type, read,
		                     customer_email, customer_name, timestamp)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.ChatID, m.UID, m.Sender, m.Text, m.Type, m.Read,
		m.CustomerEmail, m.CustomerName, m.Timestamp,
	)
	return err
}

func (s *Store) ListThread(ctx context.Context, chatID string) ([]Message, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, chat_id, uid, sender, text, type, read,
		       customer_email, customer_name, timestamp
		FROM messages WHERE chat_id=$1 ORDER BY timestamp ASC`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.UID, &m.Sender, &m.Text, &m.Type,
			&m.Read, &m.CustomerEmail, &m.CustomerName, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Threads merangkum semua percakapan: pesan terakhir + jumlah pesan customer
// yang belum dibaca, terbaru dulu.
func (s *Store) Threads(ctx context.Context) ([]Thread, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT DISTINCT ON (chat_id)
		       chat_id, customer_email, customer_name, text, timestamp,
		       (SELECT COUNT(*) FROM messages u
		        WHERE u.chat_id = m.chat_id AND u.type = 'customer_message' AND NOT u.read)
		FROM messages m
		ORDER BY chat_id, timestamp DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Thread
	for rows.Next() {
		var t Thread
		if err := rows.Scan(&t.ChatID, &t.CustomerEmail, &t.CustomerName,
			&t.LastText, &t.LastAt, &t.Unread); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortThreadsNewestFirst(out)
	return out, nil
}

func (s *Store) MarkRead(ctx context.Context, chatID string) error {
	_, err := s.DB.Exec(ctx, `
		UPDATE messages SET read = TRUE
		WHERE chat_id=$1 AND type='customer_message' AND NOT read`, chatID)
	return err
}
