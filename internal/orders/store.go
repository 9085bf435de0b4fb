package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store adalah kontrak document store utk koleksi orders. Update memakai
// version check: tulisan di atas versi basi ditolak (ErrVersionConflict),
// bukan last-write-wins diam-diam.
type Store interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	Update(ctx context.Context, o *Order) (*Order, error)
}

type PGStore struct{ DB *pgxpool.Pool }

const orderCols = `id, user_id, user_email, user_name, items, total_amount,
	status, payment_status, payment_method, shipping, admin_notes,
	delivery_files, version, created_at, updated_at`

func (s *PGStore) Insert(ctx context.Context, o *Order) error {
	items, shipping, files, err := marshalDocs(o)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
		INSERT INTO orders(id, user_id, user_email, user_name, items, total_amount,
		                   status, payment_status, payment_method, shipping,
		                   admin_notes, delivery_files, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		o.ID, o.UserID, o.UserEmail, o.UserName, items, o.TotalAmount,
		o.Status, o.PaymentStatus, o.PaymentMethod, shipping,
		o.AdminNotes, files, o.Version, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id string) (*Order, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (s *PGStore) List(ctx context.Context) ([]Order, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+orderCols+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// Update menulis seluruh dokumen dengan syarat versi belum berubah.
// Return row hasil UPDATE sebagai state otoritatif utk rekonsiliasi cache.
func (s *PGStore) Update(ctx context.Context, o *Order) (*Order, error) {
	items, shipping, files, err := marshalDocs(o)
	if err != nil {
		return nil, err
	}
	row := s.DB.QueryRow(ctx, `
		UPDATE orders
		SET status=$3, payment_status=$4, payment_method=$5, shipping=$6,
		    admin_notes=$7, delivery_files=$8, items=$9,
		    version=version+1, updated_at=now()
		WHERE id=$1 AND version=$2
		RETURNING `+orderCols,
		o.ID, o.Version,
		o.Status, o.PaymentStatus, o.PaymentMethod, shipping,
		o.AdminNotes, files, items,
	)
	saved, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// bedakan hilang vs versi basi
		if _, gerr := s.Get(ctx, o.ID); gerr != nil {
			return nil, gerr
		}
		return nil, ErrVersionConflict
	}
	return saved, err
}

func marshalDocs(o *Order) (items, shipping, files []byte, err error) {
	if items, err = json.Marshal(o.Items); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal items: %w", err)
	}
	if shipping, err = json.Marshal(o.ShippingAddress); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal shipping: %w", err)
	}
	if o.DeliveryFiles == nil {
		o.DeliveryFiles = []DeliveryFile{}
	}
	if files, err = json.Marshal(o.DeliveryFiles); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal delivery files: %w", err)
	}
	return items, shipping, files, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var items, shipping, files []byte
	err := row.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.UserName, &items, &o.TotalAmount,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &shipping, &o.AdminNotes,
		&files, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(shipping, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping: %w", err)
	}
	if err := json.Unmarshal(files, &o.DeliveryFiles); err != nil {
		return nil, fmt.Errorf("decode delivery files: %w", err)
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}
