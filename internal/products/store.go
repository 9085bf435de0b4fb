package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct{ DB *pgxpool.Pool }

const productCols = `id, title, subtitle, price, category, images, stock, status,
	version, created_at, updated_at`

func (s *Store) Insert(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Version = 1
	images, err := json.Marshal(imagesOrEmpty(p))
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
		INSERT INTO products(id, title, subtitle, price, category, images, stock,
		                     status, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.Title, p.Subtitle, p.Price, p.Category, images, p.Stock,
		p.Status, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// Update ber-versi, sama seperti koleksi orders.
func (s *Store) Update(ctx context.Context, p *Product) (*Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	imgs, err := json.Marshal(imagesOrEmpty(p))
	if err != nil {
		return nil, err
	}
	row := s.DB.QueryRow(ctx, `
		UPDATE products
		SET title=$3, subtitle=$4, price=$5, category=$6, images=$7, stock=$8,
		    status=$9, version=version+1, updated_at=now()
		WHERE id=$1 AND version=$2
		RETURNING `+productCols,
		p.ID, p.Version,
		p.Title, p.Subtitle, p.Price, p.Category, imgs, p.Stock, p.Status,
	)
	saved, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, gerr := s.Get(ctx, p.ID); gerr != nil {
			return nil, gerr
		}
		return nil, fmt.Errorf("product %s was modified concurrently", p.ID)
	}
	return saved, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Product, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *Store) List(ctx context.Context, activeOnly bool) ([]Product, error) {
	q := `SELECT ` + productCols + ` FROM products ORDER BY created_at DESC`
	if activeOnly {
		q = `SELECT ` + productCols + ` FROM products WHERE status='Active' ORDER BY created_at DESC`
	}
	rows, err := s.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func imagesOrEmpty(p *Product) []string {
	if p.Images == nil {
		return []string{}
	}
	return p.Images
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var imgs []byte
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Price, &p.Category, &imgs,
		&p.Stock, &p.Status, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(imgs, &p.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	return &p, nil
}
