package merchant

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alovak/qris-playground/merchant/models"
	"github.com/alovak/qris-playground/qris"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
)

var (
	ErrNotFound = fmt.Errorf("not found")
	ErrConflict = fmt.Errorf("conflict")
)

const schema = `
CREATE SCHEMA IF NOT EXISTS qris;
CREATE TABLE IF NOT EXISTS qris.payments (
    payment_id    uuid PRIMARY KEY,
    nmid          text NOT NULL,
    merchant_name text NOT NULL,
    merchant_city text NOT NULL,
    nns           text NOT NULL,
    scheme_id     text NOT NULL,
    amount        numeric NOT NULL,
    fee           numeric NOT NULL,
    fee_type      text NOT NULL,
    total         numeric NOT NULL,
    payload       text NOT NULL,
    payload_hash  bytea NOT NULL UNIQUE,
    created_at    timestamptz NOT NULL,
    expires_at    timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS payments_nmid_created_idx ON qris.payments (nmid, created_at DESC);
`

const paymentColumns = `payment_id, nmid, merchant_name, merchant_city, nns, scheme_id,
    amount, fee, fee_type, total, payload, created_at, expires_at`

// Repository stores issued payments in memory, or in Postgres when built
// with NewPGRepository.
type Repository struct {
	Payments []*models.Payment

	mu        sync.RWMutex
	hashIndex map[string]*models.Payment
	db        *sql.DB
	hashKey   []byte
}

func NewRepository(hashKey []byte) *Repository {
	return &Repository{
		Payments:  make([]*models.Payment, 0),
		hashIndex: make(map[string]*models.Payment),
		hashKey:   hashKey,
	}
}

// NewPGRepository constructs a db-backed repository.
func NewPGRepository(db *sql.DB, hashKey []byte) *Repository {
	return &Repository{db: db, hashKey: hashKey}
}

// Migrate creates the payments schema. It is a no-op in memory.
func (r *Repository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// CreatePayment stores p. A payment with the same payload already stored
// yields ErrConflict.
func (r *Repository) CreatePayment(ctx context.Context, p *models.Payment) error {
	hash := hashPayload(p.Payload, r.hashKey)

	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		key := hex.EncodeToString(hash)
		if _, ok := r.hashIndex[key]; ok {
			return fmt.Errorf("payload already issued: %w", ErrConflict)
		}
		stored := *p
		r.Payments = append(r.Payments, &stored)
		r.hashIndex[key] = &stored
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO qris.payments(`+paymentColumns+`, payload_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    `, p.ID, p.NMID, p.MerchantName, p.MerchantCity, p.NNS, p.SchemeID,
		p.Amount, p.Fee, string(p.FeeType), p.Total, p.Payload, p.CreatedAt, p.ExpiresAt, hash)
	if isUniqueViolation(err) {
		return fmt.Errorf("payload already issued: %w", ErrConflict)
	}
	return err
}

func (r *Repository) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		for _, p := range r.Payments {
			if p.ID == id {
				cp := *p
				return &cp, nil
			}
		}
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM qris.payments WHERE payment_id::text=$1`, id)
	return scanPayment(row)
}

// FindPaymentByPayload returns the payment issued for exactly payload.
func (r *Repository) FindPaymentByPayload(ctx context.Context, payload string) (*models.Payment, error) {
	hash := hashPayload(payload, r.hashKey)
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		if p, ok := r.hashIndex[hex.EncodeToString(hash)]; ok {
			cp := *p
			return &cp, nil
		}
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM qris.payments WHERE payload_hash=$1`, hash)
	return scanPayment(row)
}

// ListPayments returns payments newest first, restricted to nmid when it
// is not empty.
func (r *Repository) ListPayments(ctx context.Context, nmid string) ([]*models.Payment, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		out := make([]*models.Payment, 0)
		for _, p := range r.Payments {
			if nmid == "" || p.NMID == nmid {
				cp := *p
				out = append(out, &cp)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT `+paymentColumns+` FROM qris.payments
         WHERE $1 = '' OR nmid = $1
         ORDER BY created_at DESC
    `, nmid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RenewPayment reissues the payment id for the amount split and validity
// window of fresh. Identity and payload are kept.
func (r *Repository) RenewPayment(ctx context.Context, id string, fresh *models.Payment) (*models.Payment, error) {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, p := range r.Payments {
			if p.ID == id {
				p.Amount = fresh.Amount
				p.Fee = fresh.Fee
				p.FeeType = fresh.FeeType
				p.Total = fresh.Total
				p.CreatedAt = fresh.CreatedAt
				p.ExpiresAt = fresh.ExpiresAt
				cp := *p
				return &cp, nil
			}
		}
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
        UPDATE qris.payments
           SET amount=$2, fee=$3, fee_type=$4, total=$5, created_at=$6, expires_at=$7
         WHERE payment_id::text=$1
        RETURNING `+paymentColumns, id, fresh.Amount, fresh.Fee, string(fresh.FeeType), fresh.Total,
		fresh.CreatedAt, fresh.ExpiresAt)
	return scanPayment(row)
}

// Ping returns DB readiness
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(row scanner) (*models.Payment, error) {
	var p models.Payment
	var feeType string
	err := row.Scan(&p.ID, &p.NMID, &p.MerchantName, &p.MerchantCity, &p.NNS, &p.SchemeID,
		&p.Amount, &p.Fee, &feeType, &p.Total, &p.Payload, &p.CreatedAt, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.FeeType = qris.FeeType(feeType)
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
