package merchant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alovak/qris-playground/internal/expiry"
	"github.com/alovak/qris-playground/internal/qrimage"
	"github.com/alovak/qris-playground/merchant/models"
	"github.com/alovak/qris-playground/qris"
	"github.com/google/uuid"
)

type Service struct {
	repo    *Repository
	cfg     *Config
	codec   *qrimage.Codec
	metrics *Metrics
	now     func() time.Time
}

func NewService(repo *Repository, cfg *Config, metrics *Metrics) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Service{
		repo:    repo,
		cfg:     cfg,
		codec:   qrimage.New(cfg.QRSize),
		metrics: metrics,
		now:     time.Now,
	}
}

// CreatePayment builds a dynamic payload for req and stores it. When the
// same payload was issued before for the same amount, fee and validity
// window, the stored payment is returned with created set to false. An
// expired one is reissued for req. A live one issued for a different split
// or window yields ErrConflict.
func (s *Service) CreatePayment(ctx context.Context, req models.CreatePayment) (payment *models.Payment, created bool, err error) {
	defer func() {
		switch {
		case err != nil:
			s.metrics.PaymentsTotal.WithLabelValues("rejected").Inc()
		case created:
			s.metrics.PaymentsTotal.WithLabelValues("created").Inc()
			s.metrics.PaymentAmount.Observe(payment.Total.InexactFloat64())
		default:
			s.metrics.PaymentsTotal.WithLabelValues("deduplicated").Inc()
		}
	}()

	ttl := s.cfg.PaymentTTL
	if req.TTL != "" {
		if ttl, err = expiry.ParseTTL(req.TTL); err != nil {
			return nil, false, &qris.ValidationError{Message: err.Error()}
		}
	}
	ttl = expiry.TTL(ttl)

	spec := req.AmountSpec()
	total, fee, err := spec.Total()
	if err != nil {
		return nil, false, err
	}
	payload, err := qris.BuildPayment(req.Payload, spec)
	if err != nil {
		return nil, false, err
	}
	info, err := qris.ExtractInfo(payload)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	feeType := spec.FeeType
	if feeType == "" {
		feeType = qris.FeeFlat
	}
	payment = &models.Payment{
		ID:           uuid.New().String(),
		NMID:         info.NMID,
		MerchantName: info.MerchantName,
		MerchantCity: info.MerchantCity,
		NNS:          info.NNS,
		SchemeID:     info.ID,
		Amount:       spec.Amount,
		Fee:          fee,
		FeeType:      feeType,
		Total:        total,
		Payload:      payload,
		CreatedAt:    now,
		ExpiresAt:    expiry.ExpiresAt(now, ttl),
	}

	err = s.repo.CreatePayment(ctx, payment)
	if err == nil {
		return payment, true, nil
	}
	if !errors.Is(err, ErrConflict) {
		return nil, false, fmt.Errorf("creating payment: %w", err)
	}

	existing, err := s.repo.FindPaymentByPayload(ctx, payload)
	if err != nil {
		return nil, false, fmt.Errorf("finding issued payment: %w", err)
	}
	if existing.Expired(now) {
		existing, err = s.repo.RenewPayment(ctx, existing.ID, payment)
		if err != nil {
			return nil, false, fmt.Errorf("renewing payment: %w", err)
		}
		return existing, false, nil
	}
	if !sameIssue(existing, payment, ttl) {
		return nil, false, fmt.Errorf("payload %s already issued as amount %s fee %s (%s) until %s: %w",
			existing.ID, existing.Amount, existing.Fee, existing.FeeType,
			existing.ExpiresAt.Format(time.RFC3339), ErrConflict)
	}
	return existing, false, nil
}

// sameIssue reports whether existing was issued for the split of p and a
// validity window of ttl, within the second expiry instants are truncated to.
func sameIssue(existing, p *models.Payment, ttl time.Duration) bool {
	if !existing.Amount.Equal(p.Amount) || !existing.Fee.Equal(p.Fee) || existing.FeeType != p.FeeType {
		return false
	}
	d := existing.ExpiresAt.Sub(existing.CreatedAt) - ttl
	return d > -time.Second && d < time.Second
}

func (s *Service) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("payment %q: %w", id, ErrNotFound)
	}
	payment, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding payment: %w", err)
	}
	return payment, nil
}

// ListPayments returns issued payments, newest first.
func (s *Service) ListPayments(ctx context.Context, nmid string) ([]*models.Payment, error) {
	payments, err := s.repo.ListPayments(ctx, nmid)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	return payments, nil
}

// Validate reports whether payload carries a matching checksum, together
// with the checksum its body should carry.
func (s *Service) Validate(payload string) (bool, string) {
	valid := qris.IsValid(payload)
	if valid {
		s.metrics.ValidationsTotal.WithLabelValues("valid").Inc()
	} else {
		s.metrics.ValidationsTotal.WithLabelValues("invalid").Inc()
	}
	if len(payload) < 4 {
		return false, ""
	}
	return valid, qris.Checksum(payload[:len(payload)-4])
}

func (s *Service) Info(payload string) (qris.MerchantInfo, error) {
	return qris.ExtractInfo(payload)
}

// Fields lists the top-level data objects of a payload with a valid checksum.
func (s *Service) Fields(payload string) ([]qris.Field, error) {
	if !qris.IsValid(payload) {
		return nil, &qris.ValidationError{Message: "invalid payload CRC16"}
	}
	return qris.ParseFields(payload)
}

// DecodeImage returns the payload held by the QR code in r.
func (s *Service) DecodeImage(r io.Reader) (string, error) {
	payload, err := s.codec.Decode(r)
	s.metrics.ImagesTotal.WithLabelValues("decode", outcome(err)).Inc()
	return payload, err
}

// Render encodes payload as a QR image in format.
func (s *Service) Render(payload, format string) ([]byte, string, error) {
	b, contentType, err := s.codec.Render(payload, format)
	s.metrics.ImagesTotal.WithLabelValues("encode", outcome(err)).Inc()
	return b, contentType, err
}
