package models

import (
	"time"

	"github.com/alovak/qris-playground/internal/expiry"
	"github.com/alovak/qris-playground/qris"
	"github.com/shopspring/decimal"
)

// Payment is a dynamic QRIS payload issued for one order.
type Payment struct {
	ID           string          `json:"id"`
	NMID         string          `json:"nmid"`
	MerchantName string          `json:"merchantName"`
	MerchantCity string          `json:"merchantCity"`
	NNS          string          `json:"nns"`
	SchemeID     string          `json:"schemeId"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
	FeeType      qris.FeeType    `json:"feeType"`
	Total        decimal.Decimal `json:"total"`
	Payload      string          `json:"payload"`
	CreatedAt    time.Time       `json:"createdAt"`
	ExpiresAt    time.Time       `json:"expiresAt"`
}

// Expired reports whether the payment is no longer payable at t.
func (p *Payment) Expired(t time.Time) bool {
	return expiry.IsExpired(p.ExpiresAt, t)
}

// CreatePayment asks to turn a static payload into a priced dynamic one.
type CreatePayment struct {
	Payload string          `json:"payload"`
	Amount  decimal.Decimal `json:"amount"`
	Fee     decimal.Decimal `json:"fee"`
	FeeType qris.FeeType    `json:"feeType,omitempty"`
	// TTL overrides the configured validity window ("15m" or minutes).
	TTL string `json:"ttl,omitempty"`
}

func (c CreatePayment) AmountSpec() qris.AmountSpec {
	return qris.AmountSpec{
		Amount:  c.Amount,
		Fee:     c.Fee,
		FeeType: c.FeeType,
	}
}

// PaymentView is a Payment as served by the API.
type PaymentView struct {
	*Payment
	Expired          bool  `json:"expired"`
	RemainingSeconds int64 `json:"remainingSeconds"`
}

func NewPaymentView(p *Payment, now time.Time) PaymentView {
	return PaymentView{
		Payment:          p,
		Expired:          p.Expired(now),
		RemainingSeconds: int64(expiry.Remaining(p.ExpiresAt, now) / time.Second),
	}
}
