package qris

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FeeType selects how AmountSpec.Fee is applied.
type FeeType string

const (
	FeeFlat       FeeType = "flat"
	FeePercentage FeeType = "percentage"
)

const (
	// TagAmount is the transaction amount data object.
	TagAmount = "54"

	countryMarker = "5802ID"
	staticPoI     = "010211"
	dynamicPoI    = "010212"
)

var hundred = decimal.NewFromInt(100)

// AmountSpec is the amount to inject into a payload. The zero FeeType
// means FeeFlat.
type AmountSpec struct {
	Amount  decimal.Decimal `json:"amount"`
	Fee     decimal.Decimal `json:"fee"`
	FeeType FeeType         `json:"feeType,omitempty"`
}

// Total validates s and returns the amount to encode and the fee it
// includes. A percentage fee is rounded to a whole unit, half away from
// zero; a flat fee is added as given.
func (s AmountSpec) Total() (total, fee decimal.Decimal, err error) {
	if !s.Amount.IsPositive() {
		return total, fee, validationf("amount must be a positive number")
	}
	if !s.Amount.IsInteger() {
		return total, fee, validationf("amount must be an integer")
	}
	if s.Fee.IsNegative() {
		return total, fee, validationf("fee must be a non-negative number")
	}

	feeType := s.FeeType
	if feeType == "" {
		feeType = FeeFlat
	}
	switch feeType {
	case FeeFlat, FeePercentage:
	default:
		return total, fee, validationf("invalid fee type %q, must be 'flat' or 'percentage'", s.FeeType)
	}
	if feeType == FeePercentage && s.Fee.GreaterThan(hundred) {
		return total, fee, validationf("percentage fee cannot exceed 100%%")
	}

	fee = s.Fee
	if feeType == FeePercentage && s.Fee.IsPositive() {
		fee = s.Fee.Mul(s.Amount).Div(hundred).Round(0)
	}
	total = s.Amount.Add(fee)
	if !total.IsPositive() {
		return decimal.Decimal{}, decimal.Decimal{}, validationf("total payment must be greater than zero")
	}
	return total, fee, nil
}

// BuildPayment returns a dynamic payload derived from payload that carries
// the total of spec as its transaction amount, with a fresh checksum.
//
// The point of initiation is switched from static (010211) to dynamic
// (010212) and the amount field is placed right before the country field
// 5802ID. An amount field already present in payload is replaced.
func BuildPayment(payload string, spec AmountSpec) (string, error) {
	if err := checkPayload(payload); err != nil {
		return "", err
	}
	total, _, err := spec.Total()
	if err != nil {
		return "", err
	}
	amount, err := EncodeField(TagAmount, total.String())
	if err != nil {
		return "", err
	}

	body, _ := split(payload)
	body = stripAmount(payload, body)
	body = strings.ReplaceAll(body, staticPoI, dynamicPoI)

	head, tail, ok := strings.Cut(body, countryMarker)
	if !ok {
		return "", validationf("payload has no %s country code field", countryMarker)
	}

	fixed := strings.TrimSpace(head) + amount + countryMarker + strings.TrimSpace(tail)
	out := fixed + Checksum(fixed)
	if !IsValid(out) {
		return "", &DefaultError{Message: "failed to generate valid QR code, please try again"}
	}
	return out, nil
}

// stripAmount removes a top-level amount field from body. Payloads that
// do not walk as TLV are returned untouched.
func stripAmount(payload, body string) string {
	fields, err := ParseFields(payload)
	if err != nil {
		return body
	}
	f, ok := FindField(fields, TagAmount)
	if !ok || f.Offset+f.Len() > len(body) {
		return body
	}
	return body[:f.Offset] + body[f.Offset+f.Len():]
}
