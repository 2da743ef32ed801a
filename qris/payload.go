// Package qris validates and rewrites QRIS (Quick Response Code Indonesian
// Standard) payment payloads.
//
// A payload is an EMV-QR text string whose last 4 characters are the
// CRC-16/CCITT-FALSE of everything before them. The package checks that
// checksum, extracts merchant identification from a payload, and turns a
// static payload into a dynamic one carrying a fixed transaction amount.
//
// All functions are pure and safe for concurrent use.
package qris

import (
	"unicode/utf8"

	"github.com/alovak/qris-playground/internal/crc16"
)

const checksumLen = 4

// Checksum returns the 4 digit uppercase hex CRC16 of body.
func Checksum(body string) string {
	return crc16.Checksum(body)
}

// IsValid reports whether the trailing 4 characters of payload are the
// checksum of the rest. Payloads shorter than 4 characters are invalid.
func IsValid(payload string) bool {
	if len(payload) < checksumLen {
		return false
	}
	body, sum := split(payload)
	return sum == Checksum(body)
}

// split cuts payload into body and claimed checksum. len(payload) >= 4.
func split(payload string) (body, sum string) {
	n := len(payload) - checksumLen
	return payload[:n], payload[n:]
}

// checkPayload is the precondition gate shared by the extractor and the
// injector.
func checkPayload(payload string) error {
	if payload == "" {
		return validationf("payload must be a non-empty string")
	}
	if !utf8.ValidString(payload) {
		return validationf("payload must be a valid UTF-8 string")
	}
	if !IsValid(payload) {
		return validationf("invalid payload CRC16")
	}
	return nil
}
