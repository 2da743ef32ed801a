package qris

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Scheme identifiers reported in MerchantInfo.ID.
const (
	SchemeA01     = "A01"
	SchemeDefault = "01"
)

// NNSUnknown is reported when a payload carries no national numbering
// scheme id.
const NNSUnknown = "unknown"

const nnsLen = 8

// MerchantInfo identifies the merchant a payload pays to.
type MerchantInfo struct {
	ID           string `json:"id"`
	NNS          string `json:"nns"`
	NMID         string `json:"nmid"`
	MerchantName string `json:"merchantName"`
	MerchantCity string `json:"merchantCity"`
}

var nnsRx = regexp.MustCompile(`0118(.*?)ID`)

// ExtractInfo returns the merchant identification found in payload.
//
// Fields are located by the literal markers that surround them in real
// world QRIS payloads rather than by walking the TLV structure, so the
// result matches what issuers print even when a payload is not strictly
// well formed.
func ExtractInfo(payload string) (MerchantInfo, error) {
	if err := checkPayload(payload); err != nil {
		return MerchantInfo{}, err
	}

	info := MerchantInfo{
		ID:   SchemeDefault,
		NMID: "ID" + Between(payload, "15ID", "0303"),
		NNS:  NNSUnknown,
	}
	if strings.Contains(payload, SchemeA01) {
		info.ID = SchemeA01
	}

	// The raw name (length prefix dropped, case and padding untouched) is
	// what precedes the city field literally, so it anchors the city search.
	rawName := dropLengthPrefix(Between(payload, "ID59", "60"))
	info.MerchantName = cases.Upper(language.Und).String(strings.TrimSpace(rawName))
	info.MerchantCity = dropLengthPrefix(Between(payload, rawName+"60", "610"))

	if m := nnsRx.FindAllStringSubmatch(payload, -1); len(m) > 0 {
		nns := m[len(m)-1][1]
		if len(nns) > nnsLen {
			nns = nns[:nnsLen]
		}
		info.NNS = nns
	}

	return info, nil
}

// Between returns the text between the first occurrence of start and the
// next occurrence of end after it. If start is absent it returns "". If end
// is absent it returns everything after start.
func Between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	rest := s[i+len(start):]
	if j := strings.Index(rest, end); j >= 0 {
		return rest[:j]
	}
	return rest
}

func dropLengthPrefix(s string) string {
	if len(s) <= 2 {
		return ""
	}
	return s[2:]
}
