package qris_test

import (
	"errors"
	"testing"

	"github.com/alovak/qris-playground/qris"
	"github.com/stretchr/testify/require"
)

func TestExtractInfo(t *testing.T) {
	t.Run("static DANA payload", func(t *testing.T) {
		info, err := qris.ExtractInfo(staticPayload)
		require.NoError(t, err)
		require.Equal(t, qris.MerchantInfo{
			ID:           qris.SchemeDefault,
			NNS:          "93600915",
			NMID:         "ID1020017611473",
			MerchantName: "DANA",
			MerchantCity: "KOTA SURABAYA",
		}, info)
	})

	t.Run("A01 scheme, name trimmed and upper cased, city untouched", func(t *testing.T) {
		info, err := qris.ExtractInfo(a01Payload)
		require.NoError(t, err)
		require.Equal(t, qris.SchemeA01, info.ID)
		require.Equal(t, "KOPI KENANGAN", info.MerchantName)
		require.Equal(t, "Jakarta Sel", info.MerchantCity)
		require.Equal(t, "ID2021081246734", info.NMID)
		require.Equal(t, "93600918", info.NNS)
	})

	t.Run("missing NNS falls back to unknown", func(t *testing.T) {
		info, err := qris.ExtractInfo(noNNSPayload)
		require.NoError(t, err)
		require.Equal(t, qris.NNSUnknown, info.NNS)
		require.Equal(t, "DANA", info.MerchantName)
	})

	t.Run("dynamic payload", func(t *testing.T) {
		info, err := qris.ExtractInfo(dynamicPayload)
		require.NoError(t, err)
		require.Equal(t, "ID1020017611473", info.NMID)
		require.Equal(t, "KOTA SURABAYA", info.MerchantCity)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, p := range []string{"", "abc", staticPayload[:len(staticPayload)-1] + "E", "\xff\xfe" + "FFFF"} {
			_, err := qris.ExtractInfo(p)
			require.Error(t, err, "payload %q", p)
			require.True(t, errors.Is(err, qris.ErrValidation))

			var verr *qris.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, qris.KindValidation, qris.KindOf(err))
		}
	})
}

func TestBetween(t *testing.T) {
	cases := []struct {
		s, start, end, want string
	}{
		{"xxAAvalueBBxx", "AA", "BB", "value"},
		{"xxAAvalue", "AA", "BB", "value"},
		{"xxvalueBB", "AA", "BB", ""},
		{"BBAAvalueBB", "AA", "BB", "value"},
		{"AABB", "AA", "BB", ""},
		{"AAxAAyBB", "AA", "BB", "xAAy"},
		{"", "AA", "BB", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, qris.Between(c.s, c.start, c.end), "Between(%q, %q, %q)", c.s, c.start, c.end)
	}
}
