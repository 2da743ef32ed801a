package qris_test

import (
	"testing"

	"github.com/alovak/qris-playground/qris"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	fields, err := qris.ParseFields(staticPayload)
	require.NoError(t, err)

	var tags []string
	for _, f := range fields {
		tags = append(tags, f.Tag)
	}
	require.Equal(t, []string{"00", "01", "26", "51", "52", "53", "58", "59", "60", "61", "63"}, tags)

	name, ok := qris.FindField(fields, "59")
	require.True(t, ok)
	require.Equal(t, "DANA", name.Value)
	require.Equal(t, "5904DANA", staticPayload[name.Offset:name.Offset+name.Len()])

	crc, ok := qris.FindField(fields, "63")
	require.True(t, ok)
	require.Equal(t, "C60D", crc.Value)

	t.Run("nested template", func(t *testing.T) {
		acct, ok := qris.FindField(fields, "26")
		require.True(t, ok)
		sub, err := qris.ParseFields(acct.Value)
		require.NoError(t, err)
		nns, ok := qris.FindField(sub, "01")
		require.True(t, ok)
		require.Equal(t, "936009153022591481", nns.Value)
	})

	_, ok = qris.FindField(fields, "54")
	require.False(t, ok)
}

func TestParseFields_Malformed(t *testing.T) {
	for _, s := range []string{"0", "00", "000", "0002", "00AB01", "0005abc"} {
		_, err := qris.ParseFields(s)
		require.ErrorIs(t, err, qris.ErrValidation, "input %q", s)
	}

	fields, err := qris.ParseFields("")
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestEncodeField(t *testing.T) {
	got, err := qris.EncodeField("54", "13000")
	require.NoError(t, err)
	require.Equal(t, "540513000", got)

	got, err = qris.EncodeField("59", "")
	require.NoError(t, err)
	require.Equal(t, "5900", got)

	_, err = qris.EncodeField("5", "x")
	require.ErrorIs(t, err, qris.ErrValidation)

	long := make([]byte, 100)
	for i := range long {
		long[i] = '9'
	}
	_, err = qris.EncodeField("54", string(long))
	require.ErrorIs(t, err, qris.ErrValidation)
}
