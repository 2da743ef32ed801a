package qris

import (
	"fmt"

	"github.com/moov-io/iso8583/encoding"
	"github.com/moov-io/iso8583/prefix"
)

const (
	tagLen      = 2
	maxValueLen = 99
)

// Field is one top-level data object of a payload: a 2 character tag,
// a 2 digit decimal length and that many characters of value.
type Field struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
	// Offset is the index of the tag within the payload.
	Offset int `json:"offset"`
}

// Len returns the encoded length of f (tag + length + value).
func (f Field) Len() int {
	return tagLen + 2 + len(f.Value)
}

// ParseFields walks payload as a sequence of top-level fields. Nested
// templates (26-51, 62, ...) are returned as a single field whose value
// can be passed to ParseFields again. The checksum field (63) is part of
// the walk, so a complete payload parses to the end.
func ParseFields(payload string) ([]Field, error) {
	data := []byte(payload)
	var fields []Field
	for offset := 0; offset < len(data); {
		if offset+tagLen > len(data) {
			return nil, validationf("truncated tag at offset %d", offset)
		}
		tag := string(data[offset : offset+tagLen])

		n, read, err := prefix.ASCII.LL.DecodeLength(maxValueLen, data[offset+tagLen:])
		if err != nil {
			return nil, validationf("tag %s at offset %d: %v", tag, offset, err)
		}
		if n < 0 {
			return nil, validationf("tag %s at offset %d: negative length", tag, offset)
		}

		start := offset + tagLen + read
		value, _, err := encoding.ASCII.Decode(data[start:], n)
		if err != nil {
			return nil, validationf("tag %s at offset %d: %v", tag, offset, err)
		}

		fields = append(fields, Field{Tag: tag, Value: string(value), Offset: offset})
		offset = start + n
	}
	return fields, nil
}

// EncodeField returns the Tag-Value fragment tag + LL + value.
func EncodeField(tag, value string) (string, error) {
	if len(tag) != tagLen {
		return "", validationf("tag %q must be %d characters", tag, tagLen)
	}
	v, err := encoding.ASCII.Encode([]byte(value))
	if err != nil {
		return "", validationf("tag %s: %v", tag, err)
	}
	l, err := prefix.ASCII.LL.EncodeLength(maxValueLen, len(v))
	if err != nil {
		return "", validationf("tag %s: %v", tag, err)
	}
	return fmt.Sprintf("%s%s%s", tag, l, v), nil
}

// FindField returns the first field with the given tag.
func FindField(fields []Field, tag string) (Field, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return Field{}, false
}
