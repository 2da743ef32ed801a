// Package crc16 implements the CRC-16/CCITT-FALSE checksum used as the
// trailing integrity check of EMV-QR and QRIS payloads.
package crc16

import "fmt"

const (
	poly = 0x1021
	seed = 0xFFFF
)

// Sum returns the CRC-16/CCITT-FALSE of s (poly 0x1021, init 0xFFFF, no
// reflection, no final xor). Characters are fed as Unicode code points, so
// for ASCII payloads this is the plain byte-wise checksum.
func Sum(s string) uint16 {
	crc := uint32(seed)
	for _, r := range s {
		crc ^= uint32(r) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
			crc &= 0xFFFF
		}
	}
	return uint16(crc)
}

// Checksum returns Sum(s) as exactly 4 uppercase hex digits.
func Checksum(s string) string {
	return fmt.Sprintf("%04X", Sum(s))
}
