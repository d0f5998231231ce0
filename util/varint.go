// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// Varint64MaximumBytes - maximum possible number of bytes in Varint64
const Varint64MaximumBytes = 9

// ToVarint64 - convert a 64 bit unsigned integer to Varint64
//
// seven bits per byte, least significant group first, top bit set
// on every byte except the last; the ninth byte carries a full eight
// bits so no value needs more than Varint64MaximumBytes
func ToVarint64(value uint64) []byte {
	return AppendVarint64(make([]byte, 0, Varint64MaximumBytes), value)
}

// AppendVarint64 - append the Varint64 form of a value to a buffer
func AppendVarint64(buffer []byte, value uint64) []byte {
	for i := 0; i < Varint64MaximumBytes-1; i += 1 {
		if value < 0x80 {
			return append(buffer, byte(value))
		}
		buffer = append(buffer, byte(value)|0x80)
		value >>= 7
	}
	return append(buffer, byte(value))
}

// FromVarint64 - convert an array of up to Varint64MaximumBytes to a uint64
//
// also return the number of bytes used as second value
// returns 0, 0 if varint64 buffer is truncated
func FromVarint64(buffer []byte) (uint64, int) {
	result := uint64(0)
	shift := uint(0)

	for count := 0; count < len(buffer) && count < Varint64MaximumBytes; count += 1 {
		currentByte := uint64(buffer[count])
		if Varint64MaximumBytes-1 == count {
			return result | currentByte<<shift, count + 1
		}
		result |= (currentByte & 0x7f) << shift
		if 0 == currentByte&0x80 {
			return result, count + 1
		}
		shift += 7
	}
	return 0, 0
}
