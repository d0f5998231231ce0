// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// canonical packing helpers shared by every record that is hashed or
// signed; each variable length field is prefixed by Varint64(length)

// AppendBytes - append a length prefixed byte field
func AppendBytes(buffer []byte, data []byte) []byte {
	buffer = AppendVarint64(buffer, uint64(len(data)))
	return append(buffer, data...)
}

// AppendString - append a length prefixed string field
func AppendString(buffer []byte, s string) []byte {
	buffer = AppendVarint64(buffer, uint64(len(s)))
	return append(buffer, s...)
}

// AppendBool - append a single 0/1 byte
func AppendBool(buffer []byte, flag bool) []byte {
	if flag {
		return append(buffer, 1)
	}
	return append(buffer, 0)
}
