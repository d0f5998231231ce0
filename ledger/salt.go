// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/fault"
)

// PrivacySaltLength - bytes in a privacy salt
const PrivacySaltLength = 32

// PrivacySalt - random bytes mixed into every component hash so that
// identical content does not produce identical transaction ids
type PrivacySalt [PrivacySaltLength]byte

// NewPrivacySalt - fresh random salt
func NewPrivacySalt() PrivacySalt {
	var salt PrivacySalt
	for salt.IsZero() {
		if _, err := rand.Read(salt[:]); nil != err {
			logger.Panicf("privacy salt: random source failed: %s", err)
		}
	}
	return salt
}

// PrivacySaltFromBytes - validate and convert
func PrivacySaltFromBytes(buffer []byte) (PrivacySalt, error) {
	var salt PrivacySalt
	if PrivacySaltLength != len(buffer) {
		return salt, fault.InvalidPrivacySalt
	}
	copy(salt[:], buffer)
	if salt.IsZero() {
		return salt, fault.InvalidPrivacySalt
	}
	return salt, nil
}

// IsZero - an all zero salt is never valid
func (salt PrivacySalt) IsZero() bool {
	return PrivacySalt{} == salt
}

// String - hex
func (salt PrivacySalt) String() string {
	return hex.EncodeToString(salt[:])
}
