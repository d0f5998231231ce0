// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/dvpd/fault"
)

// PrivateKey - base type for PrivateKey
type PrivateKey struct {
	PrivateKeyInterface
}

// PrivateKeyInterface - functions every private key variant provides
type PrivateKeyInterface interface {
	Account() *Account
	KeyType() int
	PrivateKeyBytes() []byte
	Sign(message []byte) Signature
}

// ED25519PrivateKey - for ed25519 keys
type ED25519PrivateKey struct {
	PrivateKey []byte
}

// NewPrivateKey - generate a fresh ed25519 key pair
//
// a nil reader uses crypto/rand
func NewPrivateKey(reader io.Reader) (*PrivateKey, error) {
	if nil == reader {
		reader = rand.Reader
	}
	_, priv, err := ed25519.GenerateKey(reader)
	if nil != err {
		return nil, err
	}
	return &PrivateKey{
		PrivateKeyInterface: &ED25519PrivateKey{
			PrivateKey: priv,
		},
	}, nil
}

// PrivateKeyFromBytes - wrap a raw 64 byte ed25519 private key
func PrivateKeyFromBytes(buffer []byte) (*PrivateKey, error) {
	if ed25519.PrivateKeySize != len(buffer) {
		return nil, fault.InvalidKeyLength
	}
	priv := make([]byte, ed25519.PrivateKeySize)
	copy(priv, buffer)
	return &PrivateKey{
		PrivateKeyInterface: &ED25519PrivateKey{
			PrivateKey: priv,
		},
	}, nil
}

// Account - return the public part of a private key
func (privateKey *ED25519PrivateKey) Account() *Account {
	return &Account{
		AccountInterface: &ED25519Account{
			PublicKey: privateKey.PrivateKey[ed25519.PrivateKeySize-ed25519.PublicKeySize:],
		},
	}
}

// KeyType - key type code (see enumeration above)
func (privateKey *ED25519PrivateKey) KeyType() int {
	return ED25519
}

// PrivateKeyBytes - fetch the private key as byte slice
func (privateKey *ED25519PrivateKey) PrivateKeyBytes() []byte {
	return privateKey.PrivateKey[:]
}

// Sign - sign a message
func (privateKey *ED25519PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(privateKey.PrivateKey, message)
}
