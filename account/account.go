// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"encoding/hex"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/util"
)

// enumeration of supported key algorithms
const (
	// list of valid algorithms
	ED25519 = iota + 1
	// end of list (one greater than last item)
	algorithmLimit = iota + 1
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in key code starting from LSB
	publicKeyCode = 0x01

	algorithmShift = 4 // shift 4 bits to get algorithm
)

// Account - base type for a public key that can own states and sign
// transactions
type Account struct {
	AccountInterface
}

// AccountInterface - functions every key variant provides
type AccountInterface interface {
	KeyType() int
	PublicKeyBytes() []byte
	CheckSignature(message []byte, signature Signature) error
	Bytes() []byte
	String() string
	MarshalText() ([]byte, error)
}

// ED25519Account - for ed25519 signatures
type ED25519Account struct {
	PublicKey []byte
}

// Signature - the type for a signature
type Signature []byte

// FromPublicKey - wrap a raw ed25519 public key
func FromPublicKey(publicKey ed25519.PublicKey) (*Account, error) {
	if ed25519.PublicKeySize != len(publicKey) {
		return nil, fault.InvalidKeyLength
	}
	key := make([]byte, ed25519.PublicKeySize)
	copy(key, publicKey)
	return &Account{
		AccountInterface: &ED25519Account{
			PublicKey: key,
		},
	}, nil
}

// AccountFromBase58 - this converts a Base58 encoded string and
// returns an account
func AccountFromBase58(accountBase58Encoded string) (*Account, error) {
	accountDecoded, err := base58.Decode(accountBase58Encoded)
	if nil != err {
		return nil, err
	}
	if len(accountDecoded) <= checksumLength {
		return nil, fault.InvalidKeyLength
	}

	checksumStart := len(accountDecoded) - checksumLength
	checksum := sha3.Sum256(accountDecoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], accountDecoded[checksumStart:]) {
		return nil, fault.InvalidSignature
	}
	return AccountFromBytes(accountDecoded[:checksumStart])
}

// AccountFromBytes - this converts a byte encoded buffer and returns
// an account
func AccountFromBytes(accountBytes []byte) (*Account, error) {

	keyVariant, keyVariantLength := util.FromVarint64(accountBytes)
	if 0 == keyVariantLength || keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.InvalidKeyLength
	}

	keyAlgorithm := keyVariant >> algorithmShift
	if keyAlgorithm != ED25519 {
		return nil, fault.InvalidKeyLength
	}

	return FromPublicKey(accountBytes[keyVariantLength:])
}

// Equal - compare two accounts by encoded key
// a nil account only equals another nil account
func (account *Account) Equal(other *Account) bool {
	if nil == account || nil == other {
		return account == other
	}
	return bytes.Equal(account.Bytes(), other.Bytes())
}

// UnmarshalText - convert base58 text to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := AccountFromBase58(string(s))
	if nil != err {
		return err
	}
	account.AccountInterface = a.AccountInterface
	return nil
}

// ED25519
// -------

// KeyType - key type code (see enumeration above)
func (account *ED25519Account) KeyType() int {
	return ED25519
}

// PublicKeyBytes - fetch the public key as byte slice
func (account *ED25519Account) PublicKeyBytes() []byte {
	return account.PublicKey[:]
}

// CheckSignature - check the signature of a message
func (account *ED25519Account) CheckSignature(message []byte, signature Signature) error {

	if ed25519.SignatureSize != len(signature) {
		return fault.InvalidSignature
	}

	if !ed25519.Verify(account.PublicKey[:], message, signature) {
		return fault.InvalidSignature
	}
	return nil
}

// Bytes - byte slice for encoded key
func (account *ED25519Account) Bytes() []byte {
	keyVariant := byte(ED25519<<algorithmShift) | publicKeyCode
	return append([]byte{keyVariant}, account.PublicKey[:]...)
}

// String - base58 encoding of encoded key
func (account *ED25519Account) String() string {
	buffer := account.Bytes()
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// MarshalText - convert an account to its Base58 JSON form
func (account ED25519Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// signatures
// ----------

// String - convert a binary signature to hex string for use by the
// fmt package (for %s)
func (signature Signature) String() string {
	return hex.EncodeToString(signature)
}

// GoString - convert a binary signature to hex string for use by the
// fmt package (for %#v)
func (signature Signature) GoString() string {
	return "<signature:" + hex.EncodeToString(signature) + ">"
}

// MarshalText - convert signature to text
func (signature Signature) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(signature))
	b := make([]byte, size)
	hex.Encode(b, signature)
	return b, nil
}

// UnmarshalText - convert text into a signature
func (signature *Signature) UnmarshalText(s []byte) error {
	sig := make([]byte, hex.DecodedLen(len(s)))
	byteCount, err := hex.Decode(sig, s)
	if nil != err {
		return err
	}
	*signature = sig[:byteCount]
	return nil
}
