// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"fmt"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/merkle"
	"github.com/bitmark-inc/dvpd/util"
)

// current signature scheme
const (
	PlatformVersion = 1
	SchemeEd25519   = 1
)

// SignatureMetadata - signed together with the transaction id
type SignatureMetadata struct {
	PlatformVersion int
	SchemeNumber    int
}

// DefaultMetadata - metadata for signatures made by this version
func DefaultMetadata() SignatureMetadata {
	return SignatureMetadata{
		PlatformVersion: PlatformVersion,
		SchemeNumber:    SchemeEd25519,
	}
}

// SignableData - the payload a transaction signature covers
func SignableData(txId merkle.Digest, metadata SignatureMetadata) []byte {
	buffer := make([]byte, 0, merkle.DigestLength+4)
	buffer = append(buffer, txId[:]...)
	buffer = util.AppendVarint64(buffer, uint64(metadata.PlatformVersion))
	return util.AppendVarint64(buffer, uint64(metadata.SchemeNumber))
}

// TransactionSignature - one signature over a transaction id
type TransactionSignature struct {
	By        *account.Account
	Signature account.Signature
	Metadata  SignatureMetadata
}

// Verify - check the signature against a transaction id
func (sig TransactionSignature) Verify(txId merkle.Digest) error {
	if nil == sig.By {
		return fault.InvalidSignature
	}
	return sig.By.CheckSignature(SignableData(txId, sig.Metadata), sig.Signature)
}

// KeySigner - anything that can sign with a key it holds
type KeySigner interface {
	Sign(payload []byte, key *account.Account) (account.Signature, error)
}

// SignWith - sign a transaction id with one key
func SignWith(signer KeySigner, key *account.Account, txId merkle.Digest, metadata SignatureMetadata) (TransactionSignature, error) {
	signature, err := signer.Sign(SignableData(txId, metadata), key)
	if nil != err {
		return TransactionSignature{}, err
	}
	return TransactionSignature{
		By:        key,
		Signature: signature,
		Metadata:  metadata,
	}, nil
}

// SignedTransaction - a wire transaction and the signatures so far
type SignedTransaction struct {
	tx   *WireTransaction
	sigs []TransactionSignature
}

// NewSignedTransaction - attach signatures to a transaction
func NewSignedTransaction(tx *WireTransaction, sigs ...TransactionSignature) *SignedTransaction {
	s := make([]TransactionSignature, len(sigs))
	copy(s, sigs)
	return &SignedTransaction{
		tx:   tx,
		sigs: s,
	}
}

// Id - the transaction id
func (stx *SignedTransaction) Id() merkle.Digest {
	return stx.tx.Id()
}

// Tx - the wire transaction
func (stx *SignedTransaction) Tx() *WireTransaction {
	return stx.tx
}

// Sigs - copy of the signatures
func (stx *SignedTransaction) Sigs() []TransactionSignature {
	s := make([]TransactionSignature, len(stx.sigs))
	copy(s, stx.sigs)
	return s
}

// Plus - a new signed transaction with extra signatures
//
// a signature by a key that has already signed is ignored
func (stx *SignedTransaction) Plus(sigs ...TransactionSignature) *SignedTransaction {
	result := NewSignedTransaction(stx.tx, stx.sigs...)
	for _, sig := range sigs {
		if !result.signedBy(sig.By) {
			result.sigs = append(result.sigs, sig)
		}
	}
	return result
}

func (stx *SignedTransaction) signedBy(key *account.Account) bool {
	for _, s := range stx.sigs {
		if s.By.Equal(key) {
			return true
		}
	}
	return false
}

// MissingSigners - required keys that have not signed
func (stx *SignedTransaction) MissingSigners() []*account.Account {
	missing := make([]*account.Account, 0)
	for _, k := range stx.tx.RequiredSigningKeys() {
		if !stx.signedBy(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// CheckSignaturesAreValid - every attached signature is valid
func (stx *SignedTransaction) CheckSignaturesAreValid() error {
	id := stx.Id()
	for _, sig := range stx.sigs {
		if err := sig.Verify(id); nil != err {
			return fmt.Errorf("%w: by: %s", fault.InvalidSignature, sig.By)
		}
	}
	return nil
}

// VerifySignaturesExcept - all signatures valid and every required
// key has signed apart from the allowed missing ones
func (stx *SignedTransaction) VerifySignaturesExcept(allowedMissing ...*account.Account) error {
	if err := stx.CheckSignaturesAreValid(); nil != err {
		return err
	}
	for _, k := range stx.MissingSigners() {
		if !ContainsKey(allowedMissing, k) {
			return fmt.Errorf("%w: key: %s", fault.MissingSignature, k)
		}
	}
	return nil
}

// VerifyRequiredSignatures - all signatures valid and none missing
func (stx *SignedTransaction) VerifyRequiredSignatures() error {
	return stx.VerifySignaturesExcept()
}
