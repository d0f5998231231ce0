// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"fmt"

	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/merkle"
	"github.com/bitmark-inc/dvpd/util"
)

// ContractState - the data held in an output
//
// implementations must be immutable values
type ContractState interface {
	Participants() []identity.AbstractParty
	Pack() []byte
}

// OwnableState - a state with a single owner that can be transferred
type OwnableState interface {
	ContractState
	OwnedBy() identity.AbstractParty
	WithNewOwner(newOwner identity.AbstractParty) (CommandData, OwnableState)
}

// StateRef - points to an output of a previous transaction
type StateRef struct {
	TxId  merkle.Digest
	Index int
}

// String - txid(index)
func (ref StateRef) String() string {
	return fmt.Sprintf("%s(%d)", ref.TxId, ref.Index)
}

// Pack - canonical form for hashing and storage keys
func (ref StateRef) Pack() []byte {
	buffer := make([]byte, 0, merkle.DigestLength+4)
	buffer = append(buffer, ref.TxId[:]...)
	return util.AppendVarint64(buffer, uint64(ref.Index))
}

// StateRefFromBytes - inverse of Pack
func StateRefFromBytes(buffer []byte) (StateRef, error) {
	var ref StateRef
	if len(buffer) <= merkle.DigestLength {
		return ref, fmt.Errorf("state ref too short: %d bytes", len(buffer))
	}
	if err := merkle.DigestFromBytes(&ref.TxId, buffer[:merkle.DigestLength]); nil != err {
		return ref, err
	}
	index, n := util.FromVarint64(buffer[merkle.DigestLength:])
	if 0 == n || merkle.DigestLength+n != len(buffer) {
		return ref, fmt.Errorf("state ref has invalid index")
	}
	ref.Index = int(index)
	return ref, nil
}

// TransactionState - an output slot
//
// Encumbrance, when set, is the index of another output of the same
// transaction that must be consumed together with this one
type TransactionState struct {
	Data        ContractState
	Contract    string
	Notary      *identity.Party
	Encumbrance *int
}

// NewTransactionState - wrap a contract state
func NewTransactionState(data ContractState, contract string, notary *identity.Party) TransactionState {
	return TransactionState{
		Data:     data,
		Contract: contract,
		Notary:   notary,
	}
}

// WithEncumbrance - copy with an encumbrance index
func (ts TransactionState) WithEncumbrance(index int) TransactionState {
	ts.Encumbrance = &index
	return ts
}

// Copy - independent copy of the pointer fields
func (ts TransactionState) Copy() TransactionState {
	if nil != ts.Notary {
		n := *ts.Notary
		ts.Notary = &n
	}
	if nil != ts.Encumbrance {
		e := *ts.Encumbrance
		ts.Encumbrance = &e
	}
	return ts
}

// Pack - canonical form for hashing
func (ts TransactionState) Pack() []byte {
	buffer := util.AppendString(nil, ts.Contract)
	buffer = packNotary(buffer, ts.Notary)
	if nil == ts.Encumbrance {
		buffer = util.AppendVarint64(buffer, 0)
	} else {
		buffer = util.AppendVarint64(buffer, uint64(*ts.Encumbrance)+1)
	}
	return util.AppendBytes(buffer, ts.Data.Pack())
}

// StateAndRef - a state together with where it was created
type StateAndRef struct {
	State TransactionState
	Ref   StateRef
}

// SameNotary - compare two optional notaries by name and key
func SameNotary(a *identity.Party, b *identity.Party) bool {
	if nil == a || nil == b {
		return a == b
	}
	return a.Name == b.Name && a.Key.Equal(b.Key)
}

func packNotary(buffer []byte, notary *identity.Party) []byte {
	if nil == notary {
		return util.AppendBool(buffer, false)
	}
	buffer = util.AppendBool(buffer, true)
	buffer = util.AppendString(buffer, notary.Name)
	return identity.Pack(buffer, notary)
}
