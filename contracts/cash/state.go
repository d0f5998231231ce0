// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cash - issued currency that can be moved between owners
package cash

import (
	"github.com/bitmark-inc/dvpd/currency"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/util"
)

// ContractName - contract id used in transaction states
const ContractName = "cash"

// Issued - a currency and the party that stands behind it
type Issued struct {
	Issuer   identity.Party
	Currency currency.Currency
}

// Same - true for the same currency from the same issuer
func (i Issued) Same(other Issued) bool {
	return i.Currency == other.Currency && i.Issuer.Name == other.Issuer.Name && i.Issuer.Key.Equal(other.Issuer.Key)
}

// State - an amount of issued currency held by an owner
type State struct {
	Quantity uint64
	Token    Issued
	Owner    identity.AbstractParty
}

// Issue - command to create cash
type Issue struct{}

// Move - command to change the owner of cash
type Move struct{}

// Pack - command type
func (Issue) Pack() []byte { return []byte("cash.Issue") }

// Pack - command type
func (Move) Pack() []byte { return []byte("cash.Move") }

// make sure State is ownable
var _ ledger.OwnableState = State{}

// Participants - only the owner
func (s State) Participants() []identity.AbstractParty {
	return []identity.AbstractParty{s.Owner}
}

// Pack - canonical form for hashing
func (s State) Pack() []byte {
	buffer := util.AppendString(nil, ContractName)
	buffer = util.AppendVarint64(buffer, s.Quantity)
	buffer = util.AppendVarint64(buffer, uint64(s.Token.Currency))
	buffer = util.AppendString(buffer, s.Token.Issuer.Name)
	buffer = identity.Pack(buffer, s.Token.Issuer)
	return identity.Pack(buffer, s.Owner)
}

// OwnedBy - the current owner
func (s State) OwnedBy() identity.AbstractParty {
	return s.Owner
}

// WithNewOwner - same cash with a different owner
func (s State) WithNewOwner(newOwner identity.AbstractParty) (ledger.CommandData, ledger.OwnableState) {
	s.Owner = newOwner
	return Move{}, s
}

// WithoutIssuer - the plain currency amount
func (s State) WithoutIssuer() currency.Amount {
	return currency.NewAmount(s.Quantity, s.Token.Currency)
}

// SumCashBy - total cash owned by a party, ignoring issuers
//
// states of other contracts are skipped; an empty result is the zero
// amount of currency.Nothing
func SumCashBy(states []ledger.ContractState, owner identity.AbstractParty) (currency.Amount, error) {
	total := currency.Zero(currency.Nothing)
	first := true
	for _, s := range states {
		c, ok := s.(State)
		if !ok || !identity.Same(c.Owner, owner) {
			continue
		}
		if first {
			total = currency.Zero(c.Token.Currency)
			first = false
		}
		var err error
		total, err = total.Plus(c.WithoutIssuer())
		if nil != err {
			return currency.Amount{}, err
		}
	}
	return total, nil
}
