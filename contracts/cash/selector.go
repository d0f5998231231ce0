// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cash

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/builder"
	"github.com/bitmark-inc/dvpd/currency"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
)

// number of times to retry selection when another builder locks
// a chosen state first
const selectionAttempts = 3

// Vault - the part of a vault used to find and reserve cash
type Vault interface {
	Unconsumed(contract string, lockId uuid.UUID) ([]ledger.StateAndRef, error)
	SoftLock(lockId uuid.UUID, refs []ledger.StateRef) error
	ReleaseLock(lockId uuid.UUID) error
}

// KeyOwner - tells which keys this party holds
type KeyOwner interface {
	Owns(key *account.Account) bool
}

// Selector - chooses cash to pay with
type Selector struct {
	log   *logger.L
	vault Vault
	keys  KeyOwner
}

// NewSelector - create a selector over a vault
func NewSelector(name string, vault Vault, keys KeyOwner) *Selector {
	return &Selector{
		log:   logger.New("cash:" + name),
		vault: vault,
		keys:  keys,
	}
}

// GenerateSpend - add cash inputs, a payment to payTo and any change
//
// works on a copy of b, which is returned with the keys that must sign
// the move; the chosen states are soft locked under b's lock id
func (s *Selector) GenerateSpend(ctx context.Context, b *builder.Builder, amount currency.Amount, payTo identity.AbstractParty, change identity.AbstractParty) (*builder.Builder, []*account.Account, error) {
	if amount.IsZero() || !amount.Currency.IsValid() {
		return nil, nil, fault.InvalidAmount
	}

	var selected []ledger.StateAndRef
	var err error
	for attempt := 0; attempt < selectionAttempts; attempt += 1 {
		if err := ctx.Err(); nil != err {
			return nil, nil, err
		}
		selected, err = s.selectStates(b, amount)
		if nil != err {
			return nil, nil, err
		}
		refs := make([]ledger.StateRef, len(selected))
		for i, sr := range selected {
			refs[i] = sr.Ref
		}
		err = s.vault.SoftLock(b.LockId(), refs)
		if nil == err {
			break
		}
		if !errors.Is(err, fault.StateLocked) {
			return nil, nil, err
		}
		s.log.Debugf("lock: %s  lost race on attempt: %d", b.LockId(), attempt)
	}
	if nil != err {
		return nil, nil, err
	}

	extended := b.Copy()
	keys := make([]*account.Account, 0, len(selected))
	remaining := amount.Quantity

	// group by token preserving selection order
	groups := []*tokenTotal{}
	for _, sr := range selected {
		c := sr.State.Data.(State)
		if err := extended.AddInputState(sr); nil != err {
			return nil, nil, err
		}
		if !ledger.ContainsKey(keys, c.Owner.OwningKey()) {
			keys = append(keys, c.Owner.OwningKey())
		}
		groups, err = addTotal(groups, c.Token, c.Quantity, true)
		if nil != err {
			return nil, nil, err
		}
	}

	// every token group must balance, so groups after the price is
	// covered return their whole input as change
	for _, g := range groups {
		pay := min(g.inputs, remaining)
		remaining -= pay
		if pay > 0 {
			err := extended.AddOutputWithDefaultNotary(State{Quantity: pay, Token: g.token, Owner: payTo}, ContractName)
			if nil != err {
				return nil, nil, err
			}
		}
		if g.inputs > pay {
			err := extended.AddOutputWithDefaultNotary(State{Quantity: g.inputs - pay, Token: g.token, Owner: change}, ContractName)
			if nil != err {
				return nil, nil, err
			}
		}
	}

	extended.AddCommandData(Move{}, keys...)

	s.log.Infof("lock: %s  spend: %s  to: %s  using: %d states", b.LockId(), amount, payTo, len(selected))
	return extended, keys, nil
}

// Release - drop the soft locks taken for a builder that will not be
// used
func (s *Selector) Release(lockId uuid.UUID) error {
	return s.vault.ReleaseLock(lockId)
}

// choose unlocked states owned by us in the right currency until the
// amount is covered
func (s *Selector) selectStates(b *builder.Builder, amount currency.Amount) ([]ledger.StateAndRef, error) {
	candidates, err := s.vault.Unconsumed(ContractName, b.LockId())
	if nil != err {
		return nil, err
	}

	notary := b.Notary()
	selected := []ledger.StateAndRef{}
	total := uint64(0)
	for _, sr := range candidates {
		c, ok := sr.State.Data.(State)
		if !ok || c.Token.Currency != amount.Currency {
			continue
		}
		if !ledger.SameNotary(sr.State.Notary, notary) || !s.keys.Owns(c.Owner.OwningKey()) {
			continue
		}
		selected = append(selected, sr)
		total += c.Quantity
		if total >= amount.Quantity {
			return selected, nil
		}
	}
	s.log.Warnf("insufficient funds: have: %d  need: %s", total, amount)
	return nil, fault.InsufficientFunds
}

// GenerateIssue - add an issue of cash to a builder
func GenerateIssue(b *builder.Builder, amount currency.Amount, issuer identity.Party, owner identity.AbstractParty) error {
	if amount.IsZero() || !amount.Currency.IsValid() {
		return fault.InvalidAmount
	}
	state := State{
		Quantity: amount.Quantity,
		Token: Issued{
			Issuer:   issuer,
			Currency: amount.Currency,
		},
		Owner: owner,
	}
	if err := b.AddOutputWithDefaultNotary(state, ContractName); nil != err {
		return err
	}
	b.AddCommandData(Issue{}, issuer.Key)
	return nil
}
