// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitmark_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/builder"
	"github.com/bitmark-inc/dvpd/contracts/bitmark"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
)

type loader map[ledger.StateRef]ledger.TransactionState

func (l loader) LoadState(ref ledger.StateRef) (ledger.TransactionState, error) {
	s, ok := l[ref]
	if !ok {
		return ledger.TransactionState{}, fault.StateNotFound
	}
	return s, nil
}

var contracts = ledger.Contracts{bitmark.ContractName: bitmark.Contract{}}

func party(t *testing.T, name string) identity.Party {
	pk, err := account.NewPrivateKey(nil)
	require.Nil(t, err, "key")
	return identity.Party{Name: name, Key: pk.Account()}
}

func TestIssueAndMove(t *testing.T) {
	notary := party(t, "notary")
	issuer := party(t, "issuer")
	owner := party(t, "owner")
	buyer := party(t, "buyer")

	b := builder.New(&notary)
	require.Nil(t, bitmark.GenerateIssue(b, 42, issuer, owner), "issue")
	assert.Nil(t, b.Verify(loader{}, contracts), "valid issue")

	issued, _ := b.ToWireTransaction().OutRef(0)
	l := loader{issued.Ref: issued.State}
	asset := issued.State.Data.(bitmark.State)

	command, moved := asset.WithNewOwner(buyer)
	assert.Equal(t, bitmark.Move{}, command, "command")
	assert.True(t, identity.Same(buyer, moved.OwnedBy()), "new owner")
	assert.True(t, identity.Same(owner, asset.OwnedBy()), "original changed")

	move := func(out ledger.ContractState, signer *account.Account) *builder.Builder {
		m := builder.New(&notary)
		require.Nil(t, m.AddInputState(issued), "input")
		require.Nil(t, m.AddOutputWithDefaultNotary(out, bitmark.ContractName), "output")
		m.AddCommandData(command, signer)
		return m
	}

	assert.Nil(t, move(moved, owner.Key).Verify(l, contracts), "valid move")

	err := move(moved, buyer.Key).Verify(l, contracts)
	assert.True(t, errors.Is(err, fault.ContractRejected), "owner did not sign: %v", err)

	changed := moved.(bitmark.State)
	changed.MagicNumber = 43
	err = move(changed, owner.Key).Verify(l, contracts)
	assert.True(t, errors.Is(err, fault.ContractRejected), "property changed: %v", err)

	forged := builder.New(&notary)
	require.Nil(t, forged.AddOutputWithDefaultNotary(bitmark.State{MagicNumber: 7, Issuer: issuer, Owner: buyer}, bitmark.ContractName), "output")
	forged.AddCommandData(bitmark.Issue{}, buyer.Key)
	err = forged.Verify(loader{}, contracts)
	assert.True(t, errors.Is(err, fault.ContractRejected), "forged issue: %v", err)
}
