// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cash_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/builder"
	"github.com/bitmark-inc/dvpd/contracts/cash"
	"github.com/bitmark-inc/dvpd/currency"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/fixtures"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/keys"
	"github.com/bitmark-inc/dvpd/ledger"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	result := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(result)
}

// in-memory vault for selection tests
type testVault struct {
	states []ledger.StateAndRef
	locks  map[ledger.StateRef]uuid.UUID
}

func (v *testVault) Unconsumed(contract string, lockId uuid.UUID) ([]ledger.StateAndRef, error) {
	result := []ledger.StateAndRef{}
	for _, sr := range v.states {
		if sr.State.Contract != contract {
			continue
		}
		if l, ok := v.locks[sr.Ref]; ok && l != lockId {
			continue
		}
		result = append(result, sr)
	}
	return result, nil
}

func (v *testVault) SoftLock(lockId uuid.UUID, refs []ledger.StateRef) error {
	for _, r := range refs {
		if l, ok := v.locks[r]; ok && l != lockId {
			return fault.StateLocked
		}
	}
	for _, r := range refs {
		v.locks[r] = lockId
	}
	return nil
}

func (v *testVault) ReleaseLock(lockId uuid.UUID) error {
	for r, l := range v.locks {
		if l == lockId {
			delete(v.locks, r)
		}
	}
	return nil
}

func (v *testVault) LoadState(ref ledger.StateRef) (ledger.TransactionState, error) {
	for _, sr := range v.states {
		if sr.Ref == ref {
			return sr.State, nil
		}
	}
	return ledger.TransactionState{}, fault.StateNotFound
}

type setup struct {
	keys   *keys.Manager
	notary *identity.Party
	bank   identity.Party
	buyer  identity.Party
	seller identity.Party
	vault  *testVault
}

func newSetup(t *testing.T) *setup {
	km := keys.New("cash-test", nil)
	fresh := func() *account.Account {
		k, err := km.FreshKey()
		require.Nil(t, err, "fresh key")
		return k
	}
	s := &setup{
		keys:   km,
		notary: &identity.Party{Name: "notary", Key: fresh()},
		bank:   identity.Party{Name: "bank", Key: fresh()},
		buyer:  identity.Party{Name: "buyer", Key: fresh()},
		vault:  &testVault{locks: make(map[ledger.StateRef]uuid.UUID)},
	}
	// seller key is not held by the buyer's key manager
	other, _ := account.NewPrivateKey(nil)
	s.seller = identity.Party{Name: "seller", Key: other.Account()}
	return s
}

// issue cash directly into the test vault
func (s *setup) give(t *testing.T, quantity uint64, c currency.Currency, owner identity.Party) {
	s.giveFrom(t, s.bank, quantity, c, owner)
}

func (s *setup) giveFrom(t *testing.T, issuer identity.Party, quantity uint64, c currency.Currency, owner identity.Party) {
	b := builder.New(s.notary)
	require.Nil(t, cash.GenerateIssue(b, currency.NewAmount(quantity, c), issuer, owner), "issue")
	wtx := b.ToWireTransaction()
	out, _ := wtx.OutRef(0)
	s.vault.states = append(s.vault.states, out)
}

func verify(t *testing.T, b *builder.Builder, loader ledger.StateLoader) error {
	return b.Verify(loader, ledger.Contracts{cash.ContractName: cash.Contract{}})
}

func TestIssue(t *testing.T) {
	s := newSetup(t)

	b := builder.New(s.notary)
	require.Nil(t, cash.GenerateIssue(b, currency.NewAmount(100, currency.USD), s.bank, s.buyer), "issue")
	assert.Nil(t, verify(t, b, s.vault), "valid issue")

	// issued by the bank but signed by the buyer
	b = builder.New(s.notary)
	require.Nil(t, b.AddOutputWithDefaultNotary(cash.State{Quantity: 1, Token: cash.Issued{Issuer: s.bank, Currency: currency.USD}, Owner: s.buyer}, cash.ContractName), "output")
	b.AddCommandData(cash.Issue{}, s.buyer.Key)
	assert.True(t, errors.Is(verify(t, b, s.vault), fault.ContractRejected), "issuer did not sign")

	assert.Equal(t, fault.InvalidAmount, cash.GenerateIssue(builder.New(s.notary), currency.NewAmount(0, currency.USD), s.bank, s.buyer), "zero issue")
}

func TestGenerateSpend(t *testing.T) {
	s := newSetup(t)
	s.give(t, 6000, currency.USD, s.buyer)
	s.give(t, 5000, currency.EUR, s.buyer)
	s.give(t, 7000, currency.USD, s.buyer)

	selector := cash.NewSelector("buyer", s.vault, s.keys)
	b := builder.New(s.notary)

	extended, signers, err := selector.GenerateSpend(context.Background(), b, currency.NewAmount(10000, currency.USD), s.seller, s.buyer)
	require.Nil(t, err, "generate spend")
	assert.Equal(t, 0, len(b.Inputs()), "original builder changed")
	assert.Equal(t, b.LockId(), extended.LockId(), "lock id changed")
	assert.Equal(t, []*account.Account{s.buyer.Key}, signers, "signers")
	assert.Equal(t, 2, len(extended.Inputs()), "inputs")

	wtx := extended.ToWireTransaction()
	outputs := []ledger.ContractState{}
	for _, out := range wtx.Outputs() {
		outputs = append(outputs, out.Data)
	}
	paid, err := cash.SumCashBy(outputs, s.seller)
	assert.Nil(t, err, "sum to seller")
	assert.Equal(t, currency.NewAmount(10000, currency.USD), paid, "payment")
	change, err := cash.SumCashBy(outputs, s.buyer)
	assert.Nil(t, err, "sum change")
	assert.Equal(t, currency.NewAmount(3000, currency.USD), change, "change")

	// both USD states are now locked against another builder
	_, _, err = selector.GenerateSpend(context.Background(), builder.New(s.notary), currency.NewAmount(1, currency.USD), s.seller, s.buyer)
	assert.Equal(t, fault.InsufficientFunds, err, "locked cash reused")

	// released cash can be selected again
	assert.Nil(t, selector.Release(b.LockId()), "release")
	_, _, err = selector.GenerateSpend(context.Background(), builder.New(s.notary), currency.NewAmount(1, currency.USD), s.seller, s.buyer)
	assert.Nil(t, err, "released cash")

	// the move verifies once the inputs are resolved
	assert.Nil(t, verify(t, extended, s.vault), "contract")
}

func TestGenerateSpendSeveralIssuers(t *testing.T) {
	s := newSetup(t)
	key, err := s.keys.FreshKey()
	require.Nil(t, err, "fresh key")
	bank2 := identity.Party{Name: "bank2", Key: key}

	s.give(t, 30, currency.USD, s.buyer)
	s.giveFrom(t, bank2, 10, currency.USD, s.buyer)
	s.give(t, 80, currency.USD, s.buyer)

	selector := cash.NewSelector("buyer", s.vault, s.keys)
	extended, _, err := selector.GenerateSpend(context.Background(), builder.New(s.notary), currency.NewAmount(100, currency.USD), s.seller, s.buyer)
	require.Nil(t, err, "generate spend")
	assert.Equal(t, 3, len(extended.Inputs()), "inputs")

	wtx := extended.ToWireTransaction()
	outputs := []ledger.ContractState{}
	for _, out := range wtx.Outputs() {
		outputs = append(outputs, out.Data)
	}
	assert.Equal(t, 3, len(outputs), "outputs")

	paid, err := cash.SumCashBy(outputs, s.seller)
	assert.Nil(t, err, "sum to seller")
	assert.Equal(t, currency.NewAmount(100, currency.USD), paid, "payment")
	change, err := cash.SumCashBy(outputs, s.buyer)
	assert.Nil(t, err, "sum change")
	assert.Equal(t, currency.NewAmount(20, currency.USD), change, "change")

	// second issuer's cash comes back whole
	for _, out := range outputs {
		c := out.(cash.State)
		if c.Token.Issuer.Name == bank2.Name {
			assert.Equal(t, uint64(10), c.Quantity, "bank2 change")
			assert.True(t, identity.Same(c.Owner, s.buyer), "bank2 change owner")
		}
	}

	assert.Nil(t, verify(t, extended, s.vault), "every issuer balances")
}

func TestGenerateSpendInsufficient(t *testing.T) {
	s := newSetup(t)
	s.give(t, 50, currency.USD, s.buyer)
	s.give(t, 500, currency.USD, s.seller) // not ours

	selector := cash.NewSelector("buyer", s.vault, s.keys)
	_, _, err := selector.GenerateSpend(context.Background(), builder.New(s.notary), currency.NewAmount(100, currency.USD), s.seller, s.buyer)
	assert.Equal(t, fault.InsufficientFunds, err, "insufficient funds")

	_, _, err = selector.GenerateSpend(context.Background(), builder.New(s.notary), currency.NewAmount(0, currency.USD), s.seller, s.buyer)
	assert.Equal(t, fault.InvalidAmount, err, "zero amount")

	other := &identity.Party{Name: "other", Key: s.bank.Key}
	_, _, err = selector.GenerateSpend(context.Background(), builder.New(other), currency.NewAmount(10, currency.USD), s.seller, s.buyer)
	assert.Equal(t, fault.InsufficientFunds, err, "cash on another notary")
}

func TestMoveRules(t *testing.T) {
	s := newSetup(t)
	s.give(t, 100, currency.USD, s.buyer)
	input := s.vault.states[0]
	token := input.State.Data.(cash.State).Token

	build := func(quantity uint64, signer *account.Account) *builder.Builder {
		b := builder.New(s.notary)
		require.Nil(t, b.AddInputState(input), "input")
		require.Nil(t, b.AddOutputWithDefaultNotary(cash.State{Quantity: quantity, Token: token, Owner: s.seller}, cash.ContractName), "output")
		b.AddCommandData(cash.Move{}, signer)
		return b
	}

	assert.Nil(t, verify(t, build(100, s.buyer.Key), s.vault), "valid move")
	assert.True(t, errors.Is(verify(t, build(99, s.buyer.Key), s.vault), fault.ContractRejected), "cash destroyed")
	assert.True(t, errors.Is(verify(t, build(101, s.buyer.Key), s.vault), fault.ContractRejected), "cash created")
	assert.True(t, errors.Is(verify(t, build(100, s.seller.Key), s.vault), fault.ContractRejected), "owner did not sign")

	b := builder.New(s.notary)
	require.Nil(t, b.AddInputState(input), "input")
	require.Nil(t, b.AddOutputWithDefaultNotary(cash.State{Quantity: 100, Token: token, Owner: s.seller}, cash.ContractName), "output")
	assert.True(t, errors.Is(verify(t, b, s.vault), fault.ContractRejected), "no command")
}

func TestSumCashBy(t *testing.T) {
	s := newSetup(t)
	usd := cash.Issued{Issuer: s.bank, Currency: currency.USD}
	other := cash.Issued{Issuer: s.buyer, Currency: currency.USD}
	eur := cash.Issued{Issuer: s.bank, Currency: currency.EUR}

	states := []ledger.ContractState{
		cash.State{Quantity: 40, Token: usd, Owner: s.seller},
		cash.State{Quantity: 60, Token: other, Owner: s.seller.Anonymise()},
		cash.State{Quantity: 1000, Token: usd, Owner: s.buyer},
	}
	sum, err := cash.SumCashBy(states, s.seller)
	assert.Nil(t, err, "sum")
	assert.Equal(t, currency.NewAmount(100, currency.USD), sum, "issuers are ignored")

	sum, err = cash.SumCashBy(states, s.notary)
	assert.Nil(t, err, "empty sum")
	assert.True(t, sum.IsZero(), "no cash")
	assert.Equal(t, currency.Nothing, sum.Currency, "empty currency")

	states = append(states, cash.State{Quantity: 1, Token: eur, Owner: s.seller})
	_, err = cash.SumCashBy(states, s.seller)
	assert.Equal(t, fault.CurrencyMismatch, err, "mixed currencies")
}
