// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/merkle"
	"github.com/bitmark-inc/dvpd/util"
)

const dummyContract = "dummy"

type dummyState struct {
	value int
	owner identity.AbstractParty
}

func (s dummyState) Participants() []identity.AbstractParty {
	return []identity.AbstractParty{s.owner}
}

func (s dummyState) Pack() []byte {
	buffer := util.AppendVarint64(util.AppendString(nil, "dummy"), uint64(s.value))
	return identity.Pack(buffer, s.owner)
}

type dummyCommand struct{}

func (dummyCommand) Pack() []byte { return []byte("dummy-command") }

type dummyVerifier struct {
	err   error
	calls int
}

func (d *dummyVerifier) Verify(tx *ledger.LedgerTransaction) error {
	d.calls += 1
	return d.err
}

type mapLoader map[ledger.StateRef]ledger.TransactionState

func (m mapLoader) LoadState(ref ledger.StateRef) (ledger.TransactionState, error) {
	state, ok := m[ref]
	if !ok {
		return ledger.TransactionState{}, fault.StateNotFound
	}
	return state, nil
}

// simple in-memory signer
type signer map[string]*account.PrivateKey

func (s signer) Sign(payload []byte, key *account.Account) (account.Signature, error) {
	pk, ok := s[string(key.Bytes())]
	if !ok {
		return nil, fault.KeyNotFound
	}
	return pk.Sign(payload), nil
}

func (s signer) fresh(t *testing.T) *account.Account {
	pk, err := account.NewPrivateKey(nil)
	require.Nil(t, err, "new private key")
	s[string(pk.Account().Bytes())] = pk
	return pk.Account()
}

func fixedSalt(b byte) ledger.PrivacySalt {
	salt, _ := ledger.PrivacySaltFromBytes(bytes.Repeat([]byte{b}, ledger.PrivacySaltLength))
	return salt
}

type world struct {
	signer signer
	notary *identity.Party
	owner  identity.Party
}

func newWorld(t *testing.T) *world {
	s := signer{}
	return &world{
		signer: s,
		notary: &identity.Party{Name: "notary", Key: s.fresh(t)},
		owner:  identity.Party{Name: "owner", Key: s.fresh(t)},
	}
}

func (w *world) components(inputs ...ledger.StateRef) ledger.Components {
	return ledger.Components{
		Inputs:      inputs,
		Outputs:     []ledger.TransactionState{ledger.NewTransactionState(dummyState{1, w.owner}, dummyContract, w.notary)},
		Commands:    []ledger.Command{ledger.NewCommand(dummyCommand{}, w.owner.Key)},
		Notary:      w.notary,
		PrivacySalt: fixedSalt(7),
	}
}

func TestTimeWindow(t *testing.T) {
	now := time.Unix(1600000000, 0)

	_, err := ledger.Between(now, now)
	assert.Equal(t, fault.TimeWindowInvalid, err, "empty window")

	tw, err := ledger.WithTolerance(now, 30*time.Second)
	require.Nil(t, err, "with tolerance")
	assert.True(t, tw.Contains(now), "contains centre")
	assert.True(t, tw.Contains(now.Add(-30*time.Second)), "from is inclusive")
	assert.False(t, tw.Contains(now.Add(30*time.Second)), "until is exclusive")
	mid, ok := tw.Midpoint()
	assert.True(t, ok, "midpoint")
	assert.True(t, now.Equal(mid), "midpoint value")

	assert.True(t, ledger.FromOnly(now).Contains(now.Add(time.Hour)), "open until")
	assert.False(t, ledger.UntilOnly(now).Contains(now), "until only excludes bound")
	_, ok = ledger.TimeWindow{}.Midpoint()
	assert.False(t, ok, "unbounded midpoint")
}

func TestPrivacySalt(t *testing.T) {
	_, err := ledger.PrivacySaltFromBytes(make([]byte, ledger.PrivacySaltLength))
	assert.Equal(t, fault.InvalidPrivacySalt, err, "zero salt")

	_, err = ledger.PrivacySaltFromBytes([]byte{1, 2, 3})
	assert.Equal(t, fault.InvalidPrivacySalt, err, "short salt")

	a := ledger.NewPrivacySalt()
	b := ledger.NewPrivacySalt()
	assert.False(t, a.IsZero(), "fresh salt is zero")
	assert.NotEqual(t, a, b, "fresh salts repeat")
}

func TestStateRefBytes(t *testing.T) {
	ref := ledger.StateRef{TxId: merkle.NewDigest([]byte("tx")), Index: 300}
	decoded, err := ledger.StateRefFromBytes(ref.Pack())
	assert.Nil(t, err, "decode")
	assert.Equal(t, ref, decoded, "round trip")

	_, err = ledger.StateRefFromBytes(ref.Pack()[:10])
	assert.NotNil(t, err, "truncated ref")
}

func TestIdDeterministic(t *testing.T) {
	w := newWorld(t)
	input := ledger.StateRef{TxId: merkle.NewDigest([]byte("previous")), Index: 0}

	one := ledger.NewWireTransaction(w.components(input))
	two := ledger.NewWireTransaction(w.components(input))
	assert.Equal(t, one.Id(), two.Id(), "same content gives different ids")

	c := w.components(input)
	c.PrivacySalt = fixedSalt(8)
	assert.NotEqual(t, one.Id(), ledger.NewWireTransaction(c).Id(), "salt does not change id")

	c = w.components(input, ledger.StateRef{TxId: input.TxId, Index: 1})
	reordered := w.components(ledger.StateRef{TxId: input.TxId, Index: 1}, input)
	assert.NotEqual(t, ledger.NewWireTransaction(c).Id(), ledger.NewWireTransaction(reordered).Id(), "input order ignored")

	c = w.components(input)
	c.Commands = []ledger.Command{ledger.NewCommand(dummyCommand{}, w.notary.Key)}
	assert.NotEqual(t, one.Id(), ledger.NewWireTransaction(c).Id(), "signers not hashed")
}

func TestWireIsolation(t *testing.T) {
	w := newWorld(t)
	c := w.components(ledger.StateRef{Index: 3})
	wtx := ledger.NewWireTransaction(c)
	id := wtx.Id()

	// mutate the source components and the returned copies
	c.Inputs[0].Index = 9
	c.Commands[0].Signers[0] = w.notary.Key
	inputs := wtx.Inputs()
	inputs[0].Index = 8
	commands := wtx.Commands()
	commands[0].Signers[0] = w.notary.Key

	assert.Equal(t, 3, wtx.Inputs()[0].Index, "input changed")
	assert.True(t, wtx.Commands()[0].Signers[0].Equal(w.owner.Key), "signer changed")
	assert.Equal(t, id, wtx.Id(), "id changed")
}

func TestRequiredSigningKeys(t *testing.T) {
	w := newWorld(t)

	// issuance with no inputs and no time window: notary does not sign
	issue := ledger.NewWireTransaction(w.components())
	assert.Equal(t, []*account.Account{w.owner.Key}, issue.RequiredSigningKeys(), "issue signers")

	move := ledger.NewWireTransaction(w.components(ledger.StateRef{}))
	assert.Equal(t, []*account.Account{w.owner.Key, w.notary.Key}, move.RequiredSigningKeys(), "move signers")

	c := w.components()
	tw := ledger.FromOnly(time.Now())
	c.TimeWindow = &tw
	timed := ledger.NewWireTransaction(c)
	assert.Equal(t, 2, len(timed.RequiredSigningKeys()), "time window requires notary")
}

func TestSignedTransaction(t *testing.T) {
	w := newWorld(t)
	wtx := ledger.NewWireTransaction(w.components(ledger.StateRef{}))

	ownerSig, err := ledger.SignWith(w.signer, w.owner.Key, wtx.Id(), ledger.DefaultMetadata())
	require.Nil(t, err, "owner sign")

	stx := ledger.NewSignedTransaction(wtx, ownerSig)
	assert.Nil(t, stx.VerifySignaturesExcept(w.notary.Key), "missing notary allowed")
	err = stx.VerifyRequiredSignatures()
	assert.True(t, errors.Is(err, fault.MissingSignature), "notary missing: %v", err)
	assert.Equal(t, []*account.Account{w.notary.Key}, stx.MissingSigners(), "missing signers")

	notarySig, err := ledger.SignWith(w.signer, w.notary.Key, wtx.Id(), ledger.DefaultMetadata())
	require.Nil(t, err, "notary sign")

	full := stx.Plus(notarySig, notarySig)
	assert.Equal(t, 1, len(stx.Sigs()), "plus mutated original")
	assert.Equal(t, 2, len(full.Sigs()), "duplicate signature kept")
	assert.Nil(t, full.VerifyRequiredSignatures(), "fully signed")

	// signature over different metadata does not verify
	bad := ownerSig
	bad.Metadata.PlatformVersion = 99
	err = ledger.NewSignedTransaction(wtx, bad).CheckSignaturesAreValid()
	assert.True(t, errors.Is(err, fault.InvalidSignature), "tampered metadata: %v", err)
}

func TestLedgerVerify(t *testing.T) {
	w := newWorld(t)
	previous := ledger.NewWireTransaction(w.components())
	input, _ := previous.OutRef(0)

	loader := mapLoader{input.Ref: input.State}
	verifier := &dummyVerifier{}
	contracts := ledger.Contracts{dummyContract: verifier}

	ltx, err := ledger.NewWireTransaction(w.components(input.Ref)).ToLedgerTransaction(loader)
	require.Nil(t, err, "resolve")
	assert.Nil(t, ltx.Verify(contracts), "valid transaction")
	assert.Equal(t, 1, verifier.calls, "contract not run")

	verifier.err = fault.ContractRejected
	assert.True(t, errors.Is(ltx.Verify(contracts), fault.ContractRejected), "contract error lost")

	err = ltx.Verify(ledger.Contracts{})
	assert.True(t, errors.Is(err, fault.UnknownContract), "unknown contract: %v", err)

	_, err = ledger.NewWireTransaction(w.components(ledger.StateRef{Index: 5})).ToLedgerTransaction(loader)
	assert.True(t, errors.Is(err, fault.StateNotFound), "unresolved input: %v", err)

	// output on another notary
	other := &identity.Party{Name: "other", Key: w.signer.fresh(t)}
	c := w.components(input.Ref)
	c.Outputs[0].Notary = other
	ltx, _ = ledger.NewWireTransaction(c).ToLedgerTransaction(loader)
	assert.True(t, errors.Is(ltx.Verify(ledger.Contracts{dummyContract: &dummyVerifier{}}), fault.NotaryMismatch), "output notary")

	// encumbrance pointing at itself
	c = w.components(input.Ref)
	c.Outputs[0] = c.Outputs[0].WithEncumbrance(0)
	ltx, _ = ledger.NewWireTransaction(c).ToLedgerTransaction(loader)
	assert.True(t, errors.Is(ltx.Verify(ledger.Contracts{dummyContract: &dummyVerifier{}}), fault.InvalidEncumbrance), "self encumbrance")
}
