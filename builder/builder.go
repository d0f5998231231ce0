// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package builder - stage the parts of a transaction before it is
// hashed and signed
//
// A Builder is owned by exactly one protocol instance and is not safe
// for concurrent use; Copy gives an independent draft.
package builder

import (
	"time"

	"github.com/google/uuid"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/merkle"
)

// Builder - mutable staging area for one transaction
type Builder struct {
	notary      *identity.Party
	lockId      uuid.UUID
	inputs      []ledger.StateRef
	attachments []merkle.Digest
	outputs     []ledger.TransactionState
	commands    []ledger.Command
	timeWindow  *ledger.TimeWindow
	privacySalt ledger.PrivacySalt
}

// New - empty builder for a notary
//
// a nil notary gives an un-notarised transaction, which may not
// consume inputs of a notarised state or carry a time window
func New(notary *identity.Party) *Builder {
	b := &Builder{
		lockId:      uuid.New(),
		privacySalt: ledger.NewPrivacySalt(),
	}
	if nil != notary {
		n := *notary
		b.notary = &n
	}
	return b
}

// Copy - independent builder with the same contents and lock id
func (b *Builder) Copy() *Builder {
	c := &Builder{
		lockId:      b.lockId,
		inputs:      b.Inputs(),
		attachments: b.Attachments(),
		outputs:     b.Outputs(),
		commands:    b.Commands(),
		privacySalt: b.privacySalt,
		notary:      b.Notary(),
	}
	if nil != b.timeWindow {
		tw := *b.timeWindow
		c.timeWindow = &tw
	}
	return c
}

// AddInputState - consume a state
//
// the state must be controlled by the builder's notary
func (b *Builder) AddInputState(stateAndRef ledger.StateAndRef) error {
	if !ledger.SameNotary(stateAndRef.State.Notary, b.notary) {
		return fault.NotaryMismatch
	}
	b.inputs = append(b.inputs, stateAndRef.Ref)
	return nil
}

// AddOutputState - produce a state
//
// when the builder has a notary the state must use it
func (b *Builder) AddOutputState(state ledger.TransactionState) error {
	if nil != b.notary && !ledger.SameNotary(state.Notary, b.notary) {
		return fault.NotaryMismatch
	}
	b.outputs = append(b.outputs, state.Copy())
	return nil
}

// AddOutput - produce a state under a given contract and notary
func (b *Builder) AddOutput(data ledger.ContractState, contract string, notary *identity.Party, encumbrance *int) error {
	state := ledger.NewTransactionState(data, contract, notary)
	if nil != encumbrance {
		state = state.WithEncumbrance(*encumbrance)
	}
	return b.AddOutputState(state)
}

// AddOutputWithDefaultNotary - produce a state using the builder's notary
func (b *Builder) AddOutputWithDefaultNotary(data ledger.ContractState, contract string) error {
	if nil == b.notary {
		return fault.MissingNotary
	}
	return b.AddOutput(data, contract, b.notary, nil)
}

// AddAttachment - reference an attachment by hash
func (b *Builder) AddAttachment(hash merkle.Digest) {
	b.attachments = append(b.attachments, hash)
}

// AddCommand - add a command
func (b *Builder) AddCommand(command ledger.Command) {
	b.commands = append(b.commands, command.Copy())
}

// AddCommandData - add a command made from data and signing keys
func (b *Builder) AddCommandData(data ledger.CommandData, signers ...*account.Account) {
	b.commands = append(b.commands, ledger.NewCommand(data, signers...))
}

// SetTimeWindow - replace the time window
func (b *Builder) SetTimeWindow(timeWindow ledger.TimeWindow) error {
	if nil == b.notary {
		return fault.TimeWindowRequiresNotary
	}
	b.timeWindow = &timeWindow
	return nil
}

// SetTimeWindowAround - replace the time window with instant ± tolerance
func (b *Builder) SetTimeWindowAround(instant time.Time, tolerance time.Duration) error {
	timeWindow, err := ledger.WithTolerance(instant, tolerance)
	if nil != err {
		return err
	}
	return b.SetTimeWindow(timeWindow)
}

// SetPrivacySalt - replace the privacy salt
func (b *Builder) SetPrivacySalt(salt ledger.PrivacySalt) error {
	if salt.IsZero() {
		return fault.InvalidPrivacySalt
	}
	b.privacySalt = salt
	return nil
}

// ToWireTransaction - immutable snapshot of the current contents
//
// the lock id is not part of the snapshot
func (b *Builder) ToWireTransaction() *ledger.WireTransaction {
	return ledger.NewWireTransaction(ledger.Components{
		Inputs:      b.inputs,
		Attachments: b.attachments,
		Outputs:     b.outputs,
		Commands:    b.commands,
		Notary:      b.notary,
		TimeWindow:  b.timeWindow,
		PrivacySalt: b.privacySalt,
	})
}

// ToLedgerTransaction - snapshot with inputs resolved
func (b *Builder) ToLedgerTransaction(loader ledger.StateLoader) (*ledger.LedgerTransaction, error) {
	return b.ToWireTransaction().ToLedgerTransaction(loader)
}

// Verify - run the ledger checks and contracts over the current contents
func (b *Builder) Verify(loader ledger.StateLoader, contracts ledger.Contracts) error {
	ltx, err := b.ToLedgerTransaction(loader)
	if nil != err {
		return err
	}
	return ltx.Verify(contracts)
}

// ToSignedTransaction - snapshot and sign with one key
func (b *Builder) ToSignedTransaction(signer ledger.KeySigner, key *account.Account, metadata ledger.SignatureMetadata) (*ledger.SignedTransaction, error) {
	wtx := b.ToWireTransaction()
	sig, err := ledger.SignWith(signer, key, wtx.Id(), metadata)
	if nil != err {
		return nil, err
	}
	return ledger.NewSignedTransaction(wtx, sig), nil
}

// LockId - process-local id used to soft lock states selected for this builder
func (b *Builder) LockId() uuid.UUID {
	return b.lockId
}

// Notary - copy of the notary, nil if none
func (b *Builder) Notary() *identity.Party {
	if nil == b.notary {
		return nil
	}
	n := *b.notary
	return &n
}

// Inputs - copy of the input refs
func (b *Builder) Inputs() []ledger.StateRef {
	result := make([]ledger.StateRef, len(b.inputs))
	copy(result, b.inputs)
	return result
}

// Attachments - copy of the attachment hashes
func (b *Builder) Attachments() []merkle.Digest {
	result := make([]merkle.Digest, len(b.attachments))
	copy(result, b.attachments)
	return result
}

// Outputs - copy of the outputs
func (b *Builder) Outputs() []ledger.TransactionState {
	result := make([]ledger.TransactionState, len(b.outputs))
	for i, out := range b.outputs {
		result[i] = out.Copy()
	}
	return result
}

// Commands - copy of the commands
func (b *Builder) Commands() []ledger.Command {
	result := make([]ledger.Command, len(b.commands))
	for i, c := range b.commands {
		result[i] = c.Copy()
	}
	return result
}

// TimeWindow - the time window if set
func (b *Builder) TimeWindow() (ledger.TimeWindow, bool) {
	if nil == b.timeWindow {
		return ledger.TimeWindow{}, false
	}
	return *b.timeWindow, true
}

// PrivacySalt - the current salt
func (b *Builder) PrivacySalt() ledger.PrivacySalt {
	return b.privacySalt
}
