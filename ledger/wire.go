// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/merkle"
)

// WireTransaction - an immutable, hashed transaction
//
// all accessors return copies
type WireTransaction struct {
	inputs      []StateRef
	attachments []merkle.Digest
	outputs     []TransactionState
	commands    []Command
	notary      *identity.Party
	timeWindow  *TimeWindow
	privacySalt PrivacySalt
	id          merkle.Digest
}

// Components - the parts of a transaction before hashing
type Components struct {
	Inputs      []StateRef
	Attachments []merkle.Digest
	Outputs     []TransactionState
	Commands    []Command
	Notary      *identity.Party
	TimeWindow  *TimeWindow
	PrivacySalt PrivacySalt
}

// NewWireTransaction - deep copy the components and compute the id
func NewWireTransaction(c Components) *WireTransaction {
	wtx := &WireTransaction{
		inputs:      copyRefs(c.Inputs),
		attachments: copyDigests(c.Attachments),
		outputs:     copyStates(c.Outputs),
		commands:    copyCommands(c.Commands),
		privacySalt: c.PrivacySalt,
	}
	if nil != c.Notary {
		n := *c.Notary
		wtx.notary = &n
	}
	if nil != c.TimeWindow {
		tw := *c.TimeWindow
		wtx.timeWindow = &tw
	}
	wtx.id = computeId(wtx)
	return wtx
}

// Id - the transaction id
func (wtx *WireTransaction) Id() merkle.Digest {
	return wtx.id
}

// Inputs - consumed state references in input order
func (wtx *WireTransaction) Inputs() []StateRef {
	return copyRefs(wtx.inputs)
}

// Attachments - attachment hashes
func (wtx *WireTransaction) Attachments() []merkle.Digest {
	return copyDigests(wtx.attachments)
}

// Outputs - produced states in output order
func (wtx *WireTransaction) Outputs() []TransactionState {
	return copyStates(wtx.outputs)
}

// Commands - commands with their signers
func (wtx *WireTransaction) Commands() []Command {
	return copyCommands(wtx.commands)
}

// Notary - the notary, nil for an un-notarised transaction
func (wtx *WireTransaction) Notary() *identity.Party {
	if nil == wtx.notary {
		return nil
	}
	n := *wtx.notary
	return &n
}

// TimeWindow - the time window if one was set
func (wtx *WireTransaction) TimeWindow() (TimeWindow, bool) {
	if nil == wtx.timeWindow {
		return TimeWindow{}, false
	}
	return *wtx.timeWindow, true
}

// PrivacySalt - the salt used in the id
func (wtx *WireTransaction) PrivacySalt() PrivacySalt {
	return wtx.privacySalt
}

// OutRef - an output with its reference in this transaction
func (wtx *WireTransaction) OutRef(index int) (StateAndRef, bool) {
	if index < 0 || index >= len(wtx.outputs) {
		return StateAndRef{}, false
	}
	return StateAndRef{
		State: wtx.outputs[index].Copy(),
		Ref:   StateRef{TxId: wtx.id, Index: index},
	}, true
}

// RequiredSigningKeys - every command signer plus the notary when
// the notary has to sign
//
// the notary signs when there are inputs or a time window
func (wtx *WireTransaction) RequiredSigningKeys() []*account.Account {
	keys := make([]*account.Account, 0, 4)
	for _, c := range wtx.commands {
		for _, s := range c.Signers {
			keys = appendUniqueKey(keys, s)
		}
	}
	if nil != wtx.notary && (0 != len(wtx.inputs) || nil != wtx.timeWindow) {
		keys = appendUniqueKey(keys, wtx.notary.Key)
	}
	return keys
}

// Participants - every participant of every output
func (wtx *WireTransaction) Participants() []identity.AbstractParty {
	result := make([]identity.AbstractParty, 0, len(wtx.outputs))
	for _, out := range wtx.outputs {
		result = append(result, out.Data.Participants()...)
	}
	return result
}

func appendUniqueKey(keys []*account.Account, key *account.Account) []*account.Account {
	for _, k := range keys {
		if k.Equal(key) {
			return keys
		}
	}
	return append(keys, key)
}

// ContainsKey - true if key is in the list
func ContainsKey(keys []*account.Account, key *account.Account) bool {
	for _, k := range keys {
		if k.Equal(key) {
			return true
		}
	}
	return false
}

func copyRefs(refs []StateRef) []StateRef {
	result := make([]StateRef, len(refs))
	copy(result, refs)
	return result
}

func copyDigests(digests []merkle.Digest) []merkle.Digest {
	result := make([]merkle.Digest, len(digests))
	copy(result, digests)
	return result
}

func copyStates(states []TransactionState) []TransactionState {
	result := make([]TransactionState, len(states))
	for i, s := range states {
		result[i] = s.Copy()
	}
	return result
}

func copyCommands(commands []Command) []Command {
	result := make([]Command, len(commands))
	for i, c := range commands {
		result[i] = c.Copy()
	}
	return result
}
