// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bitmark - a unique digital property identified by its
// magic number and issuer
package bitmark

import (
	"fmt"

	"github.com/bitmark-inc/dvpd/builder"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/util"
)

// ContractName - contract id used in transaction states
const ContractName = "bitmark"

// State - one property and its owner
type State struct {
	MagicNumber uint64
	Issuer      identity.Party
	Owner       identity.AbstractParty
}

// Issue - command to create a property
type Issue struct{}

// Move - command to transfer a property
type Move struct{}

// Pack - command type
func (Issue) Pack() []byte { return []byte("bitmark.Issue") }

// Pack - command type
func (Move) Pack() []byte { return []byte("bitmark.Move") }

// make sure State is ownable
var _ ledger.OwnableState = State{}

// Participants - only the owner
func (s State) Participants() []identity.AbstractParty {
	return []identity.AbstractParty{s.Owner}
}

// Pack - canonical form for hashing
func (s State) Pack() []byte {
	buffer := util.AppendString(nil, ContractName)
	buffer = util.AppendVarint64(buffer, s.MagicNumber)
	buffer = util.AppendString(buffer, s.Issuer.Name)
	buffer = identity.Pack(buffer, s.Issuer)
	return identity.Pack(buffer, s.Owner)
}

// OwnedBy - the current owner
func (s State) OwnedBy() identity.AbstractParty {
	return s.Owner
}

// WithNewOwner - same property with a different owner
func (s State) WithNewOwner(newOwner identity.AbstractParty) (ledger.CommandData, ledger.OwnableState) {
	s.Owner = newOwner
	return Move{}, s
}

// same property regardless of owner
func (s State) sameProperty(other State) bool {
	return s.MagicNumber == other.MagicNumber && s.Issuer.Name == other.Issuer.Name && s.Issuer.Key.Equal(other.Issuer.Key)
}

// Contract - rules for bitmark states
type Contract struct{}

// make sure Contract implements ledger.Contract
var _ ledger.Contract = Contract{}

func rejected(format string, arguments ...interface{}) error {
	return fmt.Errorf("%w: bitmark: %s", fault.ContractRejected, fmt.Sprintf(format, arguments...))
}

// Verify - a property is created by its issuer and each transfer
// keeps the property intact and is signed by the previous owner
func (Contract) Verify(tx *ledger.LedgerTransaction) error {

	var command *ledger.Command
	for _, c := range tx.Commands() {
		c := c
		switch c.Value.(type) {
		case Issue, Move:
			if nil != command {
				return rejected("multiple commands")
			}
			command = &c
		}
	}
	if nil == command {
		return rejected("no bitmark command")
	}

	inputs := []State{}
	for _, s := range tx.InputStates() {
		if b, ok := s.(State); ok {
			inputs = append(inputs, b)
		}
	}
	outputs := []State{}
	for _, s := range tx.OutputStates() {
		b, ok := s.(State)
		if !ok {
			continue
		}
		if nil == b.Owner || nil == b.Owner.OwningKey() {
			return rejected("output has no owner")
		}
		outputs = append(outputs, b)
	}

	switch command.Value.(type) {
	case Issue:
		if 0 != len(inputs) {
			return rejected("issue consumes a bitmark")
		}
		if 0 == len(outputs) {
			return rejected("issue without output")
		}
		for _, out := range outputs {
			if !command.HasSigner(out.Issuer.Key) {
				return rejected("issuer: %s has not signed", out.Issuer)
			}
		}

	case Move:
		if len(inputs) != len(outputs) {
			return rejected("inputs: %d  outputs: %d", len(inputs), len(outputs))
		}
		for _, in := range inputs {
			n := 0
			for _, out := range outputs {
				if in.sameProperty(out) {
					n += 1
				}
			}
			if 1 != n {
				return rejected("property: %d has %d outputs", in.MagicNumber, n)
			}
			if !command.HasSigner(in.Owner.OwningKey()) {
				return rejected("owner: %s has not signed", in.Owner)
			}
		}
	}
	return nil
}

// GenerateIssue - add the issue of a property to a builder
func GenerateIssue(b *builder.Builder, magicNumber uint64, issuer identity.Party, owner identity.AbstractParty) error {
	state := State{
		MagicNumber: magicNumber,
		Issuer:      issuer,
		Owner:       owner,
	}
	if err := b.AddOutputWithDefaultNotary(state, ContractName); nil != err {
		return err
	}
	b.AddCommandData(Issue{}, issuer.Key)
	return nil
}
