// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"fmt"
	"sort"

	"github.com/bitmark-inc/dvpd/fault"
)

// Contract - rules that every transaction using a state must obey
type Contract interface {
	Verify(tx *LedgerTransaction) error
}

// Contracts - registered contracts by name
type Contracts map[string]Contract

// StateLoader - finds the output a state ref points at
type StateLoader interface {
	LoadState(ref StateRef) (TransactionState, error)
}

// LedgerTransaction - a wire transaction with its inputs resolved
type LedgerTransaction struct {
	Wire   *WireTransaction
	Inputs []StateAndRef
}

// ToLedgerTransaction - resolve all inputs
func (wtx *WireTransaction) ToLedgerTransaction(loader StateLoader) (*LedgerTransaction, error) {
	inputs := make([]StateAndRef, 0, len(wtx.inputs))
	for _, ref := range wtx.inputs {
		state, err := loader.LoadState(ref)
		if nil != err {
			return nil, fmt.Errorf("input: %s: %w", ref, err)
		}
		inputs = append(inputs, StateAndRef{State: state, Ref: ref})
	}
	return &LedgerTransaction{
		Wire:   wtx,
		Inputs: inputs,
	}, nil
}

// InputStates - resolved input data
func (ltx *LedgerTransaction) InputStates() []ContractState {
	result := make([]ContractState, len(ltx.Inputs))
	for i, in := range ltx.Inputs {
		result[i] = in.State.Data
	}
	return result
}

// OutputStates - output data
func (ltx *LedgerTransaction) OutputStates() []ContractState {
	outputs := ltx.Wire.outputs
	result := make([]ContractState, len(outputs))
	for i, out := range outputs {
		result[i] = out.Data
	}
	return result
}

// Commands - the transaction commands
func (ltx *LedgerTransaction) Commands() []Command {
	return ltx.Wire.Commands()
}

// Verify - the deferred validation of a transaction
//
// checks notary consistency, time window, encumbrances, then runs
// every contract referenced by an input or an output
func (ltx *LedgerTransaction) Verify(contracts Contracts) error {
	wtx := ltx.Wire

	if nil != wtx.timeWindow && nil == wtx.notary {
		return fault.TimeWindowRequiresNotary
	}
	if 0 != len(ltx.Inputs) && nil == wtx.notary {
		return fault.MissingNotary
	}

	for _, in := range ltx.Inputs {
		if !SameNotary(in.State.Notary, wtx.notary) {
			return fmt.Errorf("%w: input: %s", fault.NotaryMismatch, in.Ref)
		}
	}
	for i, out := range wtx.outputs {
		if nil != wtx.notary && !SameNotary(out.Notary, wtx.notary) {
			return fmt.Errorf("%w: output: %d", fault.NotaryMismatch, i)
		}
		if nil != out.Encumbrance {
			e := *out.Encumbrance
			if e < 0 || e >= len(wtx.outputs) || e == i {
				return fmt.Errorf("%w: output: %d", fault.InvalidEncumbrance, i)
			}
		}
	}

	names := make(map[string]struct{})
	for _, in := range ltx.Inputs {
		names[in.State.Contract] = struct{}{}
	}
	for _, out := range wtx.outputs {
		names[out.Contract] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		contract, ok := contracts[name]
		if !ok {
			return fmt.Errorf("%w: %q", fault.UnknownContract, name)
		}
		if err := contract.Verify(ltx); nil != err {
			return fmt.Errorf("contract: %s: %w", name, err)
		}
	}
	return nil
}
