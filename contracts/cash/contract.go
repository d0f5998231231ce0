// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cash

import (
	"fmt"
	"math"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/ledger"
)

// Contract - rules for cash states
type Contract struct{}

// make sure Contract implements ledger.Contract
var _ ledger.Contract = Contract{}

// per token totals
type tokenTotal struct {
	token   Issued
	inputs  uint64
	outputs uint64
}

func rejected(format string, arguments ...interface{}) error {
	return fmt.Errorf("%w: cash: %s", fault.ContractRejected, fmt.Sprintf(format, arguments...))
}

func addTotal(totals []*tokenTotal, token Issued, quantity uint64, input bool) ([]*tokenTotal, error) {
	var total *tokenTotal
	for _, t := range totals {
		if t.token.Same(token) {
			total = t
			break
		}
	}
	if nil == total {
		total = &tokenTotal{token: token}
		totals = append(totals, total)
	}
	p := &total.outputs
	if input {
		p = &total.inputs
	}
	if *p > math.MaxUint64-quantity {
		return nil, rejected("amount overflow")
	}
	*p += quantity
	return totals, nil
}

// Verify - cash is conserved per token unless issued, and moved only
// by its owners
func (Contract) Verify(tx *ledger.LedgerTransaction) error {

	var issue *ledger.Command
	var move *ledger.Command
	for _, c := range tx.Commands() {
		c := c
		switch c.Value.(type) {
		case Issue:
			if nil != issue {
				return rejected("multiple issue commands")
			}
			issue = &c
		case Move:
			if nil != move {
				return rejected("multiple move commands")
			}
			move = &c
		}
	}

	totals := []*tokenTotal{}
	inputs := []State{}
	var err error
	for _, s := range tx.InputStates() {
		c, ok := s.(State)
		if !ok {
			continue
		}
		inputs = append(inputs, c)
		totals, err = addTotal(totals, c.Token, c.Quantity, true)
		if nil != err {
			return err
		}
	}
	for _, s := range tx.OutputStates() {
		c, ok := s.(State)
		if !ok {
			continue
		}
		if 0 == c.Quantity {
			return rejected("zero amount output")
		}
		if nil == c.Owner || nil == c.Owner.OwningKey() {
			return rejected("output has no owner")
		}
		totals, err = addTotal(totals, c.Token, c.Quantity, false)
		if nil != err {
			return err
		}
	}

	switch {
	case nil != issue && nil != move:
		return rejected("issue and move in one transaction")

	case nil != issue:
		if 0 != len(inputs) {
			return rejected("issue consumes cash")
		}
		for _, t := range totals {
			if !issue.HasSigner(t.token.Issuer.Key) {
				return rejected("issuer: %s has not signed", t.token.Issuer)
			}
		}

	case nil != move:
		if 0 == len(inputs) {
			return rejected("move without inputs")
		}
		for _, t := range totals {
			if t.inputs != t.outputs {
				return rejected("%s: inputs: %d  outputs: %d", t.token.Currency, t.inputs, t.outputs)
			}
		}
		for _, in := range inputs {
			if !move.HasSigner(in.Owner.OwningKey()) {
				return rejected("owner: %s has not signed", in.Owner)
			}
		}

	default:
		return rejected("no cash command")
	}
	return nil
}
