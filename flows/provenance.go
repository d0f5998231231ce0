// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flows

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/merkle"
	"github.com/bitmark-inc/dvpd/session"
)

// SendStates - send states with every transaction they depend on
func (f *Flows) SendStates(ctx context.Context, s session.Session, states ...ledger.StateAndRef) error {
	ids := []merkle.Digest{}
	seen := make(map[merkle.Digest]bool)
	for _, sr := range states {
		if !seen[sr.Ref.TxId] {
			seen[sr.Ref.TxId] = true
			ids = append(ids, sr.Ref.TxId)
		}
	}

	chain, err := f.Vault.Backchain(ids...)
	if nil != err {
		f.log.Errorf("backchain for: %d states  error: %s", len(states), err)
		return err
	}

	m := StatesMessage{
		States:    append([]ledger.StateAndRef{}, states...),
		Backchain: chain,
	}
	f.log.Debugf("send: %d states  backchain: %d  to: %s", len(states), len(chain), s.Counterparty())
	return s.Send(ctx, m)
}

// ReceiveStates - receive states and verify their provenance
//
// the backchain is recorded once every transaction in it verifies and
// every state matches the output it refers to
func (f *Flows) ReceiveStates(ctx context.Context, s session.Session) ([]ledger.StateAndRef, error) {
	m, err := session.Expect[StatesMessage](ctx, s)
	if nil != err {
		return nil, err
	}

	loader, err := f.verifyChain(m.Backchain)
	if nil != err {
		return nil, err
	}

	states := make([]ledger.StateAndRef, 0, len(m.States))
	for _, sr := range m.States {
		stx, ok := loader.chain[sr.Ref.TxId]
		if !ok {
			return nil, fmt.Errorf("state: %s: %w", sr.Ref, fault.TransactionNotFound)
		}
		out, ok := stx.Tx().OutRef(sr.Ref.Index)
		if !ok || !bytes.Equal(out.State.Pack(), sr.State.Pack()) {
			f.log.Warnf("state: %s  does not match its transaction", sr.Ref)
			return nil, fmt.Errorf("state: %s: %w", sr.Ref, fault.StateNotFound)
		}
		states = append(states, out)
	}

	if err := f.Vault.Record(m.Backchain...); nil != err {
		return nil, err
	}
	f.log.Debugf("received: %d states  backchain: %d  from: %s", len(states), len(m.Backchain), s.Counterparty())
	return states, nil
}
