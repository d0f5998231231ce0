// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flows

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/merkle"
	"github.com/bitmark-inc/dvpd/session"
)

// Finalise - notarise, record and distribute a transaction
//
// the transaction must carry every signature except the notary's
func (f *Flows) Finalise(ctx context.Context, stx *ledger.SignedTransaction, sessions ...session.Session) (*ledger.SignedTransaction, error) {
	id := stx.Id()
	wtx := stx.Tx()
	notary := notaryKeys(wtx)

	if _, err := f.verifyTransaction(f.Vault, stx, notary...); nil != err {
		f.log.Errorf("tx: %s  not ready for finality: %s", id, err)
		return nil, err
	}

	if 0 != len(notary) {
		sig, err := f.Notary.Notarise(ctx, stx)
		if nil != err {
			f.log.Errorf("tx: %s  notary: %s  error: %s", id, wtx.Notary(), err)
			return nil, fmt.Errorf("%w: %w", fault.NotaryRejected, err)
		}
		stx = stx.Plus(sig)
	}

	if err := stx.VerifyRequiredSignatures(); nil != err {
		return nil, err
	}
	if err := f.Vault.Record(stx); nil != err {
		return nil, err
	}

	for _, s := range sessions {
		if err := s.Send(ctx, FinalityMessage{Transaction: stx}); nil != err {
			f.log.Errorf("tx: %s  distribute to: %s  error: %s", id, s.Counterparty(), err)
			return nil, err
		}
	}
	f.log.Infof("finalised: %s  distributed to: %d parties", id, len(sessions))
	return stx, nil
}

// ReceiveFinality - receive and record the finalised transaction
func (f *Flows) ReceiveFinality(ctx context.Context, s session.Session, expected merkle.Digest) (*ledger.SignedTransaction, error) {
	m, err := session.Expect[FinalityMessage](ctx, s)
	if nil != err {
		return nil, err
	}
	stx := m.Transaction
	if nil == stx {
		return nil, fault.UnexpectedMessage
	}
	if stx.Id() != expected {
		f.log.Warnf("finality from: %s  tx: %s  expected: %s", s.Counterparty(), stx.Id(), expected)
		return nil, fault.TransactionIdMismatch
	}
	if err := stx.VerifyRequiredSignatures(); nil != err {
		return nil, err
	}
	if err := f.Vault.Record(stx); nil != err {
		return nil, err
	}
	f.log.Infof("received final: %s  from: %s", stx.Id(), s.Counterparty())
	return stx, nil
}
