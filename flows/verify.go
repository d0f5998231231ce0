// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flows

import (
	"fmt"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/merkle"
)

// resolves states from a received backchain before the vault
type chainLoader struct {
	chain map[merkle.Digest]*ledger.SignedTransaction
	vault ledger.StateLoader
}

func (l *chainLoader) LoadState(ref ledger.StateRef) (ledger.TransactionState, error) {
	stx, ok := l.chain[ref.TxId]
	if !ok {
		return l.vault.LoadState(ref)
	}
	out, ok := stx.Tx().OutRef(ref.Index)
	if !ok {
		return ledger.TransactionState{}, fault.StateNotFound
	}
	return out.State, nil
}

// verify a backchain in dependency order
//
// each transaction must be fully signed and pass its contracts using
// only the vault and the transactions before it
func (f *Flows) verifyChain(chain []*ledger.SignedTransaction) (*chainLoader, error) {
	loader := &chainLoader{
		chain: make(map[merkle.Digest]*ledger.SignedTransaction, len(chain)),
		vault: f.Vault,
	}
	for _, stx := range chain {
		if nil == stx {
			return nil, fault.UnexpectedMessage
		}
		if _, err := f.verifyTransaction(loader, stx); nil != err {
			f.log.Warnf("backchain tx: %s  error: %s", stx.Id(), err)
			return nil, fmt.Errorf("backchain tx: %s: %w", stx.Id(), err)
		}
		loader.chain[stx.Id()] = stx
	}
	return loader, nil
}

// check signatures except the allowed missing ones, then contracts
func (f *Flows) verifyTransaction(loader ledger.StateLoader, stx *ledger.SignedTransaction, allowedMissing ...*account.Account) (*ledger.LedgerTransaction, error) {
	if err := stx.VerifySignaturesExcept(allowedMissing...); nil != err {
		return nil, err
	}
	ltx, err := stx.Tx().ToLedgerTransaction(loader)
	if nil != err {
		return nil, err
	}
	if err := ltx.Verify(f.Contracts); nil != err {
		return nil, err
	}
	return ltx, nil
}
