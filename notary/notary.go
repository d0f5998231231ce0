// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package notary - a single writer uniqueness service
//
// The notary does not look inside transactions: it checks that it is
// the transaction's notary, that the time window contains its clock,
// that all other signatures are present, and that no input has
// already been consumed.  Accepted inputs are committed in one batch
// before the notary signs.
package notary

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/storage"
)

type pools struct {
	Committed *storage.PoolHandle `prefix:"S"`
	Notarised *storage.PoolHandle `prefix:"N"`
}

// Notary - the uniqueness service for one notary identity
type Notary struct {
	sync.Mutex
	log      *logger.L
	party    identity.Party
	signer   ledger.KeySigner
	database *storage.Database
	pools    pools
	clock    func() time.Time
}

// New - create a notary
//
// a nil clock uses time.Now
func New(party identity.Party, signer ledger.KeySigner, database *storage.Database, clock func() time.Time) (*Notary, error) {
	if nil == clock {
		clock = time.Now
	}
	n := &Notary{
		log:      logger.New("notary:" + party.Name),
		party:    party,
		signer:   signer,
		database: database,
		clock:    clock,
	}
	if err := database.Bind(&n.pools); nil != err {
		return nil, err
	}
	return n, nil
}

// Party - the notary identity
func (n *Notary) Party() identity.Party {
	return n.party
}

// Notarise - commit the inputs of a transaction and sign it
//
// notarising the same transaction again returns a fresh signature
func (n *Notary) Notarise(ctx context.Context, stx *ledger.SignedTransaction) (ledger.TransactionSignature, error) {
	if err := ctx.Err(); nil != err {
		return ledger.TransactionSignature{}, err
	}

	id := stx.Id()
	wtx := stx.Tx()

	if !ledger.SameNotary(wtx.Notary(), &n.party) {
		n.log.Warnf("tx: %s  not for this notary", id)
		return ledger.TransactionSignature{}, fault.WrongNotary
	}

	now := n.clock()
	if tw, ok := wtx.TimeWindow(); ok && !tw.Contains(now) {
		n.log.Warnf("tx: %s  time window: %s  does not contain: %s", id, tw, now)
		return ledger.TransactionSignature{}, fault.TimeWindowInvalid
	}

	if err := stx.VerifySignaturesExcept(n.party.Key); nil != err {
		n.log.Warnf("tx: %s  signature error: %s", id, err)
		return ledger.TransactionSignature{}, err
	}

	if err := n.commit(id[:], wtx.Inputs(), now); nil != err {
		return ledger.TransactionSignature{}, err
	}

	sig, err := ledger.SignWith(n.signer, n.party.Key, id, ledger.DefaultMetadata())
	if nil != err {
		n.log.Criticalf("tx: %s  notary cannot sign: %s", id, err)
		return ledger.TransactionSignature{}, err
	}
	n.log.Infof("notarised: %s  inputs: %d", id, len(wtx.Inputs()))
	return sig, nil
}

// check and commit all inputs under the single writer lock
func (n *Notary) commit(id []byte, inputs []ledger.StateRef, now time.Time) error {
	n.Lock()
	defer n.Unlock()

	batch := n.database.NewBatch()
	for _, ref := range inputs {
		key := ref.Pack()
		consumer := n.pools.Committed.Get(key)
		if nil == consumer {
			batch.Put(n.pools.Committed, key, id)
			continue
		}
		if !bytes.Equal(consumer, id) {
			n.log.Warnf("tx: %x  double spend of: %s  already consumed by: %x", id, ref, consumer)
			return fmt.Errorf("%w: %s", fault.DoubleSpend, ref)
		}
	}
	if !n.pools.Notarised.Has(id) {
		batch.PutN(n.pools.Notarised, id, uint64(now.UnixNano()))
	}
	if 0 == batch.Len() {
		return nil
	}
	return batch.Commit()
}

// IsCommitted - true if a notarised transaction consumed the ref
func (n *Notary) IsCommitted(ref ledger.StateRef) bool {
	return n.pools.Committed.Has(ref.Pack())
}

// NotarisedCount - number of distinct transactions notarised
func (n *Notary) NotarisedCount() int {
	return n.pools.Notarised.Count()
}
