// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vault - the transactions and states known to one party
//
// signed transactions are held in memory; the consumed, unconsumed
// and soft lock indexes are kept in a storage database
package vault

import (
	"bytes"
	"sync"

	"github.com/google/uuid"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/merkle"
	"github.com/bitmark-inc/dvpd/storage"
)

// KeyOwner - tells which keys this party holds
type KeyOwner interface {
	Owns(key *account.Account) bool
}

type pools struct {
	Transactions *storage.PoolHandle `prefix:"T"`
	Unconsumed   *storage.PoolHandle `prefix:"U"`
	Consumed     *storage.PoolHandle `prefix:"C"`
	Locks        *storage.PoolHandle `prefix:"L"`
}

// Vault - recorded transactions and the state indexes
type Vault struct {
	sync.RWMutex
	log          *logger.L
	keys         KeyOwner
	database     *storage.Database
	pools        pools
	transactions map[merkle.Digest]*ledger.SignedTransaction
}

// New - create a vault over a database
func New(name string, database *storage.Database, keys KeyOwner) (*Vault, error) {
	v := &Vault{
		log:          logger.New("vault:" + name),
		keys:         keys,
		database:     database,
		transactions: make(map[merkle.Digest]*ledger.SignedTransaction),
	}
	if err := database.Bind(&v.pools); nil != err {
		return nil, err
	}
	return v, nil
}

// Record - store transactions and update the state indexes
//
// already recorded transactions are skipped; the transactions may be
// in any order
func (v *Vault) Record(transactions ...*ledger.SignedTransaction) error {
	v.Lock()
	defer v.Unlock()

	batch := v.database.NewBatch()
	added := make([]*ledger.SignedTransaction, 0, len(transactions))

	// refs spent and ids seen by this call, not yet in the database
	consumed := make(map[ledger.StateRef]struct{})
	seen := make(map[merkle.Digest]struct{})
	for _, stx := range transactions {
		for _, ref := range stx.Tx().Inputs() {
			consumed[ref] = struct{}{}
		}
	}

	for _, stx := range transactions {
		id := stx.Id()
		if _, ok := v.transactions[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		wtx := stx.Tx()
		dependencies := make([]byte, 0, merkle.DigestLength*len(wtx.Inputs()))
		for _, ref := range wtx.Inputs() {
			key := ref.Pack()
			batch.Put(v.pools.Consumed, key, id[:])
			batch.Delete(v.pools.Unconsumed, key)
			batch.Delete(v.pools.Locks, key)
			dependencies = append(dependencies, ref.TxId[:]...)
		}

		for i, out := range wtx.Outputs() {
			if !v.relevant(out) {
				continue
			}
			ref := ledger.StateRef{TxId: id, Index: i}
			if _, ok := consumed[ref]; ok {
				continue
			}
			if v.pools.Consumed.Has(ref.Pack()) {
				continue
			}
			batch.Put(v.pools.Unconsumed, ref.Pack(), []byte(out.Contract))
		}

		batch.Put(v.pools.Transactions, id[:], dependencies)
		added = append(added, stx)
	}

	if 0 == len(added) {
		return nil
	}
	if err := batch.Commit(); nil != err {
		v.log.Errorf("record commit error: %s", err)
		return err
	}
	for _, stx := range added {
		v.transactions[stx.Id()] = stx
		v.log.Debugf("recorded: %s", stx.Id())
	}
	return nil
}

// an output is tracked if any participant key is ours
func (v *Vault) relevant(out ledger.TransactionState) bool {
	for _, p := range out.Data.Participants() {
		if nil != p && v.keys.Owns(p.OwningKey()) {
			return true
		}
	}
	return false
}

// Transaction - a recorded transaction
func (v *Vault) Transaction(id merkle.Digest) (*ledger.SignedTransaction, error) {
	v.RLock()
	defer v.RUnlock()
	stx, ok := v.transactions[id]
	if !ok {
		return nil, fault.TransactionNotFound
	}
	return stx, nil
}

// LoadState - the output a ref points at
func (v *Vault) LoadState(ref ledger.StateRef) (ledger.TransactionState, error) {
	v.RLock()
	stx, ok := v.transactions[ref.TxId]
	v.RUnlock()
	if !ok {
		return ledger.TransactionState{}, fault.StateNotFound
	}
	out, ok := stx.Tx().OutRef(ref.Index)
	if !ok {
		return ledger.TransactionState{}, fault.StateNotFound
	}
	return out.State, nil
}

// IsConsumed - true if a recorded transaction spent the ref
func (v *Vault) IsConsumed(ref ledger.StateRef) bool {
	return v.pools.Consumed.Has(ref.Pack())
}

// Unconsumed - our unspent states of a contract
//
// states soft locked by a different lock id are excluded
func (v *Vault) Unconsumed(contract string, lockId uuid.UUID) ([]ledger.StateAndRef, error) {
	v.RLock()
	defer v.RUnlock()

	keys := [][]byte{}
	err := v.pools.Unconsumed.Map(func(key []byte, value []byte) bool {
		if contract == string(value) {
			keys = append(keys, key)
		}
		return true
	})
	if nil != err {
		return nil, err
	}

	result := make([]ledger.StateAndRef, 0, len(keys))
	for _, key := range keys {
		if lock := v.pools.Locks.Get(key); nil != lock && !bytes.Equal(lock, lockId[:]) {
			continue
		}
		ref, err := ledger.StateRefFromBytes(key)
		if nil != err {
			v.log.Errorf("bad unconsumed key: %x  error: %s", key, err)
			continue
		}
		stx, ok := v.transactions[ref.TxId]
		if !ok {
			continue
		}
		out, ok := stx.Tx().OutRef(ref.Index)
		if !ok {
			continue
		}
		result = append(result, out)
	}
	return result, nil
}

// SoftLock - reserve states for a builder
//
// fails without locking anything if a state is consumed or locked by
// another lock id
func (v *Vault) SoftLock(lockId uuid.UUID, refs []ledger.StateRef) error {
	v.Lock()
	defer v.Unlock()

	batch := v.database.NewBatch()
	for _, ref := range refs {
		key := ref.Pack()
		if v.pools.Consumed.Has(key) {
			return fault.DoubleSpend
		}
		if lock := v.pools.Locks.Get(key); nil != lock && !bytes.Equal(lock, lockId[:]) {
			return fault.StateLocked
		}
		batch.Put(v.pools.Locks, key, lockId[:])
	}
	if err := batch.Commit(); nil != err {
		return err
	}
	v.log.Debugf("lock: %s  locked: %d states", lockId, len(refs))
	return nil
}

// ReleaseLock - remove every soft lock held by a lock id
func (v *Vault) ReleaseLock(lockId uuid.UUID) error {
	v.Lock()
	defer v.Unlock()

	batch := v.database.NewBatch()
	err := v.pools.Locks.Map(func(key []byte, value []byte) bool {
		if bytes.Equal(value, lockId[:]) {
			batch.Delete(v.pools.Locks, key)
		}
		return true
	})
	if nil != err {
		return err
	}
	if 0 == batch.Len() {
		return nil
	}
	v.log.Debugf("lock: %s  released: %d states", lockId, batch.Len())
	return batch.Commit()
}

// Backchain - the given transactions and every recorded transaction
// they depend on, dependencies first
func (v *Vault) Backchain(ids ...merkle.Digest) ([]*ledger.SignedTransaction, error) {
	v.RLock()
	defer v.RUnlock()

	result := []*ledger.SignedTransaction{}
	visited := make(map[merkle.Digest]bool)

	var visit func(id merkle.Digest) error
	visit = func(id merkle.Digest) error {
		if visited[id] {
			return nil
		}
		visited[id] = true
		stx, ok := v.transactions[id]
		if !ok {
			return fault.TransactionNotFound
		}
		for _, ref := range stx.Tx().Inputs() {
			if err := visit(ref.TxId); nil != err {
				return err
			}
		}
		result = append(result, stx)
		return nil
	}

	for _, id := range ids {
		if err := visit(id); nil != err {
			return nil, err
		}
	}
	return result, nil
}
