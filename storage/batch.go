// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/dvpd/fault"
)

// Batch - a set of puts and deletes applied atomically on Commit
//
// pending changes are not visible to Get/Has until committed
type Batch struct {
	database *Database
	batch    *leveldb.Batch
}

// NewBatch - start an empty batch
func (d *Database) NewBatch() *Batch {
	return &Batch{
		database: d,
		batch:    new(leveldb.Batch),
	}
}

// Put - queue a key/value pair for a pool
func (b *Batch) Put(p *PoolHandle, key []byte, value []byte) {
	b.batch.Put(p.prefixKey(key), value)
}

// PutN - queue a uint64 value as 8 byte big endian
func (b *Batch) PutN(p *PoolHandle, key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	b.batch.Put(p.prefixKey(key), buffer)
}

// Delete - queue removal of a key from a pool
func (b *Batch) Delete(p *PoolHandle, key []byte) {
	b.batch.Delete(p.prefixKey(key))
}

// Len - number of queued operations
func (b *Batch) Len() int {
	return b.batch.Len()
}

// Reset - discard all queued operations
func (b *Batch) Reset() {
	b.batch.Reset()
}

// Commit - write all queued operations in one synchronous write
func (b *Batch) Commit() error {
	b.database.RLock()
	defer b.database.RUnlock()
	if nil == b.database.db {
		return fault.NotInitialised
	}
	err := b.database.db.Write(b.batch, &ldb_opt.WriteOptions{Sync: true})
	if nil != err {
		return err
	}
	b.batch.Reset()
	return nil
}
