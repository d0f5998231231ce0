// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"
)

// PoolHandle - the structure of a pool handle
type PoolHandle struct {
	prefix   byte
	limit    []byte
	database *Database
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) {
	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		logger.Panic("pool.Put nil database")
		return
	}
	err := p.database.db.Put(p.prefixKey(key), value, nil)
	logger.PanicIfError("pool.Put", err)
}

// PutN - store a uint64 as an 8 byte big endian value
func (p *PoolHandle) PutN(key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	p.Put(key, buffer)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) {
	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		logger.Panic("pool.Delete nil database")
		return
	}
	err := p.database.db.Delete(p.prefixKey(key), nil)
	logger.PanicIfError("pool.Delete", err)
}

// Get - read a value for a given key
//
// returns nil if the key was not found
func (p *PoolHandle) Get(key []byte) []byte {
	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		return nil
	}
	value, err := p.database.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)
	return value
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
// panics if not 8 (or more) bytes in the record
func (p *PoolHandle) GetN(key []byte) (uint64, bool) {
	buffer := p.Get(key)
	if nil == buffer {
		return 0, false
	}
	if len(buffer) < 8 {
		logger.Panicf("pool.GetN truncated record for: %x: %s", key, buffer)
	}
	n := binary.BigEndian.Uint64(buffer[:8])
	return n, true
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		return false
	}
	value, err := p.database.db.Has(p.prefixKey(key), nil)
	logger.PanicIfError("pool.Has", err)
	return value
}

// Map - call a function for every element of the pool in key order
//
// stops early if the function returns false
func (p *PoolHandle) Map(f func(key []byte, value []byte) bool) error {
	maxRange := ldb_util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: p.limit,          // Limit of key range, excluded from the range
	}

	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		return nil
	}

	iter := p.database.db.NewIterator(&maxRange, nil)
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])              // ...

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		if !f(dataKey, dataValue) {
			break
		}
	}
	iter.Release()
	return iter.Error()
}

// Count - number of elements in the pool
func (p *PoolHandle) Count() int {
	n := 0
	err := p.Map(func(key []byte, value []byte) bool {
		n += 1
		return true
	})
	logger.PanicIfError("pool.Count", err)
	return n
}
