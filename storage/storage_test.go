// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dvpd/fixtures"
	"github.com/bitmark-inc/dvpd/storage"
)

type testPools struct {
	Data  *storage.PoolHandle `prefix:"D"`
	Other *storage.PoolHandle `prefix:"O"`
}

// Test main entrypoint
func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	result := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(result)
}

// a string data item
type stringElement struct {
	key   string
	value string
}

func TestPool(t *testing.T) {
	db, err := storage.OpenMemory("pool-test")
	require.Nil(t, err, "open")
	defer db.Close()

	var pools testPools
	err = db.Bind(&pools)
	require.Nil(t, err, "bind")

	p := pools.Data
	p.Put([]byte("key-one"), []byte("data-one"))
	p.Put([]byte("key-two"), []byte("data-two"))
	p.Put([]byte("key-remove-me"), []byte("to be deleted"))
	p.Delete([]byte("key-remove-me"))
	p.Put([]byte("key-three"), []byte("data-three"))
	p.Put([]byte("key-one"), []byte("data-one(NEW)"))
	pools.Other.Put([]byte("key-one"), []byte("other-one"))

	expected := []stringElement{
		{"key-one", "data-one(NEW)"},
		{"key-three", "data-three"},
		{"key-two", "data-two"},
	}

	actual := []stringElement{}
	err = p.Map(func(key []byte, value []byte) bool {
		actual = append(actual, stringElement{string(key), string(value)})
		return true
	})
	assert.Nil(t, err, "map")
	assert.Equal(t, expected, actual, "pool contents")
	assert.Equal(t, 3, p.Count(), "count")
	assert.Equal(t, 1, pools.Other.Count(), "other pool count")

	assert.True(t, p.Has([]byte("key-two")), "has key")
	assert.False(t, p.Has([]byte("/nonexistent")), "has missing key")
	assert.Nil(t, p.Get([]byte("/nonexistent")), "get missing key")
	assert.Equal(t, []byte("other-one"), pools.Other.Get([]byte("key-one")), "other pool value")
}

func TestMapStopsEarly(t *testing.T) {
	db, err := storage.OpenMemory("map-test")
	require.Nil(t, err, "open")
	defer db.Close()

	var pools testPools
	require.Nil(t, db.Bind(&pools), "bind")

	for _, k := range []string{"a", "b", "c", "d"} {
		pools.Data.Put([]byte(k), []byte(k))
	}
	n := 0
	err = pools.Data.Map(func(key []byte, value []byte) bool {
		n += 1
		return n < 2
	})
	assert.Nil(t, err, "map")
	assert.Equal(t, 2, n, "visited")
}

func TestBatch(t *testing.T) {
	db, err := storage.OpenMemory("batch-test")
	require.Nil(t, err, "open")
	defer db.Close()

	var pools testPools
	require.Nil(t, db.Bind(&pools), "bind")

	pools.Data.Put([]byte("gone"), []byte("x"))

	batch := db.NewBatch()
	batch.Put(pools.Data, []byte("k1"), []byte("v1"))
	batch.PutN(pools.Other, []byte("n"), 42)
	batch.Delete(pools.Data, []byte("gone"))
	assert.Equal(t, 3, batch.Len(), "queued")

	assert.False(t, pools.Data.Has([]byte("k1")), "visible before commit")

	err = batch.Commit()
	assert.Nil(t, err, "commit")
	assert.Equal(t, 0, batch.Len(), "batch not reset")

	assert.Equal(t, []byte("v1"), pools.Data.Get([]byte("k1")), "committed value")
	assert.False(t, pools.Data.Has([]byte("gone")), "deleted key")
	n, found := pools.Other.GetN([]byte("n"))
	assert.True(t, found, "counter")
	assert.Equal(t, uint64(42), n, "counter value")
}

func TestBindErrors(t *testing.T) {
	db, err := storage.OpenMemory("bind-test")
	require.Nil(t, err, "open")
	defer db.Close()

	var notPointer testPools
	assert.NotNil(t, db.Bind(notPointer), "bind by value")

	var duplicate struct {
		One *storage.PoolHandle `prefix:"X"`
		Two *storage.PoolHandle `prefix:"X"`
	}
	assert.NotNil(t, db.Bind(&duplicate), "duplicate prefix")

	var badPrefix struct {
		One *storage.PoolHandle `prefix:"XY"`
	}
	assert.NotNil(t, db.Bind(&badPrefix), "long prefix")
}

func TestReopenFile(t *testing.T) {
	name := filepath.Join(fixtures.TestDirectory(), "reopen.leveldb")

	db, err := storage.Open(name, storage.ReadWrite)
	require.Nil(t, err, "open")

	var pools testPools
	require.Nil(t, db.Bind(&pools), "bind")
	pools.Data.Put([]byte("persist"), []byte("yes"))
	db.Close()

	assert.Nil(t, pools.Data.Get([]byte("persist")), "get on closed database")

	db, err = storage.Open(name, storage.ReadOnly)
	require.Nil(t, err, "reopen")
	defer db.Close()

	require.Nil(t, db.Bind(&pools), "rebind")
	assert.Equal(t, []byte("yes"), pools.Data.Get([]byte("persist")), "value after reopen")
}
