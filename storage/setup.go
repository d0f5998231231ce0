// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/fault"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentDBVersion = 0x100
)

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Database - one open LevelDB
type Database struct {
	sync.RWMutex
	log  *logger.L
	name string
	db   *leveldb.DB
}

// Open - open up a file backed database
func Open(name string, readOnly bool) (*Database, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}
	return newDatabase(name, db, readOnly)
}

// OpenMemory - open a database that only lives in memory
func OpenMemory(name string) (*Database, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return newDatabase(name, db, ReadWrite)
}

func newDatabase(name string, db *leveldb.DB, readOnly bool) (*Database, error) {
	log := logger.New("storage")

	version, err := getVersion(db)
	if nil != err {
		db.Close()
		return nil, err
	}

	// ensure no database downgrade
	if version > currentDBVersion {
		db.Close()
		log.Criticalf("database: %s  version: %d > current version: %d", name, version, currentDBVersion)
		return nil, fmt.Errorf("database: %s  version: %d > current version: %d", name, version, currentDBVersion)
	}

	if 0 == version {
		if readOnly {
			db.Close()
			return nil, fault.NotInitialised
		}
		// database was empty so tag as current version
		err = putVersion(db, currentDBVersion)
		if nil != err {
			db.Close()
			return nil, err
		}
	}

	log.Infof("opened database: %s  version: %d", name, currentDBVersion)

	return &Database{
		log:  log,
		name: name,
		db:   db,
	}, nil
}

// Close - close the database
func (d *Database) Close() {
	d.Lock()
	defer d.Unlock()
	if nil != d.db {
		d.db.Close()
		d.db = nil
		d.log.Infof("closed database: %s", d.name)
	}
}

// Bind - fill in a struct of pool handles from their tags
//
// note all fields must be exported (i.e. initial capital) *PoolHandle
// or Bind will fail
func (d *Database) Bind(pools interface{}) error {

	poolValue := reflect.ValueOf(pools)
	if reflect.Ptr != poolValue.Kind() || reflect.Struct != poolValue.Elem().Kind() {
		return fmt.Errorf("pools: %T is not a pointer to struct", pools)
	}

	// get write access by using pointer + Elem()
	poolValue = poolValue.Elem()
	poolType := poolValue.Type()

	seen := make(map[byte]string)

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		if fieldInfo.Type != reflect.TypeOf((*PoolHandle)(nil)) {
			return fmt.Errorf("pool: %s is not a *PoolHandle", fieldInfo.Name)
		}

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %s has invalid prefix: %q", fieldInfo.Name, prefixTag)
		}

		prefix := prefixTag[0]
		if other, ok := seen[prefix]; ok {
			return fmt.Errorf("pool: %s has same prefix: %q as: %s", fieldInfo.Name, prefixTag, other)
		}
		seen[prefix] = fieldInfo.Name

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix:   prefix,
			limit:    limit,
			database: d,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}
	return nil
}

// return the stored version or zero for an empty database
func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
