// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keys - the private keys held by one party
package keys

import (
	"io"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
)

// Manager - key management service for one party
type Manager struct {
	sync.RWMutex
	log    *logger.L
	reader io.Reader
	keys   map[string]*account.PrivateKey
}

// New - create an empty key manager
//
// reader is the entropy source for fresh keys, nil for crypto/rand
func New(name string, reader io.Reader) *Manager {
	return &Manager{
		log:    logger.New("keys:" + name),
		reader: reader,
		keys:   make(map[string]*account.PrivateKey),
	}
}

// Add - take ownership of an existing private key
func (m *Manager) Add(privateKey *account.PrivateKey) *account.Account {
	acc := privateKey.Account()

	m.Lock()
	m.keys[string(acc.Bytes())] = privateKey
	m.Unlock()

	return acc
}

// FreshKey - generate and hold a new key pair
func (m *Manager) FreshKey() (*account.Account, error) {
	privateKey, err := account.NewPrivateKey(m.reader)
	if nil != err {
		m.log.Errorf("fresh key error: %s", err)
		return nil, err
	}
	acc := m.Add(privateKey)
	m.log.Debugf("fresh key: %s", acc)
	return acc, nil
}

// Owns - true if the private part of key is held
func (m *Manager) Owns(key *account.Account) bool {
	if nil == key {
		return false
	}
	m.RLock()
	_, ok := m.keys[string(key.Bytes())]
	m.RUnlock()
	return ok
}

// FilterMyKeys - the subset of keys that are held, in the same order
func (m *Manager) FilterMyKeys(keys []*account.Account) []*account.Account {
	mine := make([]*account.Account, 0, len(keys))
	for _, k := range keys {
		if m.Owns(k) {
			mine = append(mine, k)
		}
	}
	return mine
}

// Sign - sign a payload with one of the held keys
func (m *Manager) Sign(payload []byte, key *account.Account) (account.Signature, error) {
	if nil == key {
		return nil, fault.KeyNotFound
	}
	m.RLock()
	privateKey, ok := m.keys[string(key.Bytes())]
	m.RUnlock()

	if !ok {
		m.log.Warnf("sign: key not held: %s", key)
		return nil, fault.KeyNotFound
	}
	return privateKey.Sign(payload), nil
}
