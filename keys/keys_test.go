// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/fixtures"
	"github.com/bitmark-inc/dvpd/keys"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	result := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(result)
}

func TestFreshKeyAndSign(t *testing.T) {
	m := keys.New("test", nil)

	key, err := m.FreshKey()
	assert.Nil(t, err, "fresh key")
	assert.True(t, m.Owns(key), "fresh key not owned")

	payload := []byte("payload")
	signature, err := m.Sign(payload, key)
	assert.Nil(t, err, "sign")
	assert.Nil(t, key.CheckSignature(payload, signature), "signature check")
}

func TestSignUnknownKey(t *testing.T) {
	m := keys.New("test", nil)
	other, _ := account.NewPrivateKey(nil)

	_, err := m.Sign([]byte("x"), other.Account())
	assert.Equal(t, fault.KeyNotFound, err, "wrong error")

	_, err = m.Sign([]byte("x"), nil)
	assert.Equal(t, fault.KeyNotFound, err, "nil key")
}

func TestFilterMyKeys(t *testing.T) {
	m := keys.New("test", nil)
	one, _ := m.FreshKey()
	two, _ := m.FreshKey()
	other, _ := account.NewPrivateKey(nil)

	privateKey, _ := account.NewPrivateKey(nil)
	added := m.Add(privateKey)

	mine := m.FilterMyKeys([]*account.Account{one, other.Account(), two, nil, added})
	assert.Equal(t, []*account.Account{one, two, added}, mine, "filtered keys")
}
