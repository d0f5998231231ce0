// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/util"
)

// AbstractParty - anything that can own a state or sign a command
type AbstractParty interface {
	OwningKey() *account.Account
	String() string
}

// Party - a well-known identity: a legal name and its key
type Party struct {
	Name string
	Key  *account.Account
}

// AnonymousParty - a bare key that does not reveal who owns it
type AnonymousParty struct {
	Key *account.Account
}

// OwningKey - the key that signs for the party
func (p Party) OwningKey() *account.Account {
	return p.Key
}

// String - name and key for logging
func (p Party) String() string {
	return p.Name + "(" + p.Key.String() + ")"
}

// Anonymise - drop the name
func (p Party) Anonymise() AnonymousParty {
	return AnonymousParty{Key: p.Key}
}

// OwningKey - the key that signs for the party
func (p AnonymousParty) OwningKey() *account.Account {
	return p.Key
}

// String - key for logging
func (p AnonymousParty) String() string {
	return "anonymous(" + p.Key.String() + ")"
}

// Same - true if both parties sign with the same key
func Same(a AbstractParty, b AbstractParty) bool {
	if nil == a || nil == b {
		return a == b
	}
	return a.OwningKey().Equal(b.OwningKey())
}

// Pack - append the canonical form of a party
//
// only the key is included so that a state's hash does not depend on
// whether its owner was given by name or anonymously
func Pack(buffer []byte, p AbstractParty) []byte {
	if nil == p || nil == p.OwningKey() {
		return util.AppendBytes(buffer, nil)
	}
	return util.AppendBytes(buffer, p.OwningKey().Bytes())
}
