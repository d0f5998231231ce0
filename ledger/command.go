// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/util"
)

// CommandData - the action a command asks a contract to allow
//
// Pack must include something that distinguishes the command type
type CommandData interface {
	Pack() []byte
}

// Command - an action plus the keys that must sign for it
type Command struct {
	Value   CommandData
	Signers []*account.Account
}

// NewCommand - create a command from data and signing keys
func NewCommand(value CommandData, signers ...*account.Account) Command {
	s := make([]*account.Account, len(signers))
	copy(s, signers)
	return Command{
		Value:   value,
		Signers: s,
	}
}

// Copy - independent copy of the signer list
func (c Command) Copy() Command {
	return NewCommand(c.Value, c.Signers...)
}

// HasSigner - true if key is one of the signers
func (c Command) HasSigner(key *account.Account) bool {
	for _, s := range c.Signers {
		if s.Equal(key) {
			return true
		}
	}
	return false
}

// Pack - canonical form of the command data for hashing
func (c Command) Pack() []byte {
	return c.Value.Pack()
}

// pack the signers for the signers component group
func (c Command) packSigners() []byte {
	buffer := util.ToVarint64(uint64(len(c.Signers)))
	for _, s := range c.Signers {
		buffer = util.AppendBytes(buffer, s.Bytes())
	}
	return buffer
}
