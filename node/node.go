// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package node - one party's services wired together
package node

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/builder"
	"github.com/bitmark-inc/dvpd/contracts/bitmark"
	"github.com/bitmark-inc/dvpd/contracts/cash"
	"github.com/bitmark-inc/dvpd/currency"
	"github.com/bitmark-inc/dvpd/flows"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/keys"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/notary"
	"github.com/bitmark-inc/dvpd/storage"
	"github.com/bitmark-inc/dvpd/vault"
)

// Contracts - every contract a node verifies
func Contracts() ledger.Contracts {
	return ledger.Contracts{
		bitmark.ContractName: bitmark.Contract{},
		cash.ContractName:    cash.Contract{},
	}
}

// Node - a party with its keys, identities, vault and flows
type Node struct {
	log         *logger.L
	Certificate identity.PartyAndCertificate
	Keys        *keys.Manager
	Identity    *identity.Store
	Vault       *vault.Vault
	Cash        *cash.Selector
	Flows       *flows.Flows
	database    *storage.Database
}

// New - create a node with a fresh well-known identity
//
// the vault index is held in memory
func New(name string, notariser flows.Notariser) (*Node, error) {
	km := keys.New(name, nil)
	pc, err := wellKnown(name, km)
	if nil != err {
		return nil, err
	}

	store := identity.NewStore(name, km)
	if err := store.RegisterWellKnown(pc); nil != err {
		return nil, err
	}

	database, err := storage.OpenMemory(name)
	if nil != err {
		return nil, err
	}
	v, err := vault.New(name, database, km)
	if nil != err {
		database.Close()
		return nil, err
	}

	n := &Node{
		log:         logger.New("node:" + name),
		Certificate: pc,
		Keys:        km,
		Identity:    store,
		Vault:       v,
		Cash:        cash.NewSelector(name, v, km),
		database:    database,
	}
	n.Flows = flows.New(flows.Services{
		Me:        pc.Party(),
		Identity:  store,
		Keys:      km,
		Vault:     v,
		Notary:    notariser,
		Contracts: Contracts(),
	})
	n.log.Infof("started: %s", pc.Party())
	return n, nil
}

// a self issued certificate for a fresh key
func wellKnown(name string, km *keys.Manager) (identity.PartyAndCertificate, error) {
	key, err := km.FreshKey()
	if nil != err {
		return identity.PartyAndCertificate{}, err
	}
	return identity.Issue(name, key, key, km)
}

// NewNotary - create a notary with its own keys over a database
func NewNotary(name string, database *storage.Database, clock func() time.Time) (*notary.Notary, identity.PartyAndCertificate, error) {
	km := keys.New(name, nil)
	pc, err := wellKnown(name, km)
	if nil != err {
		return nil, identity.PartyAndCertificate{}, err
	}
	n, err := notary.New(pc.Party(), km, database, clock)
	if nil != err {
		return nil, identity.PartyAndCertificate{}, err
	}
	return n, pc, nil
}

// Party - the node's well-known party
func (n *Node) Party() identity.Party {
	return n.Certificate.Party()
}

// Introduce - trust the well-known identities of other parties
func (n *Node) Introduce(identities ...identity.PartyAndCertificate) error {
	for _, pc := range identities {
		if err := n.Identity.RegisterWellKnown(pc); nil != err {
			n.log.Errorf("introduce: %s  error: %s", pc.Party(), err)
			return err
		}
	}
	return nil
}

// IssueCash - issue cash to ourselves
func (n *Node) IssueCash(ctx context.Context, amount currency.Amount, notaryParty *identity.Party) (*ledger.SignedTransaction, error) {
	me := n.Party()
	b := builder.New(notaryParty)
	if err := cash.GenerateIssue(b, amount, me, me); nil != err {
		return nil, err
	}
	return n.finaliseIssue(ctx, b)
}

// IssueBitmark - issue a bitmark to ourselves
func (n *Node) IssueBitmark(ctx context.Context, magicNumber uint64, notaryParty *identity.Party) (ledger.StateAndRef, error) {
	me := n.Party()
	b := builder.New(notaryParty)
	if err := bitmark.GenerateIssue(b, magicNumber, me, me); nil != err {
		return ledger.StateAndRef{}, err
	}
	stx, err := n.finaliseIssue(ctx, b)
	if nil != err {
		return ledger.StateAndRef{}, err
	}
	out, _ := stx.Tx().OutRef(0)
	return out, nil
}

func (n *Node) finaliseIssue(ctx context.Context, b *builder.Builder) (*ledger.SignedTransaction, error) {
	stx, err := b.ToSignedTransaction(n.Keys, n.Party().Key, ledger.DefaultMetadata())
	if nil != err {
		return nil, err
	}
	final, err := n.Flows.Finalise(ctx, stx)
	if nil != err {
		return nil, err
	}
	n.log.Infof("issued: %s", final.Id())
	return final, nil
}

// Close - release the vault database
func (n *Node) Close() {
	n.database.Close()
}
