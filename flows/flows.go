// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flows

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/merkle"
)

// KeyService - signing with the keys this party holds
type KeyService interface {
	ledger.KeySigner
	FilterMyKeys(keys []*account.Account) []*account.Account
}

// Vault - the ledger facts a flow reads and records
type Vault interface {
	ledger.StateLoader
	Record(transactions ...*ledger.SignedTransaction) error
	Backchain(ids ...merkle.Digest) ([]*ledger.SignedTransaction, error)
}

// Notariser - the notary service
type Notariser interface {
	Notarise(ctx context.Context, stx *ledger.SignedTransaction) (ledger.TransactionSignature, error)
}

// Services - everything the flows of one party use
type Services struct {
	Me        identity.Party
	Identity  identity.Service
	Keys      KeyService
	Vault     Vault
	Notary    Notariser
	Contracts ledger.Contracts
}

// Flows - the sub-protocols as run by one party
type Flows struct {
	Services
	log *logger.L
}

// New - sub-protocols for a party
func New(services Services) *Flows {
	return &Flows{
		Services: services,
		log:      logger.New("flows:" + services.Me.Name),
	}
}

// StatesMessage - states and the transactions they depend on
type StatesMessage struct {
	States    []ledger.StateAndRef
	Backchain []*ledger.SignedTransaction
}

// IdentitiesMessage - certificates for anonymous participants
type IdentitiesMessage struct {
	Identities []identity.PartyAndCertificate
}

// SignatureRequest - a proposal to be counter signed by Keys
type SignatureRequest struct {
	Transaction *ledger.SignedTransaction
	Backchain   []*ledger.SignedTransaction
	Keys        []*account.Account
}

// SignatureResponse - the counter signatures
type SignatureResponse struct {
	Signatures []ledger.TransactionSignature
}

// FinalityMessage - a notarised transaction
type FinalityMessage struct {
	Transaction *ledger.SignedTransaction
}

// the notary key when the notary must sign
func notaryKeys(wtx *ledger.WireTransaction) []*account.Account {
	notary := wtx.Notary()
	if nil == notary || !ledger.ContainsKey(wtx.RequiredSigningKeys(), notary.Key) {
		return nil
	}
	return []*account.Account{notary.Key}
}

// distinct transaction ids of the inputs
func inputIds(wtx *ledger.WireTransaction) []merkle.Digest {
	ids := []merkle.Digest{}
	seen := make(map[merkle.Digest]bool)
	for _, ref := range wtx.Inputs() {
		if !seen[ref.TxId] {
			seen[ref.TxId] = true
			ids = append(ids, ref.TxId)
		}
	}
	return ids
}
