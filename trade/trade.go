// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package trade - delivery versus payment between two parties
//
// The seller offers an asset at a price; the buyer assembles a
// transaction paying the seller and taking the asset, signs for its
// cash, and collects the seller's signature before finalising.
// Either side failing aborts both.
//
//   seller                              buyer
//   ------                              -----
//   asset + backchain         ------->
//   SellerTradeInfo           ------->
//                             <-------  anonymous identities
//                             <-------  signature request
//   signatures                ------->
//                             <-------  notarised transaction
package trade

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/builder"
	"github.com/bitmark-inc/dvpd/currency"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/flows"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/session"
)

//go:generate mockgen -destination=mocks/trade.go -package=mocks github.com/bitmark-inc/dvpd/trade Subflows,CashSelector
//go:generate mockgen -destination=mocks/identity.go -package=mocks github.com/bitmark-inc/dvpd/identity Service
//go:generate mockgen -destination=mocks/signer.go -package=mocks github.com/bitmark-inc/dvpd/ledger KeySigner

// DefaultTolerance - half width of the buyer's time window
const DefaultTolerance = 30 * time.Second

// Subflows - the sub-protocols the roles delegate to
type Subflows interface {
	SendStates(ctx context.Context, s session.Session, states ...ledger.StateAndRef) error
	ReceiveStates(ctx context.Context, s session.Session) ([]ledger.StateAndRef, error)
	SendIdentities(ctx context.Context, s session.Session, wtx *ledger.WireTransaction) error
	ReceiveIdentities(ctx context.Context, s session.Session) error
	Collect(ctx context.Context, s session.Session, stx *ledger.SignedTransaction) (*ledger.SignedTransaction, error)
	SignAndFinalise(ctx context.Context, s session.Session, check flows.CheckFunc) (*ledger.SignedTransaction, error)
	Finalise(ctx context.Context, stx *ledger.SignedTransaction, sessions ...session.Session) (*ledger.SignedTransaction, error)
}

// make sure the flows package provides every sub-protocol
var _ Subflows = (*flows.Flows)(nil)

// CashSelector - pays for the asset
type CashSelector interface {
	GenerateSpend(ctx context.Context, b *builder.Builder, amount currency.Amount, payTo identity.AbstractParty, change identity.AbstractParty) (*builder.Builder, []*account.Account, error)
	Release(lockId uuid.UUID) error
}

// Services - the collaborators of one party's trade roles
//
// a nil Clock uses time.Now; zero Tolerance uses DefaultTolerance
type Services struct {
	Me        identity.Party
	Identity  identity.Service
	Keys      ledger.KeySigner
	Cash      CashSelector
	Flows     Subflows
	Clock     func() time.Time
	Tolerance time.Duration
}

func (s Services) now() time.Time {
	if nil == s.Clock {
		return time.Now()
	}
	return s.Clock()
}

func (s Services) tolerance() time.Duration {
	if s.Tolerance <= 0 {
		return DefaultTolerance
	}
	return s.Tolerance
}

// SellerTradeInfo - the seller's offer
type SellerTradeInfo struct {
	Price         currency.Amount
	PayToIdentity identity.PartyAndCertificate
}

// UnacceptablePriceError - the offer exceeds the buyer's limit
type UnacceptablePriceError struct {
	Price currency.Amount
}

func (e *UnacceptablePriceError) Error() string {
	return fmt.Sprintf("%s: %s", fault.UnacceptablePrice, e.Price)
}

// Unwrap - the classified error
func (e *UnacceptablePriceError) Unwrap() error {
	return fault.UnacceptablePrice
}

// AssetMismatchError - the offered asset is not of the requested type
type AssetMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *AssetMismatchError) Error() string {
	return fmt.Sprintf("%s: expected: %s  actual: %s", fault.AssetMismatch, e.Expected, e.Actual)
}

// Unwrap - the classified error
func (e *AssetMismatchError) Unwrap() error {
	return fault.AssetMismatch
}
