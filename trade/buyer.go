// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trade

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/builder"
	"github.com/bitmark-inc/dvpd/currency"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/progress"
	"github.com/bitmark-inc/dvpd/session"
)

// buyer steps
const (
	Receiving            progress.Step = "RECEIVING"
	Verifying            progress.Step = "VERIFYING"
	Signing              progress.Step = "SIGNING"
	CollectingSignatures progress.Step = "COLLECTING_SIGNATURES"
	Recording            progress.Step = "RECORDING"
)

// Buyer - the party paying for the asset
type Buyer struct {
	services        Services
	log             *logger.L
	session         session.Session
	acceptablePrice currency.Amount
	typeToBuy       reflect.Type
	anonymous       bool
	tracker         *progress.Tracker
	lockId          *uuid.UUID
}

// NewBuyer - accept an asset of typeToBuy for at most acceptablePrice
//
// anonymous selects a fresh anonymous identity to receive the asset
func NewBuyer(services Services, s session.Session, acceptablePrice currency.Amount, typeToBuy reflect.Type, anonymous bool, observer progress.Observer) *Buyer {
	name := "buyer:" + services.Me.Name + "<" + s.Counterparty().Name
	return &Buyer{
		services:        services,
		log:             logger.New(name),
		session:         s,
		acceptablePrice: acceptablePrice,
		typeToBuy:       typeToBuy,
		anonymous:       anonymous,
		tracker:         progress.New(name, observer, Receiving, Verifying, Signing, CollectingSignatures, Recording),
	}
}

// Progress - the buyer's step tracker
func (b *Buyer) Progress() *progress.Tracker {
	return b.tracker
}

// Run - execute the buyer role
//
// on failure any reserved cash is released and the counterparty is
// told why
func (b *Buyer) Run(ctx context.Context) (*ledger.SignedTransaction, error) {
	stx, err := b.run(ctx)
	if nil != err {
		b.log.Errorf("step: %s  error: %s", b.tracker.Current(), err)
		if nil != b.lockId {
			if releaseErr := b.services.Cash.Release(*b.lockId); nil != releaseErr {
				b.log.Errorf("release lock: %s  error: %s", *b.lockId, releaseErr)
			}
		}
		b.session.Fail(err)
		return nil, err
	}
	b.log.Infof("bought tx: %s", stx.Id())
	return stx, nil
}

func (b *Buyer) run(ctx context.Context) (*ledger.SignedTransaction, error) {
	f := b.services.Flows

	asset, offer, err := b.receive(ctx)
	if nil != err {
		return nil, err
	}

	if err := b.tracker.Advance(ctx, Verifying); nil != err {
		return nil, err
	}
	owned, err := b.verify(asset, offer)
	if nil != err {
		return nil, err
	}

	if err := b.tracker.Advance(ctx, Signing); nil != err {
		return nil, err
	}
	stx, err := b.assemble(ctx, asset, owned, offer)
	if nil != err {
		return nil, err
	}
	if err := f.SendIdentities(ctx, b.session, stx.Tx()); nil != err {
		return nil, err
	}

	if err := b.tracker.Advance(ctx, CollectingSignatures); nil != err {
		return nil, err
	}
	stx, err = f.Collect(ctx, b.session, stx)
	if nil != err {
		return nil, err
	}

	if err := b.tracker.Advance(ctx, Recording); nil != err {
		return nil, err
	}
	stx, err = f.Finalise(ctx, stx, b.session)
	if nil != err {
		return nil, err
	}

	if err := b.tracker.Done(ctx); nil != err {
		return nil, err
	}
	return stx, nil
}

// the asset with its provenance, then the offer
func (b *Buyer) receive(ctx context.Context) (ledger.StateAndRef, SellerTradeInfo, error) {
	states, err := b.services.Flows.ReceiveStates(ctx, b.session)
	if nil != err {
		return ledger.StateAndRef{}, SellerTradeInfo{}, err
	}
	if 1 != len(states) {
		return ledger.StateAndRef{}, SellerTradeInfo{}, fmt.Errorf("%w: %d assets offered", fault.UnexpectedMessage, len(states))
	}
	offer, err := session.Expect[SellerTradeInfo](ctx, b.session)
	if nil != err {
		return ledger.StateAndRef{}, SellerTradeInfo{}, err
	}
	b.log.Infof("offer: %s  price: %s", states[0].Ref, offer.Price)
	return states[0], offer, nil
}

// the asset must belong to the counterparty, be affordable and be of
// the wanted type
func (b *Buyer) verify(asset ledger.StateAndRef, offer SellerTradeInfo) (ledger.OwnableState, error) {
	counterparty := b.session.Counterparty()

	owned, ok := asset.State.Data.(ledger.OwnableState)
	if !ok {
		return nil, fault.NotAProperty
	}

	owner, ok := b.services.Identity.WellKnownPartyFromAnonymous(owned.OwnedBy())
	if !ok || !identity.Same(owner, counterparty) {
		b.log.Warnf("asset owner: %s is not: %s", owned.OwnedBy(), counterparty)
		return nil, fmt.Errorf("%w: asset owner: %s", fault.TrustViolation, owned.OwnedBy())
	}

	payTo, err := b.services.Identity.VerifyAndRegisterIdentity(offer.PayToIdentity)
	if nil != err {
		return nil, err
	}
	if !identity.Same(payTo, counterparty) {
		b.log.Warnf("pay to: %s is not: %s", payTo, counterparty)
		return nil, fmt.Errorf("%w: pay to: %s", fault.TrustViolation, payTo)
	}

	c, err := offer.Price.Cmp(b.acceptablePrice)
	if nil != err {
		return nil, err
	}
	if c > 0 {
		return nil, &UnacceptablePriceError{Price: offer.Price}
	}

	actual := reflect.TypeOf(asset.State.Data)
	if actual != b.typeToBuy {
		return nil, &AssetMismatchError{Expected: b.typeToBuy, Actual: actual}
	}
	return owned, nil
}

// build the transaction and sign for the cash
func (b *Buyer) assemble(ctx context.Context, asset ledger.StateAndRef, owned ledger.OwnableState, offer SellerTradeInfo) (*ledger.SignedTransaction, error) {
	me, err := b.receivingIdentity()
	if nil != err {
		return nil, err
	}

	draft := builder.New(asset.State.Notary)
	lockId := draft.LockId()
	b.lockId = &lockId

	tx, cashKeys, err := b.services.Cash.GenerateSpend(ctx, draft, offer.Price, offer.PayToIdentity.Party(), me)
	if nil != err {
		return nil, err
	}
	if 0 == len(cashKeys) {
		return nil, fault.NoSigningKey
	}

	if err := tx.AddInputState(asset); nil != err {
		return nil, err
	}
	command, moved := owned.WithNewOwner(me)
	if err := tx.AddOutput(moved, asset.State.Contract, asset.State.Notary, nil); nil != err {
		return nil, err
	}
	tx.AddCommandData(command, owned.OwnedBy().OwningKey())
	if err := tx.SetTimeWindowAround(b.services.now(), b.services.tolerance()); nil != err {
		return nil, err
	}

	stx, err := tx.ToSignedTransaction(b.services.Keys, cashKeys[0], ledger.DefaultMetadata())
	if nil != err {
		return nil, err
	}
	sigs := make([]ledger.TransactionSignature, 0, len(cashKeys)-1)
	for _, k := range cashKeys[1:] {
		sig, err := ledger.SignWith(b.services.Keys, k, stx.Id(), ledger.DefaultMetadata())
		if nil != err {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	stx = stx.Plus(sigs...)

	b.log.Infof("proposal: %s  inputs: %d  outputs: %d", stx.Id(), len(stx.Tx().Inputs()), len(stx.Tx().Outputs()))
	return stx, nil
}

// where the asset and any change go
func (b *Buyer) receivingIdentity() (identity.AbstractParty, error) {
	if !b.anonymous {
		return b.services.Me, nil
	}
	pc, err := b.services.Identity.FreshAnonymousIdentity(b.services.Me)
	if nil != err {
		return nil, err
	}
	return pc.Party().Anonymise(), nil
}
