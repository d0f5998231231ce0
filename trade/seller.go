// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trade

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/contracts/cash"
	"github.com/bitmark-inc/dvpd/currency"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/progress"
	"github.com/bitmark-inc/dvpd/session"
)

// seller steps
const (
	AwaitingProposal    progress.Step = "AWAITING_PROPOSAL"
	VerifyingAndSigning progress.Step = "VERIFYING_AND_SIGNING"
)

// Seller - the party delivering the asset
type Seller struct {
	services Services
	log      *logger.L
	session  session.Session
	asset    ledger.StateAndRef
	price    currency.Amount
	payTo    identity.PartyAndCertificate
	tracker  *progress.Tracker
}

// NewSeller - offer an asset at a price, payable to payTo
func NewSeller(services Services, s session.Session, asset ledger.StateAndRef, price currency.Amount, payTo identity.PartyAndCertificate, observer progress.Observer) *Seller {
	name := "seller:" + services.Me.Name + ">" + s.Counterparty().Name
	return &Seller{
		services: services,
		log:      logger.New(name),
		session:  s,
		asset:    asset,
		price:    price,
		payTo:    payTo,
		tracker:  progress.New(name, observer, AwaitingProposal, VerifyingAndSigning),
	}
}

// Progress - the seller's step tracker
func (s *Seller) Progress() *progress.Tracker {
	return s.tracker
}

// Run - execute the seller role
//
// on failure the counterparty is told why
func (s *Seller) Run(ctx context.Context) (*ledger.SignedTransaction, error) {
	stx, err := s.run(ctx)
	if nil != err {
		s.log.Errorf("step: %s  error: %s", s.tracker.Current(), err)
		s.session.Fail(err)
		return nil, err
	}
	s.log.Infof("sold: %s  for: %s  tx: %s", s.asset.Ref, s.price, stx.Id())
	return stx, nil
}

func (s *Seller) run(ctx context.Context) (*ledger.SignedTransaction, error) {
	f := s.services.Flows

	// a payment of nothing cannot be told apart from no payment
	if s.price.IsZero() || !s.price.Currency.IsValid() {
		return nil, fmt.Errorf("%w: price: %s", fault.InvalidAmount, s.price)
	}

	if err := f.SendStates(ctx, s.session, s.asset); nil != err {
		return nil, err
	}
	offer := SellerTradeInfo{
		Price:         s.price,
		PayToIdentity: s.payTo,
	}
	if err := s.session.Send(ctx, offer); nil != err {
		return nil, err
	}
	if err := f.ReceiveIdentities(ctx, s.session); nil != err {
		return nil, err
	}

	if err := s.tracker.Advance(ctx, VerifyingAndSigning); nil != err {
		return nil, err
	}
	stx, err := f.SignAndFinalise(ctx, s.session, s.checkProposal)
	if nil != err {
		return nil, err
	}

	if err := s.tracker.Done(ctx); nil != err {
		return nil, err
	}
	return stx, nil
}

// every participant must be known and the cash paid to us must equal
// the price exactly
func (s *Seller) checkProposal(ltx *ledger.LedgerTransaction) error {
	states := append(ltx.InputStates(), ltx.OutputStates()...)
	for _, state := range states {
		for _, p := range state.Participants() {
			if _, ok := s.services.Identity.WellKnownPartyFromAnonymous(p); !ok {
				s.log.Warnf("unknown participant: %s", p)
				return fmt.Errorf("%w: %s", fault.UnknownParticipant, p)
			}
		}
	}

	paid, err := cash.SumCashBy(ltx.OutputStates(), s.payTo.Party())
	if nil != err {
		return fmt.Errorf("%w: %w", fault.PriceMismatch, err)
	}
	if paid != s.price {
		s.log.Warnf("paid: %s  price: %s", paid, s.price)
		return fmt.Errorf("%w: paid: %s  price: %s", fault.PriceMismatch, paid, s.price)
	}
	return nil
}
