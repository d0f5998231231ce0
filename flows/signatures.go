// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flows

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/session"
)

// CheckFunc - extra validation a responder applies to a proposal
type CheckFunc func(ltx *ledger.LedgerTransaction) error

// Collect - obtain the missing signatures from the counterparty
//
// every required key apart from the notary's must be signed for on
// return
func (f *Flows) Collect(ctx context.Context, s session.Session, stx *ledger.SignedTransaction) (*ledger.SignedTransaction, error) {
	if err := stx.CheckSignaturesAreValid(); nil != err {
		return nil, err
	}

	wtx := stx.Tx()
	notary := notaryKeys(wtx)
	requested := []*account.Account{}
	for _, k := range stx.MissingSigners() {
		if !ledger.ContainsKey(notary, k) {
			requested = append(requested, k)
		}
	}
	if 0 == len(requested) {
		return stx, nil
	}

	chain, err := f.Vault.Backchain(inputIds(wtx)...)
	if nil != err {
		return nil, err
	}

	f.log.Infof("tx: %s  request: %d signatures  from: %s", stx.Id(), len(requested), s.Counterparty())
	request := SignatureRequest{
		Transaction: stx,
		Backchain:   chain,
		Keys:        requested,
	}
	if err := s.Send(ctx, request); nil != err {
		return nil, err
	}

	response, err := session.Expect[SignatureResponse](ctx, s)
	if nil != err {
		return nil, err
	}

	id := stx.Id()
	for _, sig := range response.Signatures {
		if !ledger.ContainsKey(requested, sig.By) {
			return nil, fmt.Errorf("%w: unrequested signer: %s", fault.InvalidSignature, sig.By)
		}
		if err := sig.Verify(id); nil != err {
			return nil, fmt.Errorf("%w: by: %s", err, sig.By)
		}
	}

	result := stx.Plus(response.Signatures...)
	if err := result.VerifySignaturesExcept(notary...); nil != err {
		f.log.Warnf("tx: %s  incomplete signatures from: %s  error: %s", id, s.Counterparty(), err)
		return nil, err
	}
	return result, nil
}

// SignAndFinalise - counter sign a proposal then wait for it to be
// finalised
//
// the proposal, its backchain and the caller's check must all pass
// before anything is signed
func (f *Flows) SignAndFinalise(ctx context.Context, s session.Session, check CheckFunc) (*ledger.SignedTransaction, error) {
	request, err := session.Expect[SignatureRequest](ctx, s)
	if nil != err {
		return nil, err
	}
	stx := request.Transaction
	if nil == stx {
		return nil, fault.UnexpectedMessage
	}
	id := stx.Id()
	wtx := stx.Tx()

	loader, err := f.verifyChain(request.Backchain)
	if nil != err {
		return nil, err
	}

	allowed := append(notaryKeys(wtx), request.Keys...)
	ltx, err := f.verifyTransaction(loader, stx, allowed...)
	if nil != err {
		f.log.Warnf("tx: %s  proposal from: %s  error: %s", id, s.Counterparty(), err)
		return nil, err
	}

	if nil != check {
		if err := check(ltx); nil != err {
			f.log.Warnf("tx: %s  proposal from: %s  check failed: %s", id, s.Counterparty(), err)
			return nil, err
		}
	}

	// only keys that the transaction requires are signed for
	required := wtx.RequiredSigningKeys()
	signers := []*account.Account{}
	for _, k := range f.Keys.FilterMyKeys(request.Keys) {
		if ledger.ContainsKey(required, k) {
			signers = append(signers, k)
		}
	}
	if 0 == len(signers) {
		return nil, fault.NoSigningKey
	}

	sigs := make([]ledger.TransactionSignature, 0, len(signers))
	for _, k := range signers {
		sig, err := ledger.SignWith(f.Keys, k, id, ledger.DefaultMetadata())
		if nil != err {
			return nil, err
		}
		sigs = append(sigs, sig)
	}

	if err := f.Vault.Record(request.Backchain...); nil != err {
		return nil, err
	}

	f.log.Infof("tx: %s  signed with: %d keys  for: %s", id, len(sigs), s.Counterparty())
	if err := s.Send(ctx, SignatureResponse{Signatures: sigs}); nil != err {
		return nil, err
	}

	return f.ReceiveFinality(ctx, s, id)
}
