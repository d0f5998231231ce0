// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flows

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/session"
)

// SendIdentities - disclose the certificates of anonymous participants
//
// covers the participants of every input and output; well-known
// parties are skipped
func (f *Flows) SendIdentities(ctx context.Context, s session.Session, wtx *ledger.WireTransaction) error {
	parties := wtx.Participants()
	for _, ref := range wtx.Inputs() {
		state, err := f.Vault.LoadState(ref)
		if nil != err {
			return fmt.Errorf("input: %s: %w", ref, err)
		}
		parties = append(parties, state.Data.Participants()...)
	}

	disclosed := []identity.PartyAndCertificate{}
	seen := make(map[string]bool)
	for _, p := range parties {
		if nil == p || nil == p.OwningKey() {
			continue
		}
		k := p.OwningKey().String()
		if seen[k] {
			continue
		}
		seen[k] = true

		pc, ok := f.Identity.CertificateFromKey(p.OwningKey())
		if !ok || pc.Certificate.SelfIssued() {
			continue
		}
		disclosed = append(disclosed, pc)
	}

	f.log.Debugf("disclose: %d identities  to: %s", len(disclosed), s.Counterparty())
	return s.Send(ctx, IdentitiesMessage{Identities: disclosed})
}

// ReceiveIdentities - verify and register disclosed identities
func (f *Flows) ReceiveIdentities(ctx context.Context, s session.Session) error {
	m, err := session.Expect[IdentitiesMessage](ctx, s)
	if nil != err {
		return err
	}
	for _, pc := range m.Identities {
		if _, err := f.Identity.VerifyAndRegisterIdentity(pc); nil != err {
			f.log.Warnf("identity: %s  from: %s  error: %s", pc.Certificate.Key, s.Counterparty(), err)
			return fmt.Errorf("identity: %s: %w", pc.Certificate.Subject, err)
		}
	}
	f.log.Debugf("registered: %d identities  from: %s", len(m.Identities), s.Counterparty())
	return nil
}
