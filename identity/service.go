// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
)

// Service - identity operations used by protocols
type Service interface {
	WellKnownPartyFromAnonymous(party AbstractParty) (Party, bool)
	CertificateFromKey(key *account.Account) (PartyAndCertificate, bool)
	VerifyAndRegisterIdentity(identity PartyAndCertificate) (Party, error)
	FreshAnonymousIdentity(base Party) (PartyAndCertificate, error)
}

// KeyManager - key operations needed to mint anonymous identities
type KeyManager interface {
	Signer
	FreshKey() (*account.Account, error)
}

// Store - in-memory identity service
//
// well-known parties are registered from the network map; other keys
// are accepted when certified by a registered well-known party
type Store struct {
	log        *logger.L
	keyManager KeyManager
	byKey      *cache.Cache
	byName     *cache.Cache
}

// make sure Store implements Service
var _ Service = (*Store)(nil)

// NewStore - create an empty identity store
func NewStore(name string, keyManager KeyManager) *Store {
	return &Store{
		log:        logger.New("identity:" + name),
		keyManager: keyManager,
		byKey:      cache.New(cache.NoExpiration, 0),
		byName:     cache.New(cache.NoExpiration, 0),
	}
}

func keyIndex(key *account.Account) string {
	return string(key.Bytes())
}

// RegisterWellKnown - trust a self issued certificate from the network map
func (s *Store) RegisterWellKnown(identity PartyAndCertificate) error {
	c := identity.Certificate
	if err := c.Verify(); nil != err {
		return err
	}
	if !c.SelfIssued() {
		return fault.InvalidCertificate
	}

	if existing, found := s.byName.Get(c.Subject); found {
		if existing.(PartyAndCertificate).OwningKey().Equal(c.Key) {
			return nil
		}
		s.log.Warnf("well-known name: %q already registered with a different key", c.Subject)
		return fault.AlreadyInitialised
	}

	s.byName.Set(c.Subject, identity, cache.NoExpiration)
	s.byKey.Set(keyIndex(c.Key), identity, cache.NoExpiration)
	s.log.Infof("registered well-known: %s", identity.Party())
	return nil
}

// WellKnownParty - look up a party by legal name
func (s *Store) WellKnownParty(name string) (Party, bool) {
	item, found := s.byName.Get(name)
	if !found {
		return Party{}, false
	}
	return item.(PartyAndCertificate).Party(), true
}

// CertificateFromKey - the certificate registered for a key
func (s *Store) CertificateFromKey(key *account.Account) (PartyAndCertificate, bool) {
	if nil == key {
		return PartyAndCertificate{}, false
	}
	item, found := s.byKey.Get(keyIndex(key))
	if !found {
		return PartyAndCertificate{}, false
	}
	return item.(PartyAndCertificate), true
}

// WellKnownPartyFromAnonymous - resolve any party to its well-known identity
func (s *Store) WellKnownPartyFromAnonymous(party AbstractParty) (Party, bool) {
	if nil == party {
		return Party{}, false
	}
	pc, found := s.CertificateFromKey(party.OwningKey())
	if !found {
		return Party{}, false
	}
	return s.WellKnownParty(pc.Certificate.Subject)
}

// VerifyAndRegisterIdentity - accept a certified identity
//
// returns the well-known party that issued it
func (s *Store) VerifyAndRegisterIdentity(identity PartyAndCertificate) (Party, error) {
	c := identity.Certificate
	if err := c.Verify(); nil != err {
		s.log.Warnf("certificate for: %q failed verification", c.Subject)
		return Party{}, err
	}

	wellKnown, found := s.WellKnownParty(c.Subject)
	if !found {
		s.log.Warnf("certificate subject: %q is not well-known", c.Subject)
		return Party{}, fault.IdentityNotFound
	}
	if !wellKnown.Key.Equal(c.IssuerKey) {
		s.log.Warnf("certificate for: %q not issued by its well-known key", c.Subject)
		return Party{}, fault.InvalidCertificate
	}

	s.byKey.Set(keyIndex(c.Key), identity, cache.NoExpiration)
	s.log.Debugf("registered: %s for: %s", c.Key, wellKnown)
	return wellKnown, nil
}

// FreshAnonymousIdentity - mint a new key certified by base
func (s *Store) FreshAnonymousIdentity(base Party) (PartyAndCertificate, error) {
	key, err := s.keyManager.FreshKey()
	if nil != err {
		return PartyAndCertificate{}, err
	}
	identity, err := Issue(base.Name, key, base.Key, s.keyManager)
	if nil != err {
		s.log.Errorf("issue anonymous identity for: %s  error: %s", base, err)
		return PartyAndCertificate{}, err
	}
	if _, err := s.VerifyAndRegisterIdentity(identity); nil != err {
		return PartyAndCertificate{}, err
	}
	return identity, nil
}
