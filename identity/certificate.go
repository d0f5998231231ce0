// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"github.com/bitmark-inc/dvpd/account"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/util"
)

// signing domain for certificates
const certificateTag = "dvpd:certificate"

// Certificate - a statement by IssuerKey that Key acts for Subject
//
// a well-known party's certificate is self issued; an anonymous
// identity's certificate is issued by its well-known party
type Certificate struct {
	Subject   string
	Key       *account.Account
	IssuerKey *account.Account
	Signature account.Signature
}

// PartyAndCertificate - an identity plus the proof that links it to a name
type PartyAndCertificate struct {
	Certificate Certificate
}

// Signer - the part of key management needed to issue certificates
type Signer interface {
	Sign(payload []byte, key *account.Account) (account.Signature, error)
}

// the bytes covered by the signature
func (c Certificate) packForSigning() []byte {
	buffer := util.AppendString(nil, certificateTag)
	buffer = util.AppendString(buffer, c.Subject)
	buffer = util.AppendBytes(buffer, c.Key.Bytes())
	return util.AppendBytes(buffer, c.IssuerKey.Bytes())
}

// Issue - create and sign a certificate
func Issue(subject string, key *account.Account, issuerKey *account.Account, signer Signer) (PartyAndCertificate, error) {
	if "" == subject || nil == key || nil == issuerKey {
		return PartyAndCertificate{}, fault.InvalidCertificate
	}
	c := Certificate{
		Subject:   subject,
		Key:       key,
		IssuerKey: issuerKey,
	}
	signature, err := signer.Sign(c.packForSigning(), issuerKey)
	if nil != err {
		return PartyAndCertificate{}, err
	}
	c.Signature = signature
	return PartyAndCertificate{Certificate: c}, nil
}

// Verify - check the certificate signature
func (c Certificate) Verify() error {
	if "" == c.Subject || nil == c.Key || nil == c.IssuerKey {
		return fault.InvalidCertificate
	}
	if nil != c.IssuerKey.CheckSignature(c.packForSigning(), c.Signature) {
		return fault.InvalidCertificate
	}
	return nil
}

// SelfIssued - true for a well-known party's own certificate
func (c Certificate) SelfIssued() bool {
	return c.Key.Equal(c.IssuerKey)
}

// Party - the certified party
func (pc PartyAndCertificate) Party() Party {
	return Party{
		Name: pc.Certificate.Subject,
		Key:  pc.Certificate.Key,
	}
}

// OwningKey - the certified key
func (pc PartyAndCertificate) OwningKey() *account.Account {
	return pc.Certificate.Key
}
