// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised       = ExistsError("already initialised")
	AssetMismatch            = InvalidError("asset type does not match requested type")
	ContractRejected         = InvalidError("contract rejected transaction")
	CounterpartyAbort        = ProcessError("counterparty aborted the session")
	CurrencyMismatch         = InvalidError("currency mismatch")
	DoubleSpend              = ExistsError("input state already consumed")
	IdentityNotFound         = NotFoundError("identity not found")
	InsufficientFunds        = InvalidError("insufficient funds")
	InvalidAmount            = InvalidError("invalid amount")
	InvalidBatchItem         = InvalidError("invalid batch item")
	InvalidCertificate       = InvalidError("invalid certificate")
	InvalidCurrency          = InvalidError("invalid currency")
	InvalidEncumbrance       = InvalidError("invalid encumbrance index")
	InvalidKeyLength         = InvalidError("invalid key length")
	InvalidPrivacySalt       = InvalidError("invalid privacy salt")
	InvalidSignature         = InvalidError("invalid signature")
	KeyNotFound              = NotFoundError("signing key not found")
	MissingNotary            = InvalidError("builder has no notary")
	MissingSignature         = InvalidError("missing signature")
	NotAProperty             = InvalidError("state is not an ownable asset")
	NotaryMismatch           = InvalidError("state notary does not match transaction notary")
	NotaryRejected           = ProcessError("notary rejected transaction")
	NotInitialised           = NotFoundError("not initialised")
	NoSigningKey             = InvalidError("no requested signing key is held by this party")
	PriceMismatch            = InvalidError("transaction does not pay the agreed price")
	SessionClosed            = ProcessError("session closed")
	SessionTimeout           = ProcessError("session receive timed out")
	StateLocked              = ExistsError("state is soft locked by another builder")
	StateNotFound            = NotFoundError("state not found")
	StepOutOfOrder           = ProcessError("progress step out of order")
	TimeWindowInvalid        = InvalidError("time window is invalid")
	TimeWindowRequiresNotary = InvalidError("time window requires a notary")
	TransactionIdMismatch    = InvalidError("transaction id does not match expected id")
	TransactionNotFound      = NotFoundError("transaction not found")
	TrustViolation           = InvalidError("counterparty identity does not match")
	UnacceptablePrice        = InvalidError("unacceptable price")
	UnexpectedMessage        = InvalidError("unexpected message")
	UnknownContract          = InvalidError("unknown contract")
	UnknownParticipant       = InvalidError("transaction involves unknown participant")
	WrongNotary              = InvalidError("transaction is not for this notary")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
// wrapped errors are unwrapped until a classified value is found
func IsErrExists(e error) bool   { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }
