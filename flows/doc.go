// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package flows - sub-protocols shared by the trading roles
//
// Each pair of functions runs one exchange over a session:
//
//   SendStates / ReceiveStates         states with their provenance
//   SendIdentities / ReceiveIdentities anonymous identity disclosure
//   Collect / SignAndFinalise          counter signature collection
//   Finalise / ReceiveFinality         notarisation and distribution
//
// Every received transaction is verified before it is recorded.
package flows
