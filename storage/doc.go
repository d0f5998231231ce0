// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain a node's data store
//
// maintain separate pools of a number of elements in key->value form
//
// Each database is a LevelDB split into a series of tables.  Each
// table is defined by a prefix byte that is obtained from the prefix
// tag in the struct defining the available tables, and a struct of
// pools is bound to a database by Bind.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++        = concatenation of byte data
// 3. txId      = transaction id as 32 byte SHA3-256 merkle root
// 4. ref       = txId ++ output index (varint)
// 5. lockId    = 16 byte soft lock uuid
// 6. *others*  = byte values of various length
//
// Vault:
//
//   T ++ txId       - recorded transactions
//                     data: txId of each dependency
//   U ++ ref        - unconsumed states relevant to this node
//                     data: contract name
//   C ++ ref        - consumed states
//                     data: consuming txId
//   L ++ ref        - soft locked states
//                     data: lockId
//
// Notary:
//
//   S ++ ref        - committed input states
//                     data: consuming txId
//   N ++ txId       - notarised transactions
//                     data: commit time (big endian uint64 unix nano)
package storage
