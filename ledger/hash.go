// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/dvpd/merkle"
	"github.com/bitmark-inc/dvpd/util"
)

// component groups in the order their roots appear in the id tree
const (
	inputsGroup = iota
	outputsGroup
	commandsGroup
	attachmentsGroup
	notaryGroup
	timeWindowGroup
	signersGroup
	groupCount
)

// nonce for one component: SHA3-256(salt ++ group ++ index)
func componentNonce(salt PrivacySalt, group int, index int) merkle.Digest {
	position := util.ToVarint64(uint64(group))
	position = util.AppendVarint64(position, uint64(index))
	return merkle.NewDigestOf(salt[:], position)
}

// root of one group: merkle root of SHA3-256(nonce ++ component)
func groupRoot(salt PrivacySalt, group int, components [][]byte) merkle.Digest {
	leaves := make([]merkle.Digest, len(components))
	for i, c := range components {
		nonce := componentNonce(salt, group, i)
		leaves[i] = merkle.NewDigestOf(nonce[:], c)
	}
	return merkle.Root(leaves)
}

// compute the transaction id from the packed components
func computeId(wtx *WireTransaction) merkle.Digest {
	groups := make([][][]byte, groupCount)

	for _, ref := range wtx.inputs {
		groups[inputsGroup] = append(groups[inputsGroup], ref.Pack())
	}
	for _, out := range wtx.outputs {
		groups[outputsGroup] = append(groups[outputsGroup], out.Pack())
	}
	for _, c := range wtx.commands {
		groups[commandsGroup] = append(groups[commandsGroup], c.Pack())
		groups[signersGroup] = append(groups[signersGroup], c.packSigners())
	}
	for _, a := range wtx.attachments {
		groups[attachmentsGroup] = append(groups[attachmentsGroup], a[:])
	}
	if nil != wtx.notary {
		groups[notaryGroup] = append(groups[notaryGroup], packNotary(nil, wtx.notary))
	}
	if nil != wtx.timeWindow {
		groups[timeWindowGroup] = append(groups[timeWindowGroup], wtx.timeWindow.Pack())
	}

	roots := make([]merkle.Digest, groupCount)
	for g, components := range groups {
		roots[g] = groupRoot(wtx.privacySalt, g, components)
	}
	return merkle.Root(roots)
}
