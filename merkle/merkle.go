// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

// FullMerkleTree - compute a full merkle tree from a set of leaf digests
//
// structure is:
//   1. N * leaf digests
//   2. level 1..m digests
//   3. merkle root digest
func FullMerkleTree(leaves []Digest) []Digest {

	// compute length of leaves + all tree levels including root
	leafCount := len(leaves)

	totalLength := 1 // all leaves + space for the final root
	for n := leafCount; n > 1; n = (n + 1) / 2 {
		totalLength += n
	}

	tree := make([]Digest, totalLength)
	copy(tree[:], leaves)

	n := leafCount
	j := 0
	for workLength := leafCount; workLength > 1; workLength = (workLength + 1) / 2 {
		for i := 0; i < workLength; i += 2 {
			k := j + 1
			if i+1 == workLength {
				k = j // odd count: pair the last node with itself
			}
			tree[n] = NewDigestOf(tree[j][:], tree[k][:])
			n += 1
			j = k + 1
		}
	}
	return tree
}

// Root - merkle root of a set of leaves
//
// an empty set has the all-zero digest as its root
func Root(leaves []Digest) Digest {
	switch len(leaves) {
	case 0:
		return Digest{}
	case 1:
		return leaves[0]
	}
	tree := FullMerkleTree(leaves)
	return tree[len(tree)-1]
}
