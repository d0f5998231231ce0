// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/dvpd/merkle"
)

func leaves(n int) []merkle.Digest {
	result := make([]merkle.Digest, n)
	for i := range result {
		result[i] = merkle.NewDigest([]byte(fmt.Sprintf("leaf-%d", i)))
	}
	return result
}

func TestRootSmall(t *testing.T) {
	assert.Equal(t, merkle.Digest{}, merkle.Root(nil), "empty root")

	one := leaves(1)
	assert.Equal(t, one[0], merkle.Root(one), "single leaf root")

	two := leaves(2)
	expected := merkle.NewDigestOf(two[0][:], two[1][:])
	assert.Equal(t, expected, merkle.Root(two), "two leaf root")
}

func TestRootOdd(t *testing.T) {
	three := leaves(3)
	left := merkle.NewDigestOf(three[0][:], three[1][:])
	right := merkle.NewDigestOf(three[2][:], three[2][:])
	expected := merkle.NewDigestOf(left[:], right[:])
	assert.Equal(t, expected, merkle.Root(three), "three leaf root")
}

func TestTreeLength(t *testing.T) {
	for n, expected := range map[int]int{2: 3, 3: 6, 4: 7, 5: 11} {
		tree := merkle.FullMerkleTree(leaves(n))
		assert.Equal(t, expected, len(tree), "tree length for %d leaves", n)
	}
}

func TestRootOrderSensitive(t *testing.T) {
	l := leaves(4)
	swapped := []merkle.Digest{l[1], l[0], l[2], l[3]}
	assert.NotEqual(t, merkle.Root(l), merkle.Root(swapped), "order must affect root")
}

func TestDigestText(t *testing.T) {
	d := merkle.NewDigest([]byte("hello"))
	text, err := d.MarshalText()
	assert.Nil(t, err, "marshal")

	var decoded merkle.Digest
	err = decoded.UnmarshalText(text)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, d, decoded, "round trip")
	assert.Equal(t, string(text), d.String(), "string form")
	assert.False(t, d.IsZero(), "non-zero digest")
	assert.True(t, merkle.Digest{}.IsZero(), "zero digest")
}
