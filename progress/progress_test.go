// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package progress_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/fixtures"
	"github.com/bitmark-inc/dvpd/progress"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	result := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(result)
}

const (
	one   = progress.Step("ONE")
	two   = progress.Step("TWO")
	three = progress.Step("THREE")
)

type transition struct {
	from progress.Step
	to   progress.Step
}

func TestForward(t *testing.T) {
	seen := []transition{}
	tracker := progress.New("forward", func(from progress.Step, to progress.Step) {
		seen = append(seen, transition{from, to})
	}, one, two, three)

	ctx := context.Background()
	assert.Equal(t, one, tracker.Current(), "initial")
	assert.Equal(t, []progress.Step{one, two, three, progress.Done}, tracker.Steps(), "steps")

	assert.Nil(t, tracker.Advance(ctx, two), "advance to two")
	assert.Nil(t, tracker.Advance(ctx, three), "advance to three")
	assert.False(t, tracker.IsDone(), "done too early")
	assert.Nil(t, tracker.Done(ctx), "done")
	assert.True(t, tracker.IsDone(), "not done")

	expected := []transition{{one, two}, {two, three}, {three, progress.Done}}
	assert.Equal(t, expected, seen, "observed transitions")
	assert.Equal(t, []progress.Step{one, two, three, progress.Done}, tracker.History(), "history")
}

func TestOutOfOrder(t *testing.T) {
	tracker := progress.New("order", nil, one, two, three)
	ctx := context.Background()

	err := tracker.Advance(ctx, three)
	assert.True(t, errors.Is(err, fault.StepOutOfOrder), "skip: %v", err)

	err = tracker.Advance(ctx, one)
	assert.True(t, errors.Is(err, fault.StepOutOfOrder), "repeat: %v", err)

	err = tracker.Advance(ctx, progress.Step("UNKNOWN"))
	assert.True(t, errors.Is(err, fault.StepOutOfOrder), "unknown: %v", err)

	assert.Nil(t, tracker.Advance(ctx, two), "advance")
	err = tracker.Advance(ctx, one)
	assert.True(t, errors.Is(err, fault.StepOutOfOrder), "backwards: %v", err)

	// early completion is permitted
	assert.Nil(t, tracker.Done(ctx), "done from two")
	err = tracker.Done(ctx)
	assert.True(t, errors.Is(err, fault.StepOutOfOrder), "done twice: %v", err)
	assert.Equal(t, progress.Done, tracker.Current(), "still done")
}
