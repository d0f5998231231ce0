// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package progress - per instance step tracking
package progress

import (
	"context"
	"fmt"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/looplab/fsm"

	"github.com/bitmark-inc/dvpd/fault"
)

// Step - a named stage of a protocol instance
type Step string

// Done - the final step of every tracker
const Done Step = "DONE"

// Observer - called after each transition
type Observer func(from Step, to Step)

// Tracker - a strictly forward sequence of steps
type Tracker struct {
	sync.Mutex
	log      *logger.L
	machine  *fsm.FSM
	steps    []Step
	history  []Step
	observer Observer
}

// New - create a tracker positioned on the first step
//
// Done is appended to the steps and may be reached from any step
func New(name string, observer Observer, steps ...Step) *Tracker {
	if 0 == len(steps) {
		logger.Panicf("progress: %s has no steps", name)
	}

	t := &Tracker{
		log:      logger.New("progress:" + name),
		steps:    append(append([]Step{}, steps...), Done),
		history:  []Step{steps[0]},
		observer: observer,
	}

	events := fsm.Events{}
	for i := 1; i < len(steps); i += 1 {
		events = append(events, fsm.EventDesc{
			Name: string(steps[i]),
			Src:  []string{string(steps[i-1])},
			Dst:  string(steps[i]),
		})
	}
	all := make([]string, len(steps))
	for i, s := range steps {
		all[i] = string(s)
	}
	events = append(events, fsm.EventDesc{
		Name: string(Done),
		Src:  all,
		Dst:  string(Done),
	})

	t.machine = fsm.NewFSM(
		string(steps[0]),
		events,
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				t.history = append(t.history, Step(e.Dst))
			},
		},
	)
	return t
}

// Current - the step the tracker is on
func (t *Tracker) Current() Step {
	return Step(t.machine.Current())
}

// Steps - all steps in order, including Done
func (t *Tracker) Steps() []Step {
	return append([]Step{}, t.steps...)
}

// History - steps visited so far
func (t *Tracker) History() []Step {
	t.Lock()
	defer t.Unlock()
	return append([]Step{}, t.history...)
}

// Advance - move to the next step
//
// only the step directly after the current one is accepted
func (t *Tracker) Advance(ctx context.Context, step Step) error {
	t.Lock()
	from := t.Current()
	err := t.machine.Event(ctx, string(step))
	t.Unlock()

	if nil != err {
		t.log.Errorf("step: %s  from: %s  error: %s", step, from, err)
		return fmt.Errorf("%w: %s -> %s", fault.StepOutOfOrder, from, step)
	}

	t.log.Debugf("step: %s -> %s", from, step)
	if nil != t.observer {
		t.observer(from, step)
	}
	return nil
}

// Done - move to the final step
func (t *Tracker) Done(ctx context.Context) error {
	return t.Advance(ctx, Done)
}

// IsDone - true once the final step is reached
func (t *Tracker) IsDone() bool {
	return Done == t.Current()
}
