// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bitmark-inc/dvpd/fault"
)

var (
	ErrExistsOne   = fault.ExistsError("exists one ")
	ErrExistsTwo   = fault.ExistsError("exists two")
	ErrInvalidOne  = fault.InvalidError("invalid one")
	ErrInvalidTwo  = fault.InvalidError("invalid two")
	ErrNotFoundOne = fault.NotFoundError("not found one")
	ErrNotFoundTwo = fault.NotFoundError("not found two")
	ErrProcessOne  = fault.ProcessError("process one")
	ErrProcessTwo  = fault.ProcessError("process two")
)

// test that various errors can be subclassed
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		exists   bool
		invalid  bool
		notFound bool
		process  bool
	}{
		{ErrExistsOne, true, false, false, false},
		{ErrExistsTwo, true, false, false, false},
		{ErrInvalidOne, false, true, false, false},
		{ErrInvalidTwo, false, true, false, false},
		{ErrNotFoundOne, false, false, true, false},
		{ErrNotFoundTwo, false, false, true, false},
		{ErrProcessOne, false, false, false, true},
		{ErrProcessTwo, false, false, false, true},
		{fault.NotaryMismatch, false, true, false, false},
		{fault.DoubleSpend, true, false, false, false},
		{fault.StateNotFound, false, false, true, false},
		{fault.SessionTimeout, false, false, false, true},
		{fmt.Errorf("%w: extra detail", fault.PriceMismatch), false, true, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
	}
}

// wrapped values still compare equal to the base instance
func TestWrappedIdentity(t *testing.T) {
	err := fmt.Errorf("participant %q: %w", "someone", fault.UnknownParticipant)
	if !errors.Is(err, fault.UnknownParticipant) {
		t.Errorf("wrapped error lost identity: %v", err)
	}
	if errors.Is(err, fault.PriceMismatch) {
		t.Errorf("wrapped error matched the wrong instance: %v", err)
	}
}
