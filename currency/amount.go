// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/util"
)

// Amount - a quantity of minor units (e.g. cents) of one currency
type Amount struct {
	Quantity uint64   `json:"quantity"`
	Currency Currency `json:"currency"`
}

// NewAmount - create an amount from minor units
func NewAmount(quantity uint64, currency Currency) Amount {
	return Amount{
		Quantity: quantity,
		Currency: currency,
	}
}

// Zero - the zero amount of a currency
func Zero(currency Currency) Amount {
	return Amount{Currency: currency}
}

// ParseAmount - parse "<major>[.<minor>] <currency>" e.g. "100.50 USD"
func ParseAmount(s string) (Amount, error) {
	fields := strings.Fields(s)
	if 2 != len(fields) {
		return Amount{}, fault.InvalidAmount
	}

	c, err := fromString(fields[1])
	if nil != err {
		return Amount{}, err
	}
	if !c.IsValid() {
		return Amount{}, fault.InvalidCurrency
	}

	major := fields[0]
	minor := ""
	if n := strings.IndexByte(major, '.'); n >= 0 {
		major, minor = major[:n], major[n+1:]
		if 0 == len(minor) || len(minor) > minorDigits {
			return Amount{}, fault.InvalidAmount
		}
	}
	minor += strings.Repeat("0", minorDigits-len(minor))

	m, err := strconv.ParseUint(major, 10, 64)
	if nil != err {
		return Amount{}, fault.InvalidAmount
	}
	f, err := strconv.ParseUint(minor, 10, 64)
	if nil != err {
		return Amount{}, fault.InvalidAmount
	}
	if m > (math.MaxUint64-f)/minorUnits {
		return Amount{}, fault.InvalidAmount
	}
	return NewAmount(m*minorUnits+f, c), nil
}

// IsZero - true if no minor units
func (amount Amount) IsZero() bool {
	return 0 == amount.Quantity
}

// Plus - sum of two amounts of the same currency
func (amount Amount) Plus(other Amount) (Amount, error) {
	if amount.Currency != other.Currency {
		return Amount{}, fault.CurrencyMismatch
	}
	if amount.Quantity > math.MaxUint64-other.Quantity {
		return Amount{}, fault.InvalidAmount
	}
	return NewAmount(amount.Quantity+other.Quantity, amount.Currency), nil
}

// Minus - difference of two amounts of the same currency
// the result may not be negative
func (amount Amount) Minus(other Amount) (Amount, error) {
	if amount.Currency != other.Currency {
		return Amount{}, fault.CurrencyMismatch
	}
	if other.Quantity > amount.Quantity {
		return Amount{}, fault.InvalidAmount
	}
	return NewAmount(amount.Quantity-other.Quantity, amount.Currency), nil
}

// Cmp - compare two amounts of the same currency
// returns -1, 0 or +1
func (amount Amount) Cmp(other Amount) (int, error) {
	if amount.Currency != other.Currency {
		return 0, fault.CurrencyMismatch
	}
	switch {
	case amount.Quantity < other.Quantity:
		return -1, nil
	case amount.Quantity > other.Quantity:
		return 1, nil
	}
	return 0, nil
}

// String - human readable form e.g. "100.00 USD"
func (amount Amount) String() string {
	return fmt.Sprintf("%d.%02d %s", amount.Quantity/minorUnits, amount.Quantity%minorUnits, amount.Currency)
}

// Pack - canonical byte form used in transaction hashing
func (amount Amount) Pack() []byte {
	buffer := util.ToVarint64(uint64(amount.Currency))
	return util.AppendVarint64(buffer, amount.Quantity)
}
