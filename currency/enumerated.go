// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package currency

import (
	"fmt"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/fault"
)

// Currency - currency enumeration
type Currency uint64

// possible currency values
const (
	Nothing      Currency = iota // this must be the first value
	USD          Currency = iota
	GBP          Currency = iota
	EUR          Currency = iota
	CHF          Currency = iota
	maximumValue Currency = iota // this must be the last value
	First        Currency = Nothing + 1
	Last         Currency = maximumValue - 1
	Count        int      = int(Last) // count of currencies
)

// all currencies use two decimal places for display
const (
	minorDigits = 2
	minorUnits  = 100
)

// internal conversion
func toString(c Currency) ([]byte, error) {
	switch c {
	case Nothing:
		return []byte{}, nil
	case USD:
		return []byte("USD"), nil
	case GBP:
		return []byte("GBP"), nil
	case EUR:
		return []byte("EUR"), nil
	case CHF:
		return []byte("CHF"), nil
	default:
		return []byte{}, fault.InvalidCurrency
	}
}

// convert a string to a currency
func fromString(in string) (Currency, error) {
	switch strings.ToLower(in) {
	case "":
		return Nothing, nil
	case "usd", "dollar":
		return USD, nil
	case "gbp", "pound":
		return GBP, nil
	case "eur", "euro":
		return EUR, nil
	case "chf", "franc":
		return CHF, nil
	default:
		return Nothing, fault.InvalidCurrency
	}
}

// String - convert a currency to its string symbol
func (currency Currency) String() string {
	s, err := toString(currency)
	if nil != err {
		logger.Panicf("invalid currency enumeration: %d", currency)
	}
	return string(s)
}

// GoString - convert both enum value and symbol, for debugging
func (currency Currency) GoString() string {
	return fmt.Sprintf("<Currency#%d:%q>", currency, currency.String())
}

// Scan - convert a currency string
func (currency *Currency) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, func(c rune) bool {
		return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
	})
	if nil != err {
		return err
	}
	parsed, err := fromString(string(token))
	if nil != err {
		return err
	}

	*currency = parsed
	return nil
}

// IsValid - valid currency if in range of First to Last
// Nothing is not considered as valid
func (currency Currency) IsValid() bool {
	return currency >= First && currency <= Last
}
