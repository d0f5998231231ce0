// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package currency

// MarshalText - currency code for JSON and text encodings
func (currency Currency) MarshalText() ([]byte, error) {
	return []byte(currency.String()), nil
}

// UnmarshalText - currency code or name, case is ignored
func (currency *Currency) UnmarshalText(s []byte) error {
	c, err := fromString(string(s))
	if nil != err {
		return err
	}
	*currency = c
	return nil
}

// MarshalText - amount in "100.00 USD" form; an amount with no
// currency is empty
func (amount Amount) MarshalText() ([]byte, error) {
	if Nothing == amount.Currency {
		return []byte{}, nil
	}
	return []byte(amount.String()), nil
}

// UnmarshalText - inverse of MarshalText
func (amount *Amount) UnmarshalText(s []byte) error {
	if 0 == len(s) {
		*amount = Amount{}
		return nil
	}
	a, err := ParseAmount(string(s))
	if nil != err {
		return err
	}
	*amount = a
	return nil
}
