// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder

import (
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/merkle"
)

// Item - one thing to add with WithItems
//
// the set of items is closed: only the types in this file implement it
type Item interface {
	addTo(b *Builder) error
}

// InputItem - a resolved state to consume
type InputItem struct {
	StateAndRef ledger.StateAndRef
}

// AttachmentItem - an attachment hash
type AttachmentItem struct {
	Hash merkle.Digest
}

// OutputItem - a fully formed output
type OutputItem struct {
	State ledger.TransactionState
}

// ContractOutputItem - output data and contract using the default notary
type ContractOutputItem struct {
	Data     ledger.ContractState
	Contract string
}

// CommandItem - a command
type CommandItem struct {
	Command ledger.Command
}

// TimeWindowItem - replaces the time window
type TimeWindowItem struct {
	TimeWindow ledger.TimeWindow
}

// PrivacySaltItem - replaces the privacy salt
type PrivacySaltItem struct {
	Salt ledger.PrivacySalt
}

func (i InputItem) addTo(b *Builder) error {
	return b.AddInputState(i.StateAndRef)
}

func (i AttachmentItem) addTo(b *Builder) error {
	b.AddAttachment(i.Hash)
	return nil
}

func (i OutputItem) addTo(b *Builder) error {
	return b.AddOutputState(i.State)
}

func (i ContractOutputItem) addTo(b *Builder) error {
	return b.AddOutputWithDefaultNotary(i.Data, i.Contract)
}

func (i CommandItem) addTo(b *Builder) error {
	b.AddCommand(i.Command)
	return nil
}

func (i TimeWindowItem) addTo(b *Builder) error {
	return b.SetTimeWindow(i.TimeWindow)
}

func (i PrivacySaltItem) addTo(b *Builder) error {
	return b.SetPrivacySalt(i.Salt)
}

// WithItems - add every item or none of them
//
// items are applied in order to a draft copy which replaces the
// builder contents only if all of them succeed
func (b *Builder) WithItems(items ...Item) error {
	draft := b.Copy()
	for _, item := range items {
		if nil == item {
			return fault.InvalidBatchItem
		}
		if err := item.addTo(draft); nil != err {
			return err
		}
	}
	*b = *draft
	return nil
}

// ItemFrom - classify a loosely typed value
//
// a ContractState on its own is rejected since its contract cannot be
// inferred
func ItemFrom(value interface{}) (Item, error) {
	switch v := value.(type) {
	case Item:
		return v, nil
	case ledger.StateAndRef:
		return InputItem{StateAndRef: v}, nil
	case merkle.Digest:
		return AttachmentItem{Hash: v}, nil
	case ledger.TransactionState:
		return OutputItem{State: v}, nil
	case ledger.Command:
		return CommandItem{Command: v}, nil
	case ledger.TimeWindow:
		return TimeWindowItem{TimeWindow: v}, nil
	case ledger.PrivacySalt:
		return PrivacySaltItem{Salt: v}, nil
	}
	return nil, fault.InvalidBatchItem
}

// WithValues - classify each value with ItemFrom then add them all
func (b *Builder) WithValues(values ...interface{}) error {
	items := make([]Item, 0, len(values))
	for _, v := range values {
		item, err := ItemFrom(v)
		if nil != err {
			return err
		}
		items = append(items, item)
	}
	return b.WithItems(items...)
}
