// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dvpd/configuration"
	"github.com/bitmark-inc/dvpd/currency"
	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/trade"
	"github.com/bitmark-inc/dvpd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultNotaryName     = "notary"
	defaultNotaryDatabase = "notary.leveldb"

	defaultSessionTimeout = 30 // seconds
	defaultMessageRate    = 0  // unlimited
	defaultMessageBurst   = 1

	defaultLogDirectory = "log"
	defaultLogFile      = "dvpd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// a fresh map each time as parsing merges into it
func defaultLogLevels() LoglevelMap {
	return LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
}

type NotaryType struct {
	Name     string `gluamapper:"name" json:"name"`
	Database string `gluamapper:"database" json:"database"`
}

type CashType struct {
	Currency string `gluamapper:"currency" json:"currency"`
	Quantity string `gluamapper:"quantity" json:"quantity"`
}

type BitmarkType struct {
	MagicNumber uint64 `gluamapper:"magic_number" json:"magic_number"`
}

type PartyType struct {
	Name     string        `gluamapper:"name" json:"name"`
	Cash     []CashType    `gluamapper:"cash" json:"cash"`
	Bitmarks []BitmarkType `gluamapper:"bitmarks" json:"bitmarks"`
}

type TradeType struct {
	Seller          string `gluamapper:"seller" json:"seller"`
	Buyer           string `gluamapper:"buyer" json:"buyer"`
	MagicNumber     uint64 `gluamapper:"magic_number" json:"magic_number"`
	Price           string `gluamapper:"price" json:"price"`
	AcceptablePrice string `gluamapper:"acceptable_price" json:"acceptable_price"`
	Anonymous       bool   `gluamapper:"anonymous" json:"anonymous"`
}

type SessionType struct {
	Timeout     float64 `gluamapper:"timeout" json:"timeout"`
	MessageRate float64 `gluamapper:"message_rate" json:"message_rate"`
	Burst       int     `gluamapper:"burst" json:"burst"`
}

type LoggerType struct {
	Directory string            `gluamapper:"directory" json:"directory"`
	File      string            `gluamapper:"file" json:"file"`
	Size      int               `gluamapper:"size" json:"size"`
	Count     int               `gluamapper:"count" json:"count"`
	Console   bool              `gluamapper:"console" json:"console"`
	Levels    map[string]string `gluamapper:"levels" json:"levels"`
}

type Configuration struct {
	DataDirectory string      `gluamapper:"data_directory" json:"data_directory"`
	Notary        NotaryType  `gluamapper:"notary" json:"notary"`
	Parties       []PartyType `gluamapper:"parties" json:"parties"`
	Trades        []TradeType `gluamapper:"trades" json:"trades"`
	Session       SessionType `gluamapper:"session" json:"session"`
	TimeTolerance float64     `gluamapper:"time_tolerance" json:"time_tolerance"`
	Logging       LoggerType  `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,

		Notary: NotaryType{
			Name:     defaultNotaryName,
			Database: defaultNotaryDatabase,
		},

		Session: SessionType{
			Timeout:     defaultSessionTimeout,
			MessageRate: defaultMessageRate,
			Burst:       defaultMessageBurst,
		},

		TimeTolerance: trade.DefaultTolerance.Seconds(),

		Logging: LoggerType{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels(),
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = util.EnsureAbsolute(dataDirectory, options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// fail if any of these are not simple file names
	for _, f := range []*string{
		&options.Notary.Database,
		&options.Logging.File,
	} {
		if !util.IsPlainName(*f) {
			return nil, fmt.Errorf("Files: %q is not plain name", *f)
		}
	}
	options.Notary.Database = util.EnsureAbsolute(options.DataDirectory, options.Notary.Database)

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0o700); nil != err {
			return nil, err
		}
	}

	if err := options.validate(); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// check names and amounts before any party is started
func (c *Configuration) validate() error {
	if "" == c.Notary.Name {
		return fmt.Errorf("notary name cannot be blank")
	}
	if c.Session.Timeout <= 0 {
		return fmt.Errorf("session timeout: %v must be positive", c.Session.Timeout)
	}
	if c.Session.MessageRate < 0 {
		return fmt.Errorf("session message rate: %v cannot be negative", c.Session.MessageRate)
	}
	if c.TimeTolerance <= 0 {
		return fmt.Errorf("time tolerance: %v must be positive", c.TimeTolerance)
	}

	bitmarks := make(map[string]map[uint64]struct{})
	for i, p := range c.Parties {
		if "" == p.Name {
			return fmt.Errorf("party[%d]: name cannot be blank", i)
		}
		if p.Name == c.Notary.Name {
			return fmt.Errorf("party[%d]: %q is the notary", i, p.Name)
		}
		if _, ok := bitmarks[p.Name]; ok {
			return fmt.Errorf("party[%d]: duplicate name: %q", i, p.Name)
		}
		for j, cash := range p.Cash {
			if _, err := cash.Amount(); nil != err {
				return fmt.Errorf("party: %q  cash[%d]: %w", p.Name, j, err)
			}
		}
		owned := make(map[uint64]struct{})
		for _, b := range p.Bitmarks {
			owned[b.MagicNumber] = struct{}{}
		}
		bitmarks[p.Name] = owned
	}

	for i, t := range c.Trades {
		owned, ok := bitmarks[t.Seller]
		if !ok {
			return fmt.Errorf("trade[%d]: unknown seller: %q", i, t.Seller)
		}
		if _, ok := bitmarks[t.Buyer]; !ok {
			return fmt.Errorf("trade[%d]: unknown buyer: %q", i, t.Buyer)
		}
		if t.Seller == t.Buyer {
			return fmt.Errorf("trade[%d]: %q cannot trade with itself", i, t.Seller)
		}
		if _, ok := owned[t.MagicNumber]; !ok {
			return fmt.Errorf("trade[%d]: seller: %q has no bitmark: %d", i, t.Seller, t.MagicNumber)
		}
		if _, _, err := t.Prices(); nil != err {
			return fmt.Errorf("trade[%d]: %w", i, err)
		}
	}
	return nil
}

// Amount - the cash amount to issue
func (c CashType) Amount() (currency.Amount, error) {
	return currency.ParseAmount(c.Quantity + " " + c.Currency)
}

// Prices - asking and acceptable prices
//
// a blank acceptable price is the asking price
func (t TradeType) Prices() (currency.Amount, currency.Amount, error) {
	price, err := currency.ParseAmount(t.Price)
	if nil != err {
		return currency.Amount{}, currency.Amount{}, err
	}
	if price.IsZero() {
		return currency.Amount{}, currency.Amount{}, fmt.Errorf("%w: price: %s", fault.InvalidAmount, t.Price)
	}
	if "" == t.AcceptablePrice {
		return price, price, nil
	}
	acceptable, err := currency.ParseAmount(t.AcceptablePrice)
	if nil != err {
		return currency.Amount{}, currency.Amount{}, err
	}
	return price, acceptable, nil
}

// sessionTimeout - receive timeout for every trade session
func (c *Configuration) sessionTimeout() time.Duration {
	return time.Duration(c.Session.Timeout * float64(time.Second))
}

func (c *Configuration) tolerance() time.Duration {
	return time.Duration(c.TimeTolerance * float64(time.Second))
}

// loggerConfiguration - convert to the logger package form
func (l LoggerType) loggerConfiguration() logger.Configuration {
	return logger.Configuration{
		Directory: l.Directory,
		File:      l.File,
		Size:      l.Size,
		Count:     l.Count,
		Console:   l.Console,
		Levels:    l.Levels,
	}
}
