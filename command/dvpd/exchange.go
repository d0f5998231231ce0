// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/bitmark-inc/logger"
	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/dvpd/contracts/bitmark"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/ledger"
	"github.com/bitmark-inc/dvpd/node"
	"github.com/bitmark-inc/dvpd/notary"
	"github.com/bitmark-inc/dvpd/progress"
	"github.com/bitmark-inc/dvpd/session"
	"github.com/bitmark-inc/dvpd/storage"
	"github.com/bitmark-inc/dvpd/trade"
)

// one configured trade after both roles finished
type tradeResult struct {
	index         int
	trade         TradeType
	transaction   *ledger.SignedTransaction
	sellerErr     error
	buyerErr      error
	sellerHistory []progress.Step
	buyerHistory  []progress.Step
}

func (r tradeResult) failed() bool {
	return nil != r.sellerErr || nil != r.buyerErr
}

// the in-process network: one notary and the configured parties
type network struct {
	log         *logger.L
	notary      *notary.Notary
	notaryParty identity.Party
	nodes       map[string]*node.Node
	assets      map[string]map[uint64]ledger.StateAndRef
	database    *storage.Database
}

func startNetwork(ctx context.Context, log *logger.L, conf *Configuration) (*network, error) {
	database, err := storage.Open(conf.Notary.Database, storage.ReadWrite)
	if nil != err {
		return nil, err
	}
	n, pc, err := node.NewNotary(conf.Notary.Name, database, nil)
	if nil != err {
		database.Close()
		return nil, err
	}

	net := &network{
		log:         log,
		notary:      n,
		notaryParty: pc.Party(),
		nodes:       make(map[string]*node.Node),
		assets:      make(map[string]map[uint64]ledger.StateAndRef),
		database:    database,
	}

	certificates := []identity.PartyAndCertificate{pc}
	for _, p := range conf.Parties {
		nd, err := node.New(p.Name, n)
		if nil != err {
			net.stop()
			return nil, err
		}
		net.nodes[p.Name] = nd
		certificates = append(certificates, nd.Certificate)
	}

	for _, nd := range net.nodes {
		for _, c := range certificates {
			if c.OwningKey().Equal(nd.Party().Key) {
				continue
			}
			if err := nd.Introduce(c); nil != err {
				net.stop()
				return nil, err
			}
		}
	}

	for _, p := range conf.Parties {
		if err := net.issue(ctx, p); nil != err {
			net.stop()
			return nil, err
		}
	}
	return net, nil
}

// issue a party's configured starting assets
func (net *network) issue(ctx context.Context, p PartyType) error {
	nd := net.nodes[p.Name]
	for _, c := range p.Cash {
		amount, err := c.Amount()
		if nil != err {
			return err
		}
		if _, err := nd.IssueCash(ctx, amount, &net.notaryParty); nil != err {
			net.log.Errorf("party: %s  issue cash: %s  error: %s", p.Name, amount, err)
			return err
		}
		net.log.Infof("party: %s  issued: %s", p.Name, amount)
	}

	owned := make(map[uint64]ledger.StateAndRef)
	for _, b := range p.Bitmarks {
		asset, err := nd.IssueBitmark(ctx, b.MagicNumber, &net.notaryParty)
		if nil != err {
			net.log.Errorf("party: %s  issue bitmark: %d  error: %s", p.Name, b.MagicNumber, err)
			return err
		}
		owned[b.MagicNumber] = asset
		net.log.Infof("party: %s  issued bitmark: %d  ref: %s", p.Name, b.MagicNumber, asset.Ref)
	}
	net.assets[p.Name] = owned
	return nil
}

func (net *network) stop() {
	for _, nd := range net.nodes {
		nd.Close()
	}
	net.database.Close()
}

// run every configured trade concurrently
//
// a failed trade does not cancel the others
func (net *network) exchange(ctx context.Context, conf *Configuration) []tradeResult {
	results := make([]tradeResult, len(conf.Trades))

	var g errgroup.Group
	for i, t := range conf.Trades {
		i, t := i, t
		g.Go(func() error {
			results[i] = net.runTrade(ctx, conf, i, t)
			return nil
		})
	}
	g.Wait()
	return results
}

func (net *network) runTrade(ctx context.Context, conf *Configuration, index int, t TradeType) tradeResult {
	result := tradeResult{
		index: index,
		trade: t,
	}

	seller := net.nodes[t.Seller]
	buyer := net.nodes[t.Buyer]
	price, acceptable, err := t.Prices()
	if nil != err {
		result.sellerErr = err
		return result
	}

	options := session.Options{
		Timeout: conf.sessionTimeout(),
		Rate:    conf.Session.MessageRate,
		Burst:   conf.Session.Burst,
	}
	toBuyer, toSeller := session.Pipe(seller.Party(), buyer.Party(), options)
	defer toBuyer.Close()
	defer toSeller.Close()

	observer := func(role string) progress.Observer {
		return func(from progress.Step, to progress.Step) {
			net.log.Infof("trade[%d]: %s: %s -> %s", index, role, from, to)
		}
	}

	s := trade.NewSeller(net.services(conf, seller), toBuyer, net.assets[t.Seller][t.MagicNumber], price, seller.Certificate, observer("seller"))
	b := trade.NewBuyer(net.services(conf, buyer), toSeller, acceptable, reflect.TypeOf(bitmark.State{}), t.Anonymous, observer("buyer"))

	var g errgroup.Group
	g.Go(func() error {
		result.transaction, result.sellerErr = s.Run(ctx)
		return nil
	})
	g.Go(func() error {
		_, result.buyerErr = b.Run(ctx)
		return nil
	})
	g.Wait()

	result.sellerHistory = s.Progress().History()
	result.buyerHistory = b.Progress().History()
	return result
}

func (net *network) services(conf *Configuration, nd *node.Node) trade.Services {
	return trade.Services{
		Me:        nd.Party(),
		Identity:  nd.Identity,
		Keys:      nd.Keys,
		Cash:      nd.Cash,
		Flows:     nd.Flows,
		Tolerance: conf.tolerance(),
	}
}

// print one block per trade
func printResults(w io.Writer, results []tradeResult) {
	for _, r := range results {
		fmt.Fprintf(w, "trade[%d]: %s -> %s  bitmark: %d  price: %s\n", r.index, r.trade.Seller, r.trade.Buyer, r.trade.MagicNumber, r.trade.Price)
		if nil != r.transaction {
			fmt.Fprintf(w, "  transaction: %s\n", r.transaction.Id())
		}
		if nil != r.sellerErr {
			fmt.Fprintf(w, "  seller error: %s\n", r.sellerErr)
		}
		if nil != r.buyerErr {
			fmt.Fprintf(w, "  buyer error: %s\n", r.buyerErr)
		}
		fmt.Fprintf(w, "  seller: %s\n", joinSteps(r.sellerHistory))
		fmt.Fprintf(w, "  buyer:  %s\n", joinSteps(r.buyerHistory))
	}
}

func joinSteps(steps []progress.Step) string {
	s := make([]string, len(steps))
	for i, step := range steps {
		s[i] = string(step)
	}
	return strings.Join(s, " > ")
}
