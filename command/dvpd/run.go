// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"
)

func runExchange(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	// start logging
	if err := logger.Initialise(m.config.Logging.loggerConfiguration()); nil != err {
		return fmt.Errorf("logger setup failed with error: %w", err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("configuration: %+v", m.config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	net, err := startNetwork(ctx, log, m.config)
	if nil != err {
		log.Criticalf("start network error: %s", err)
		return err
	}
	defer net.stop()

	results := net.exchange(ctx, m.config)
	printResults(m.w, results)

	failed := 0
	for _, r := range results {
		if r.failed() {
			failed += 1
		}
	}
	log.Infof("trades: %d  failed: %d  notarised: %d", len(results), failed, net.notary.NotarisedCount())
	if m.verbose {
		fmt.Fprintf(m.e, "trades: %d  failed: %d\n", len(results), failed)
	}
	if 0 != failed {
		return fmt.Errorf("%d of %d trades failed", failed, len(results))
	}
	return nil
}
