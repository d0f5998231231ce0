// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/urfave/cli"
)

type metadata struct {
	file    string
	config  *Configuration
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	app := cli.NewApp()
	app.Name = "dvpd"
	app.Usage = "delivery versus payment of bitmarks between in-process parties"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "config-file, c",
			Value: "",
			Usage: "*configuration `FILE`",
		},
		cli.StringSliceFlag{
			Name:  "var, V",
			Usage: " configuration variable `NAME=VALUE` (repeatable)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "issue the configured assets and execute every configured trade",
			Action: runExchange,
		},
		{
			Name:  "config",
			Usage: "display the resolved configuration",
			Action: func(c *cli.Context) error {
				m := c.App.Metadata["config"].(*metadata)
				return printJson(m.w, m.config)
			},
		},
		{
			Name:  "version",
			Usage: "display dvpd version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// read the configuration
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		switch command {
		case "", "version", "help", "h":
			return nil
		}

		file := c.GlobalString("config-file")
		if "" == file {
			return fmt.Errorf("config-file is required")
		}
		variables, err := parseVariables(c.GlobalStringSlice("var"))
		if nil != err {
			return err
		}

		if verbose {
			fmt.Fprintf(e, "reading config file: %s\n", file)
		}

		configuration, err := getConfiguration(file, variables)
		if nil != err {
			return fmt.Errorf("failed to read configuration from: %q  error: %w", file, err)
		}

		c.App.Metadata["config"] = &metadata{
			file:    file,
			config:  configuration,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		exitwithstatus.Message("%s: terminated with error: %s", app.Name, err)
	}
}

// split NAME=VALUE items
func parseVariables(items []string) (map[string]string, error) {
	variables := make(map[string]string)
	for _, item := range items {
		n := strings.IndexByte(item, '=')
		if n <= 0 {
			return nil, fmt.Errorf("variable: %q is not NAME=VALUE", item)
		}
		variables[item[:n]] = item[n+1:]
	}
	return variables, nil
}
