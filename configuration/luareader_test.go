// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dvpd/configuration"
	"github.com/bitmark-inc/dvpd/fixtures"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	result := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(result)
}

type item struct {
	Name  string `gluamapper:"name"`
	Magic uint64 `gluamapper:"magic_number"`
}

type sample struct {
	Directory string            `gluamapper:"data_directory"`
	Timeout   float64           `gluamapper:"timeout"`
	Enabled   bool              `gluamapper:"enabled"`
	Items     []item            `gluamapper:"items"`
	Levels    map[string]string `gluamapper:"levels"`
	Untouched string            `gluamapper:"untouched"`
}

const source = `
local who = var.who or "nobody"
return {
    data_directory = ".",
    timeout = 2.5,
    enabled = true,
    items = {
        { name = who, magic_number = 42 },
        { name = "second", magic_number = 7 },
    },
    levels = { main = "info", DEFAULT = "error" },
}
`

func TestParseString(t *testing.T) {
	config := sample{Untouched: "default"}
	err := configuration.ParseConfigurationString(source, &config, map[string]string{"who": "alice"})
	require.Nil(t, err, "parse")

	assert.Equal(t, ".", config.Directory, "directory")
	assert.Equal(t, 2.5, config.Timeout, "timeout")
	assert.True(t, config.Enabled, "enabled")
	assert.Equal(t, []item{{"alice", 42}, {"second", 7}}, config.Items, "items")
	assert.Equal(t, "error", config.Levels["DEFAULT"], "levels")
	assert.Equal(t, "default", config.Untouched, "default overwritten")
}

func TestParseFile(t *testing.T) {
	fileName := filepath.Join(fixtures.TestDirectory(), "sample.conf")
	err := os.WriteFile(fileName, []byte("return { data_directory = arg[0] }\n"), 0o600)
	require.Nil(t, err, "write")

	config := sample{}
	err = configuration.ParseConfigurationFile(fileName, &config, nil)
	assert.Nil(t, err, "parse")
	assert.Equal(t, fileName, config.Directory, "arg[0]")
}

func TestParseErrors(t *testing.T) {
	config := sample{}
	err := configuration.ParseConfigurationString("return 42", &config, nil)
	assert.NotNil(t, err, "non-table accepted")

	err = configuration.ParseConfigurationString("return {", &config, nil)
	assert.NotNil(t, err, "syntax error accepted")

	err = configuration.ParseConfigurationFile(filepath.Join(fixtures.TestDirectory(), "missing.conf"), &config, nil)
	assert.NotNil(t, err, "missing file accepted")
}
