// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"
)

// ParseConfigurationFile - read and execute a Lua file and assign
// the results to a configuration structure
//
// variables are made available to the script as the global table
// "var" so a file can be shared between several runs
func ParseConfigurationFile(fileName string, config interface{}, variables map[string]string) error {
	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()
	setGlobals(L, fileName, variables)

	// execute configuration
	if err := L.DoFile(fileName); err != nil {
		return err
	}
	return mapResult(L, config)
}

// ParseConfigurationString - as ParseConfigurationFile but from a
// string of Lua source
func ParseConfigurationString(source string, config interface{}, variables map[string]string) error {
	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()
	setGlobals(L, "", variables)

	if err := L.DoString(source); err != nil {
		return err
	}
	return mapResult(L, config)
}

func setGlobals(L *lua.LState, fileName string, variables map[string]string) {

	// create the global "arg" table
	// arg[0] = config file
	arg := &lua.LTable{}
	arg.Insert(0, lua.LString(fileName))
	L.SetGlobal("arg", arg)

	v := &lua.LTable{}
	for key, value := range variables {
		v.RawSetString(key, lua.LString(value))
	}
	L.SetGlobal("var", v)
}

func mapResult(L *lua.LState, config interface{}) error {
	table, ok := L.Get(L.GetTop()).(*lua.LTable)
	if !ok {
		return fmt.Errorf("configuration did not return a table: %s", L.Get(L.GetTop()).Type())
	}

	mapperOption := gluamapper.Option{
		NameFunc: func(s string) string {
			return s
		},
		TagName: "gluamapper",
	}
	mapper := gluamapper.Mapper{Option: mapperOption}
	return mapper.Map(table, config)
}
