// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"reflect"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/bitmark-inc/proofminer/fault"
)

// ParseConfigurationFile - read and execute a Lua files and assign
// the results to a configuration structure
func ParseConfigurationFile(fileName string, config interface{}) error {
	return parse(config, func(L *lua.LState) error {
		// create the global "arg" table
		// arg[0] = config file
		arg := &lua.LTable{}
		arg.Insert(0, lua.LString(fileName))
		L.SetGlobal("arg", arg)

		return L.DoFile(fileName)
	})
}

// ParseConfigurationString - as ParseConfigurationFile for Lua source
// held in memory
func ParseConfigurationString(source string, config interface{}) error {
	return parse(config, func(L *lua.LState) error {
		L.SetGlobal("arg", &lua.LTable{})
		return L.DoString(source)
	})
}

func parse(config interface{}, execute func(*lua.LState) error) error {
	// since interface{} is untyped, have to verify type compatibility at run-time
	rv := reflect.ValueOf(config)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fault.ErrInvalidStructPointer
	}

	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()

	if err := execute(L); nil != err {
		return err
	}

	table, ok := L.Get(L.GetTop()).(*lua.LTable)
	if !ok {
		return fault.ErrConfigurationNotTable
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
