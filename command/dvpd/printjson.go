// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"
)

// printJson - indented JSON of a value followed by a newline
func printJson(handle io.Writer, message interface{}) error {
	encoder := json.NewEncoder(handle)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(message)
}
