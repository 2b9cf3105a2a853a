// go-lr2021
// Copyright (c) 2025 The go-lr2021 Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-lr2021.
//
// go-lr2021 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-lr2021 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-lr2021; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package lr2021

import (
	"fmt"
	"os"
	"strings"
)

// debugEnabled is read once at startup from LR2021_DEBUG.
var debugEnabled = isDebugEnabled()

func isDebugEnabled() bool {
	v := strings.ToLower(os.Getenv("LR2021_DEBUG"))
	return v == "1" || v == "true" || v == "yes"
}

// Debugf prints wire-level diagnostics to stderr when LR2021_DEBUG is
// set. Used sparingly on the command path so normal operation stays
// silent.
func Debugf(format string, args ...interface{}) {
	if !debugEnabled {
		return
	}
	fmt.Fprintf(os.Stderr, "[lr2021] "+format+"\n", args...)
}
