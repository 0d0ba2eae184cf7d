// Copyright (C) 2008-2018 by Nicolas Piganeau and the TS2 TEAM
// (See AUTHORS file)
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program; if not, write to the
// Free Software Foundation, Inc.,
// 59 Temple Place - Suite 330, Boston, MA  02111-1307, USA.

// Package logging holds the single shared log15 root logger and the
// per-package initialization convention used throughout transitcore.
package logging

import (
	"os"

	log "gopkg.in/inconshreveable/log15.v2"
)

// Root is the application-wide root logger. Packages derive their own
// logger from it via InitializeLogger so log lines carry a "pkg" context.
var Root = log.New()

func init() {
	Root.SetHandler(log.StreamHandler(os.Stdout, log.LogfmtFormat()))
}

// NewPackageLogger returns a child of parent tagged with the given
// package name, following the convention every transitcore package
// exposes as its own InitializeLogger(parentLogger log.Logger).
func NewPackageLogger(parent log.Logger, pkg string) log.Logger {
	if parent == nil {
		parent = Root
	}
	return parent.New("pkg", pkg)
}

// SetLevel closes over the root handler to restrict emitted records to
// lvl and above, mirroring the teacher's --DL::<LEVEL> CLI switch.
func SetLevel(lvl log.Lvl, handler log.Handler) {
	Root.SetHandler(log.LvlFilterHandler(lvl, handler))
}
