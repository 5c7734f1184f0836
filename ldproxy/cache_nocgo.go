//go:build !cgo

package ldproxy

import (
	_ "modernc.org/sqlite"
)

const whichSQLiteDriver = "sqlite"
