package storage

import (
	"io"
	"strings"

	"github.com/raykavin/miniplot/pkg/core"
	"gorm.io/driver/sqlite"
)

// Store is a ChartStore that holds resources until closed
type Store interface {
	core.ChartStore
	io.Closer
}

// Open selects a store from a location string: ":memory:" for a volatile
// BuntDB, "sqlite:<path>" for a SQLite database and any other value for a BuntDB file.
func Open(location string) (Store, error) {
	var (
		store Store
		err   error
	)

	switch path, ok := strings.CutPrefix(location, "sqlite:"); {
	case ok:
		store, err = FromSQL(sqlite.Open(path))
	case location == "" || location == ":memory:":
		store, err = FromMemory()
	default:
		store, err = FromFile(location)
	}

	if err != nil {
		return nil, err
	}
	return store, nil
}
