// Package storage keeps finalized charts so they can be listed and viewed again.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/tidwall/buntdb"
)

const createdIndex = "created_index"

// document is the JSON value stored for each chart
type document struct {
	ID        int64      `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Chart     core.Chart `json:"chart"`

	// Created is CreatedAt in unix nanoseconds, RFC 3339 strings do not sort
	Created int64 `json:"created"`
}

func (d document) record() core.Record {
	return core.Record{
		ID:        d.ID,
		Title:     d.Chart.Options.Title,
		Series:    len(d.Chart.Series),
		CreatedAt: d.CreatedAt,
	}
}

// BuntStorage implements core.ChartStore using BuntDB
type BuntStorage struct {
	lastID int64
	db     *buntdb.DB
	now    func() time.Time
}

// FromMemory creates an in-memory storage
func FromMemory() (*BuntStorage, error) {
	return NewBuntStorage(":memory:")
}

// FromFile creates a file-based storage, charts saved earlier are kept
func FromFile(file string) (*BuntStorage, error) {
	return NewBuntStorage(file)
}

// NewBuntStorage opens the BuntDB database at path, ":memory:" for a volatile one
func NewBuntStorage(path string) (*BuntStorage, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(createdIndex, "*", buntdb.IndexJSON("created"), buntdb.IndexJSON("id"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	storage := &BuntStorage{db: db, now: time.Now}
	if err := storage.restoreID(); err != nil {
		db.Close()
		return nil, err
	}
	return storage, nil
}

// restoreID continues numbering after the highest stored id
func (b *BuntStorage) restoreID() error {
	return b.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys("*", func(key, _ string) bool {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > b.lastID {
				b.lastID = id
			}
			return true
		})
	})
}

func (b *BuntStorage) nextID() int64 {
	return atomic.AddInt64(&b.lastID, 1)
}

// Save stores a copy of the chart and returns its id
func (b *BuntStorage) Save(chart core.Chart) (int64, error) {
	now := b.now().UTC()
	doc := document{
		ID:        b.nextID(),
		CreatedAt: now,
		Chart:     chart,
		Created:   now.UnixNano(),
	}

	content, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal chart: %w", err)
	}

	err = b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(strconv.FormatInt(doc.ID, 10), string(content), nil)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store chart: %w", err)
	}

	return doc.ID, nil
}

// Chart returns the chart stored under id
func (b *BuntStorage) Chart(id int64) (core.Chart, error) {
	var doc document

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(strconv.FormatInt(id, 10))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(value), &doc)
	})

	if errors.Is(err, buntdb.ErrNotFound) {
		return core.Chart{}, fmt.Errorf("chart %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Chart{}, fmt.Errorf("failed to read chart %d: %w", id, err)
	}

	return doc.Chart, nil
}

// List returns the stored charts, oldest first
func (b *BuntStorage) List() ([]core.Record, error) {
	records := make([]core.Record, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend(createdIndex, func(_, value string) bool {
			var doc document
			if err := json.Unmarshal([]byte(value), &doc); err != nil {
				return true
			}
			records = append(records, doc.record())
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over charts: %w", err)
	}

	return records, nil
}

// Close closes the database
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
