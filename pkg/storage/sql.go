package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// chartRecord is the table row of a stored chart, the chart itself is kept as JSON
type chartRecord struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Title     string
	Series    int
	Payload   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}

func (chartRecord) TableName() string {
	return "charts"
}

func (r chartRecord) record() core.Record {
	return core.Record{
		ID:        r.ID,
		Title:     r.Title,
		Series:    r.Series,
		CreatedAt: r.CreatedAt,
	}
}

// SQLStorage implements core.ChartStore on any database supported by GORM
type SQLStorage struct {
	db *gorm.DB
}

// FromSQL opens the database behind dialect and migrates the charts table
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (*SQLStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&chartRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// Save stores the chart and returns the id assigned by the database
func (s *SQLStorage) Save(chart core.Chart) (int64, error) {
	payload, err := json.Marshal(chart)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal chart: %w", err)
	}

	row := chartRecord{
		Title:   chart.Options.Title,
		Series:  len(chart.Series),
		Payload: string(payload),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to create chart: %w", err)
	}

	return row.ID, nil
}

// Chart returns the chart stored under id
func (s *SQLStorage) Chart(id int64) (core.Chart, error) {
	var row chartRecord

	err := s.db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Chart{}, fmt.Errorf("chart %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Chart{}, fmt.Errorf("failed to read chart %d: %w", id, err)
	}

	var chart core.Chart
	if err := json.Unmarshal([]byte(row.Payload), &chart); err != nil {
		return core.Chart{}, fmt.Errorf("failed to decode chart %d: %w", id, err)
	}
	return chart, nil
}

// List returns the stored charts, oldest first
func (s *SQLStorage) List() ([]core.Record, error) {
	var rows []chartRecord

	err := s.db.Select("id", "title", "series", "created_at").
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch charts: %w", err)
	}

	return lo.Map(rows, func(row chartRecord, _ int) core.Record {
		return row.record()
	}), nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
