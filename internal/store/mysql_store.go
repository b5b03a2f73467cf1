package store

import (
	"context"
	"fmt"
	"time"

	"github.com/evyataryagoni/geoip-leaderboard/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// IPTrackingModel is the GORM model for the ip_tracking table.
type IPTrackingModel struct {
	IP        string    `gorm:"column:ip;primaryKey;size:45"`
	Country   string    `gorm:"column:country;size:2"`
	City      string    `gorm:"column:city;size:128"`
	Latitude  float64   `gorm:"column:latitude"`
	Longitude float64   `gorm:"column:longitude"`
	Visits    uint64    `gorm:"column:visits;not null"`
	LastSeen  time.Time `gorm:"column:last_seen"`
}

// TableName overrides GORM's default pluralized name.
func (IPTrackingModel) TableName() string {
	return "ip_tracking"
}

// MySQLStore implements Store using MySQL with GORM.
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore creates a new MySQL store.
//
// Parameters:
//   - dsn: Data Source Name (connection string)
//     Format: user:password@tcp(host:port)/dbname?parseTime=true
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	config := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true, // single-statement writes, no wrapping transaction needed
	}

	db, err := gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Connection pool limits
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

// Migrate creates or updates the ip_tracking schema.
func (s *MySQLStore) Migrate() error {
	if err := s.db.AutoMigrate(&IPTrackingModel{}); err != nil {
		return fmt.Errorf("failed to migrate ip_tracking schema: %w", err)
	}
	return nil
}

// TopByVisits returns up to limit records ordered by visits descending,
// ties broken by last_seen descending.
func (s *MySQLStore) TopByVisits(ctx context.Context, limit int) ([]models.IPRecord, error) {
	var rows []IPTrackingModel

	result := s.db.WithContext(ctx).
		Order("visits DESC, last_seen DESC").
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("leaderboard query failed: %w", result.Error)
	}

	records := make([]models.IPRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.IPRecord{
			IP:        row.IP,
			Country:   row.Country,
			City:      row.City,
			Visits:    row.Visits,
			LastSeen:  row.LastSeen,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
		})
	}

	return records, nil
}

// Upsert inserts a new row or increments the visit counter of an
// existing one. The increment runs inside the store's native
// INSERT ... ON DUPLICATE KEY UPDATE, so concurrent sightings of the
// same IP never lose counts.
func (s *MySQLStore) Upsert(ctx context.Context, rec *models.IPRecord, refreshLocation bool) error {
	row := IPTrackingModel{
		IP:        rec.IP,
		Country:   rec.Country,
		City:      rec.City,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		Visits:    rec.Visits,
		LastSeen:  rec.LastSeen,
	}

	assignments := map[string]interface{}{
		"visits":    gorm.Expr("visits + 1"),
		"last_seen": rec.LastSeen,
	}
	if refreshLocation {
		assignments["country"] = rec.Country
		assignments["city"] = rec.City
		assignments["latitude"] = rec.Latitude
		assignments["longitude"] = rec.Longitude
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ip"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&row)
	if result.Error != nil {
		return fmt.Errorf("upsert failed for %s: %w", rec.IP, result.Error)
	}

	return nil
}

// Close closes the database connection.
// Should be called when the application shuts down.
func (s *MySQLStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
