// Package store keeps account-state blobs in SQLite, keyed by account
// address.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/govm-net/ffibridge/core"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	defaultDBPath = "./ffibridge.db"
)

// ErrNotFound is returned when no blob is stored for an address.
var ErrNotFound = errors.New("store: account blob not found")

// DBAccountBlob represents the last known state blob of an account
type DBAccountBlob struct {
	Address   string    `gorm:"column:address;primaryKey;size:64"`
	Blob      []byte    `gorm:"column:state_blob;type:blob;not null"`
	Version   uint64    `gorm:"column:version;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for DBAccountBlob
func (DBAccountBlob) TableName() string {
	return "account_blobs"
}

// Store is a SQLite-backed blob store using GORM
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path. An empty path
// uses ./ffibridge.db.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&DBAccountBlob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Put stores blob as the state of addr at version, replacing any earlier
// state.
func (s *Store) Put(ctx context.Context, addr core.Address, blob []byte, version uint64) error {
	row := DBAccountBlob{
		Address: addr.String(),
		Blob:    append([]byte{}, blob...),
		Version: version,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"state_blob", "version", "updated_at"}),
	}).Create(&row)
	if result.Error != nil {
		return fmt.Errorf("failed to save account blob: %w", result.Error)
	}
	return nil
}

// Get returns the stored state of addr.
func (s *Store) Get(ctx context.Context, addr core.Address) (*DBAccountBlob, error) {
	var row DBAccountBlob
	result := s.db.WithContext(ctx).Where("address = ?", addr.String()).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get account blob: %w", result.Error)
	}
	return &row, nil
}

// Blob returns the stored blob of addr, or an empty blob when the account
// has no stored state.
func (s *Store) Blob(ctx context.Context, addr core.Address) ([]byte, error) {
	row, err := s.Get(ctx, addr)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.Blob, nil
}

// Delete removes the stored state of addr.
func (s *Store) Delete(ctx context.Context, addr core.Address) error {
	result := s.db.WithContext(ctx).Where("address = ?", addr.String()).Delete(&DBAccountBlob{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete account blob: %w", result.Error)
	}
	return nil
}

// Addresses lists the accounts with stored state in address order.
func (s *Store) Addresses(ctx context.Context) ([]core.Address, error) {
	var keys []string
	result := s.db.WithContext(ctx).Model(&DBAccountBlob{}).Order("address").Pluck("address", &keys)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", result.Error)
	}
	out := make([]core.Address, 0, len(keys))
	for _, k := range keys {
		addr, err := core.AddressFromHex(k)
		if err != nil {
			return nil, fmt.Errorf("corrupt address %q: %w", k, err)
		}
		out = append(out, addr)
	}
	return out, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
