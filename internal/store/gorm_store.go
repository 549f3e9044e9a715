package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shorturl-go/internal/model"
)

// GormStore persists records in MySQL through gorm. Uniqueness relies on the
// shortcode unique index; click ordering on the click table's auto-increment
// primary key.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByShortcode(ctx context.Context, shortcode string) (*model.ShortURL, error) {
	var record model.ShortURL
	err := s.db.WithContext(ctx).
		Preload("Clicks", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("shortcode = ?", shortcode).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *GormStore) Insert(ctx context.Context, record *model.ShortURL) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		// Requires TranslateError in the gorm config so the mysql driver
		// surfaces 1062 as gorm.ErrDuplicatedKey.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (s *GormStore) AppendClick(ctx context.Context, shortcode string, event model.ClickEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record model.ShortURL
		if err := tx.Select("id").Where("shortcode = ?", shortcode).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		event.ShortURLID = record.ID
		return tx.Create(&event).Error
	})
}
