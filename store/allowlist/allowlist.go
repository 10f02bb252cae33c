package allowlist

import (
	"context"

	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type allowListStore struct {
	db *db.DB
}

// New new allow list store
func New(db *db.DB) core.IAllowListStore {
	return &allowListStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.AllowListEntry{})
		if err := tx.AutoMigrate(core.AllowListEntry{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *allowListStore) Save(ctx context.Context, tx *db.DB, entry *core.AllowListEntry) error {
	if entry.ID == 0 {
		return tx.Update().Create(entry).Error
	}

	version := entry.Version
	entry.Version++
	return tx.Update().Model(core.AllowListEntry{}).Where("id=? and version=?", entry.ID, version).Update(entry).Error
}

func (s *allowListStore) Find(ctx context.Context, userID string) (*core.AllowListEntry, error) {
	var entry core.AllowListEntry
	err := s.db.View().Where("user_id=?", userID).First(&entry).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.AllowListEntry{UserID: userID}, nil
		}
		return nil, err
	}

	return &entry, nil
}

func (s *allowListStore) All(ctx context.Context) ([]*core.AllowListEntry, error) {
	var entries []*core.AllowListEntry
	if err := s.db.View().Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *allowListStore) Delete(ctx context.Context, tx *db.DB, userID string) error {
	return tx.Update().Where("user_id=?", userID).Delete(core.AllowListEntry{}).Error
}
