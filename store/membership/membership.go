package membership

import (
	"context"

	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type membershipStore struct {
	db *db.DB
}

// New new membership store
func New(db *db.DB) core.IMembershipStore {
	return &membershipStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Membership{})
		if err := tx.AutoMigrate(core.Membership{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *membershipStore) Create(ctx context.Context, tx *db.DB, userID, assetID string) error {
	member := core.Membership{
		UserID:  userID,
		AssetID: assetID,
	}
	return tx.Update().Create(&member).Error
}

func (s *membershipStore) Delete(ctx context.Context, tx *db.DB, userID, assetID string) error {
	return tx.Update().Where("user_id=? and asset_id=?", userID, assetID).Delete(core.Membership{}).Error
}

func (s *membershipStore) List(ctx context.Context, userID string) ([]*core.Membership, error) {
	var members []*core.Membership
	if err := s.db.View().Where("user_id=?", userID).Order("id").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (s *membershipStore) IsMember(ctx context.Context, userID, assetID string) (bool, error) {
	var member core.Membership
	err := s.db.View().Where("user_id=? and asset_id=?", userID, assetID).First(&member).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return false, nil
		}
		return false, err
	}

	return member.ID > 0, nil
}

func (s *membershipStore) Users(ctx context.Context, assetID string) ([]string, error) {
	var users []string
	if err := s.db.View().Model(core.Membership{}).Where("asset_id=?", assetID).Pluck("user_id", &users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *membershipStore) AllUsers(ctx context.Context) ([]string, error) {
	var users []string
	if err := s.db.View().Model(core.Membership{}).Group("user_id").Pluck("user_id", &users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
