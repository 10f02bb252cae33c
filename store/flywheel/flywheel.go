package flywheel

import (
	"context"

	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type rewardStore struct {
	db *db.DB
}

// New new reward store
func New(db *db.DB) core.IRewardStore {
	return &rewardStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.RewardMarketState{}).AutoMigrate(core.RewardMarketState{}).Error; err != nil {
			return err
		}
		if err := db.Update().Model(core.AccountRewardIndex{}).AutoMigrate(core.AccountRewardIndex{}).Error; err != nil {
			return err
		}
		if err := db.Update().Model(core.RewardAccrual{}).AutoMigrate(core.RewardAccrual{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *rewardStore) SaveState(ctx context.Context, tx *db.DB, state *core.RewardMarketState) error {
	return tx.Update().Create(state).Error
}

func (s *rewardStore) UpdateState(ctx context.Context, tx *db.DB, state *core.RewardMarketState) error {
	version := state.Version
	state.Version++
	return tx.Update().Model(core.RewardMarketState{}).
		Where("asset_id=? and distributor=? and version=?", state.AssetID, state.Distributor, version).
		Update(state).Error
}

func (s *rewardStore) FindState(ctx context.Context, assetID, distributor string) (*core.RewardMarketState, error) {
	var state core.RewardMarketState
	if err := s.db.View().Where("asset_id=? and distributor=?", assetID, distributor).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *rewardStore) StatesByMarket(ctx context.Context, assetID string) ([]*core.RewardMarketState, error) {
	var states []*core.RewardMarketState
	if err := s.db.View().Where("asset_id=?", assetID).Order("id").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

func (s *rewardStore) FindAccountIndex(ctx context.Context, assetID, distributor, userID string, side core.RewardSide) (*core.AccountRewardIndex, error) {
	var index core.AccountRewardIndex
	err := s.db.View().
		Where("asset_id=? and distributor=? and user_id=? and side=?", assetID, distributor, userID, side).
		First(&index).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.AccountRewardIndex{
				AssetID:     assetID,
				Distributor: distributor,
				UserID:      userID,
				Side:        side,
				Index:       decimal.Zero,
			}, nil
		}
		return nil, err
	}

	return &index, nil
}

func (s *rewardStore) SaveAccountIndex(ctx context.Context, tx *db.DB, index *core.AccountRewardIndex) error {
	if index.ID == 0 {
		return tx.Update().Create(index).Error
	}
	return tx.Update().Model(core.AccountRewardIndex{}).Where("id=?", index.ID).Update(index).Error
}

func (s *rewardStore) AddAccrued(ctx context.Context, tx *db.DB, userID, distributor string, amount decimal.Decimal) error {
	var accrual core.RewardAccrual
	err := tx.Update().Where("user_id=? and distributor=?", userID, distributor).First(&accrual).Error
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}
		accrual = core.RewardAccrual{
			UserID:      userID,
			Distributor: distributor,
			Accrued:     amount,
		}
		return tx.Update().Create(&accrual).Error
	}

	accrual.Accrued = accrual.Accrued.Add(amount)
	return tx.Update().Model(core.RewardAccrual{}).Where("id=?", accrual.ID).Update("accrued", accrual.Accrued).Error
}

func (s *rewardStore) FindAccrued(ctx context.Context, userID, distributor string) (decimal.Decimal, error) {
	var accrual core.RewardAccrual
	err := s.db.View().Where("user_id=? and distributor=?", userID, distributor).First(&accrual).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return accrual.Accrued, nil
}
