package mem

import (
	"context"
	"fmt"
	"sync"

	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// RewardStore in-memory flywheel state
type RewardStore struct {
	mu      sync.Mutex
	nextID  uint64
	states  []*core.RewardMarketState
	indices map[string]*core.AccountRewardIndex
	accrued map[string]decimal.Decimal
}

func NewRewardStore() *RewardStore {
	return &RewardStore{
		indices: make(map[string]*core.AccountRewardIndex),
		accrued: make(map[string]decimal.Decimal),
	}
}

func stateKey(assetID, distributor string) string {
	return assetID + "/" + distributor
}

func indexKey(assetID, distributor, userID string, side core.RewardSide) string {
	return fmt.Sprintf("%s/%s/%s/%s", assetID, distributor, userID, side)
}

func (s *RewardStore) SaveState(ctx context.Context, tx *db.DB, state *core.RewardMarketState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.states {
		if existing.AssetID == state.AssetID && existing.Distributor == state.Distributor {
			return fmt.Errorf("duplicate state %s", stateKey(state.AssetID, state.Distributor))
		}
	}

	s.nextID++
	state.ID = s.nextID
	clone := *state
	s.states = append(s.states, &clone)
	return nil
}

func (s *RewardStore) UpdateState(ctx context.Context, tx *db.DB, state *core.RewardMarketState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.states {
		if existing.AssetID == state.AssetID && existing.Distributor == state.Distributor {
			if existing.Version != state.Version {
				return fmt.Errorf("state %s version conflict", stateKey(state.AssetID, state.Distributor))
			}
			state.Version++
			clone := *state
			s.states[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("state %s not found", stateKey(state.AssetID, state.Distributor))
}

func (s *RewardStore) FindState(ctx context.Context, assetID, distributor string) (*core.RewardMarketState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, state := range s.states {
		if state.AssetID == assetID && state.Distributor == distributor {
			clone := *state
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("state %s not found", stateKey(assetID, distributor))
}

func (s *RewardStore) StatesByMarket(ctx context.Context, assetID string) ([]*core.RewardMarketState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var states []*core.RewardMarketState
	for _, state := range s.states {
		if state.AssetID == assetID {
			clone := *state
			states = append(states, &clone)
		}
	}
	return states, nil
}

func (s *RewardStore) FindAccountIndex(ctx context.Context, assetID, distributor, userID string, side core.RewardSide) (*core.AccountRewardIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index, ok := s.indices[indexKey(assetID, distributor, userID, side)]; ok {
		clone := *index
		return &clone, nil
	}

	return &core.AccountRewardIndex{
		AssetID:     assetID,
		Distributor: distributor,
		UserID:      userID,
		Side:        side,
		Index:       decimal.Zero,
	}, nil
}

func (s *RewardStore) SaveAccountIndex(ctx context.Context, tx *db.DB, index *core.AccountRewardIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index.ID == 0 {
		s.nextID++
		index.ID = s.nextID
	}
	clone := *index
	s.indices[indexKey(index.AssetID, index.Distributor, index.UserID, index.Side)] = &clone
	return nil
}

func (s *RewardStore) AddAccrued(ctx context.Context, tx *db.DB, userID, distributor string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID + "/" + distributor
	s.accrued[key] = s.accrued[key].Add(amount)
	return nil
}

func (s *RewardStore) FindAccrued(ctx context.Context, userID, distributor string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accrued[userID+"/"+distributor], nil
}
