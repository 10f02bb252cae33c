// Package mem holds in-memory collaborators used by the service test
// suites. Every type mirrors the error semantics of its production
// counterpart.
package mem

import (
	"context"
	"fmt"
	"sync"

	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Txer runs fn directly; writes are visible immediately and a fn
// error leaves the fakes as they were mutated, which the tests that
// assert rollback handle themselves.
type Txer struct{}

func (Txer) Tx(fn func(tx *db.DB) error) error {
	return fn(nil)
}

// MarketStore in-memory market store
type MarketStore struct {
	mu      sync.Mutex
	nextID  uint64
	markets map[string]*core.Market
}

func NewMarketStore() *MarketStore {
	return &MarketStore{markets: make(map[string]*core.Market)}
}

func (s *MarketStore) Save(ctx context.Context, tx *db.DB, market *core.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	market.ID = s.nextID
	s.markets[market.AssetID] = market
	return nil
}

func (s *MarketStore) Find(ctx context.Context, assetID string) (*core.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	market, ok := s.markets[assetID]
	if !ok {
		return nil, core.ErrMarketNotFound
	}
	clone := *market
	return &clone, nil
}

func (s *MarketStore) FindBySymbol(ctx context.Context, symbol string) (*core.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, market := range s.markets {
		if market.Symbol == symbol {
			clone := *market
			return &clone, nil
		}
	}
	return nil, core.ErrMarketNotFound
}

func (s *MarketStore) FindByCToken(ctx context.Context, ctokenAssetID string) (*core.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, market := range s.markets {
		if market.CTokenAssetID == ctokenAssetID {
			clone := *market
			return &clone, nil
		}
	}
	return nil, core.ErrMarketNotFound
}

func (s *MarketStore) All(ctx context.Context) ([]*core.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	markets := make([]*core.Market, 0, len(s.markets))
	for _, market := range s.markets {
		clone := *market
		markets = append(markets, &clone)
	}
	return markets, nil
}

func (s *MarketStore) AllAsMap(ctx context.Context) (map[string]*core.Market, error) {
	markets, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	maps := make(map[string]*core.Market, len(markets))
	for _, m := range markets {
		maps[m.AssetID] = m
	}
	return maps, nil
}

func (s *MarketStore) Update(ctx context.Context, tx *db.DB, market *core.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.markets[market.AssetID]
	if !ok || current.Version != market.Version {
		return core.ErrMarketNotFound
	}

	market.Version++
	clone := *market
	s.markets[market.AssetID] = &clone
	return nil
}

// MembershipStore in-memory membership store preserving entry order
type MembershipStore struct {
	mu      sync.Mutex
	nextID  uint64
	entries []*core.Membership
}

func NewMembershipStore() *MembershipStore {
	return &MembershipStore{}
}

func (s *MembershipStore) Create(ctx context.Context, tx *db.DB, userID, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.UserID == userID && e.AssetID == assetID {
			return fmt.Errorf("duplicate membership %s/%s", userID, assetID)
		}
	}

	s.nextID++
	s.entries = append(s.entries, &core.Membership{
		ID:      s.nextID,
		UserID:  userID,
		AssetID: assetID,
	})
	return nil
}

func (s *MembershipStore) Delete(ctx context.Context, tx *db.DB, userID, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.entries[:0]
	for _, e := range s.entries {
		if e.UserID != userID || e.AssetID != assetID {
			next = append(next, e)
		}
	}
	s.entries = next
	return nil
}

func (s *MembershipStore) List(ctx context.Context, userID string) ([]*core.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var members []*core.Membership
	for _, e := range s.entries {
		if e.UserID == userID {
			members = append(members, e)
		}
	}
	return members, nil
}

func (s *MembershipStore) IsMember(ctx context.Context, userID, assetID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.UserID == userID && e.AssetID == assetID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MembershipStore) Users(ctx context.Context, assetID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []string
	for _, e := range s.entries {
		if e.AssetID == assetID {
			users = append(users, e.UserID)
		}
	}
	return users, nil
}

func (s *MembershipStore) AllUsers(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var users []string
	for _, e := range s.entries {
		if !seen[e.UserID] {
			seen[e.UserID] = true
			users = append(users, e.UserID)
		}
	}
	return users, nil
}

// PoolStore in-memory pool store
type PoolStore struct {
	mu     sync.Mutex
	nextID uint64
	pools  map[uint64]*core.Pool
}

func NewPoolStore() *PoolStore {
	return &PoolStore{pools: make(map[uint64]*core.Pool)}
}

func (s *PoolStore) Save(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	pool.ID = s.nextID
	s.pools[pool.ID] = pool
	return nil
}

func (s *PoolStore) Find(ctx context.Context, id uint64) (*core.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, ok := s.pools[id]
	if !ok {
		return nil, fmt.Errorf("pool %d not found", id)
	}
	clone := *pool
	return &clone, nil
}

func (s *PoolStore) All(ctx context.Context) ([]*core.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pools := make([]*core.Pool, 0, len(s.pools))
	for _, pool := range s.pools {
		clone := *pool
		pools = append(pools, &clone)
	}
	return pools, nil
}

func (s *PoolStore) Update(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.pools[pool.ID]
	if !ok || current.Version != pool.Version {
		return fmt.Errorf("pool %d version conflict", pool.ID)
	}

	pool.Version++
	clone := *pool
	s.pools[pool.ID] = &clone
	return nil
}

// Oracle fixed price table; missing or non-positive prices surface as
// ErrInvalidPrice the way the production oracle does
type Oracle struct {
	mu     sync.Mutex
	Prices map[string]decimal.Decimal
}

func NewOracle() *Oracle {
	return &Oracle{Prices: make(map[string]decimal.Decimal)}
}

func (o *Oracle) SetPrice(assetID string, price decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Prices[assetID] = price
}

func (o *Oracle) UpdatePrice(ctx context.Context, market *core.Market) error {
	return nil
}

func (o *Oracle) GetUnderlyingPrice(ctx context.Context, market *core.Market) (decimal.Decimal, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	price, ok := o.Prices[market.AssetID]
	if !ok || !price.IsPositive() {
		return decimal.Zero, core.ErrInvalidPrice
	}
	return price, nil
}

func (o *Oracle) PullPriceTicker(ctx context.Context, symbol string) (*core.PriceTicker, error) {
	return nil, core.ErrInvalidPrice
}

// BlockService settable block counter
type BlockService struct {
	Block int64
}

func (s *BlockService) CurrentBlock(ctx context.Context) (int64, error) {
	return s.Block, nil
}

func (s *BlockService) GetBlockByTime(ctx context.Context, seconds int64) (int64, error) {
	return s.Block, nil
}

// EventStore in-memory event journal
type EventStore struct {
	mu     sync.Mutex
	Events []*core.Event
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Create(ctx context.Context, tx *db.DB, event *core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = uint64(len(s.Events) + 1)
	s.Events = append(s.Events, event)
	return nil
}

func (s *EventStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []*core.Event
	for _, e := range s.Events {
		if e.ID > fromID {
			events = append(events, e)
		}
		if len(events) >= limit {
			break
		}
	}
	return events, nil
}

func (s *EventStore) ListByUser(ctx context.Context, userID string, limit int) ([]*core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []*core.Event
	for _, e := range s.Events {
		if e.UserID == userID {
			events = append(events, e)
		}
		if len(events) >= limit {
			break
		}
	}
	return events, nil
}

// Kinds event kinds in creation order
func (s *EventStore) Kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// AllowListStore in-memory allow list
type AllowListStore struct {
	mu      sync.Mutex
	nextID  uint64
	entries map[string]*core.AllowListEntry
}

func NewAllowListStore() *AllowListStore {
	return &AllowListStore{entries: make(map[string]*core.AllowListEntry)}
}

func (s *AllowListStore) Save(ctx context.Context, tx *db.DB, entry *core.AllowListEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.entries[entry.UserID]; ok {
		entry.ID = current.ID
	} else {
		s.nextID++
		entry.ID = s.nextID
	}
	clone := *entry
	s.entries[entry.UserID] = &clone
	return nil
}

func (s *AllowListStore) Find(ctx context.Context, userID string) (*core.AllowListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[userID]
	if !ok {
		return &core.AllowListEntry{UserID: userID}, nil
	}
	clone := *entry
	return &clone, nil
}

func (s *AllowListStore) All(ctx context.Context) ([]*core.AllowListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]*core.AllowListEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		clone := *entry
		entries = append(entries, &clone)
	}
	return entries, nil
}

func (s *AllowListStore) Delete(ctx context.Context, tx *db.DB, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
	return nil
}
