package oracle

import (
	"context"
	"fmt"
	"time"

	"comptroller/core"
	"comptroller/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type cachedPrice struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// PriceService oracle price service. Prices are pulled from the feed
// endpoint, cached briefly, and rejected once stale; a zero price
// always surfaces as ErrInvalidPrice.
type PriceService struct {
	endpoint string
	maxAge   time.Duration
	cache    gcache.Cache
}

// New new oracle price service
func New(endpoint string, maxAge time.Duration) *PriceService {
	return &PriceService{
		endpoint: endpoint,
		maxAge:   maxAge,
		cache:    gcache.New(512).LRU().Build(),
	}
}

func (s *PriceService) UpdatePrice(ctx context.Context, market *core.Market) error {
	if v, err := s.cache.Get(market.AssetID); err == nil {
		if p, ok := v.(*cachedPrice); ok && time.Since(p.fetchedAt) < s.maxAge {
			return nil
		}
	}

	ticker, err := s.PullPriceTicker(ctx, market.Symbol)
	if err != nil {
		return err
	}

	return s.cache.Set(market.AssetID, &cachedPrice{
		price:     ticker.Price,
		fetchedAt: time.Now(),
	})
}

func (s *PriceService) GetUnderlyingPrice(ctx context.Context, market *core.Market) (decimal.Decimal, error) {
	v, err := s.cache.Get(market.AssetID)
	if err != nil {
		return decimal.Zero, core.ErrInvalidPrice
	}

	p, ok := v.(*cachedPrice)
	if !ok || time.Since(p.fetchedAt) >= s.maxAge || !p.price.IsPositive() {
		return decimal.Zero, core.ErrInvalidPrice
	}

	return p.price, nil
}

func (s *PriceService) PullPriceTicker(ctx context.Context, symbol string) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/tickers/%s", s.endpoint, symbol)
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}
