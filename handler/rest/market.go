package rest

import (
	"net/http"

	"comptroller/core"
	"comptroller/handler/render"
	"comptroller/handler/views"

	"github.com/shopspring/decimal"
)

func allMarketsHandler(marketStore core.IMarketStore, membershipStore core.IMembershipStore, token core.MarketToken, oracle core.IPriceOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		markets, err := marketStore.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		marketViews := make([]*views.Market, 0, len(markets))
		for _, m := range markets {
			marketViews = append(marketViews, getMarketView(r, m, membershipStore, token, oracle))
		}

		render.JSON(w, marketViews)
	}
}

func getMarketView(r *http.Request, market *core.Market, membershipStore core.IMembershipStore, token core.MarketToken, oracle core.IPriceOracleService) *views.Market {
	ctx := r.Context()

	price, err := oracle.GetUnderlyingPrice(ctx, market)
	if err != nil {
		price = decimal.Zero
	}

	totalSupply, err := token.TotalSupply(ctx, market.AssetID)
	if err != nil {
		totalSupply = decimal.Zero
	}

	totalBorrows, err := token.TotalBorrows(ctx, market.AssetID)
	if err != nil {
		totalBorrows = decimal.Zero
	}

	users, err := membershipStore.Users(ctx, market.AssetID)
	if err != nil {
		users = nil
	}

	return &views.Market{
		Market:       *market,
		Price:        price,
		TotalSupply:  totalSupply,
		TotalBorrows: totalBorrows,
		Members:      len(users),
	}
}
