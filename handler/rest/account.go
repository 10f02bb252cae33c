package rest

import (
	"net/http"

	"comptroller/core"
	"comptroller/handler/render"
	"comptroller/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// accountHandler reports the account's liquidity snapshot. The
// optional query params turn the call into a hypothetical query:
//
//	?asset=xxx&redeem_tokens=10&borrow_amount=0&weighting=threshold
func accountHandler(membershipStore core.IMembershipStore, snapshotSrv core.ISnapshotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := chi.URLParam(r, "user")

		opts := core.SnapshotOpts{
			PerturbedAsset: r.URL.Query().Get("asset"),
			RedeemTokens:   decimal.NewFromFloat(cast.ToFloat64(r.URL.Query().Get("redeem_tokens"))),
			BorrowAmount:   decimal.NewFromFloat(cast.ToFloat64(r.URL.Query().Get("borrow_amount"))),
		}
		if r.URL.Query().Get("weighting") == "threshold" {
			opts.Weighting = core.WeightLiquidationThreshold
		}

		snapshot, err := snapshotSrv.ComputeSnapshot(ctx, userID, opts)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		members, err := membershipStore.List(ctx, userID)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		assets := make([]string, 0, len(members))
		for _, m := range members {
			assets = append(assets, m.AssetID)
		}

		render.JSON(w, &views.Account{
			UserID:    userID,
			Markets:   assets,
			Liquidity: snapshot,
		})
	}
}

func rewardHandler(rewardStore core.IRewardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := chi.URLParam(r, "user")
		distributor := chi.URLParam(r, "distributor")

		accrued, err := rewardStore.FindAccrued(ctx, userID, distributor)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, &views.Reward{
			UserID:      userID,
			Distributor: distributor,
			Accrued:     accrued,
		})
	}
}
