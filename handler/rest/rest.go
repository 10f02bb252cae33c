package rest

import (
	"errors"
	"net/http"

	"comptroller/core"
	"comptroller/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	marketStore core.IMarketStore,
	membershipStore core.IMembershipStore,
	eventStore core.IEventStore,
	rewardStore core.IRewardStore,
	token core.MarketToken,
	oracle core.IPriceOracleService,
	snapshotSrv core.ISnapshotService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/markets/all", allMarketsHandler(marketStore, membershipStore, token, oracle))
	router.Get("/accounts/{user}", accountHandler(membershipStore, snapshotSrv))
	router.Get("/accounts/{user}/rewards/{distributor}", rewardHandler(rewardStore))
	router.Get("/events", eventsHandler(eventStore))

	return router
}
