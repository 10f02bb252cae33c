package rest

import (
	"net/http"

	"comptroller/core"
	"comptroller/handler/render"

	"github.com/spf13/cast"
)

func eventsHandler(eventStore core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		fromID := cast.ToUint64(r.URL.Query().Get("from"))
		limit := cast.ToInt(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		if user := r.URL.Query().Get("user"); user != "" {
			events, err := eventStore.ListByUser(ctx, user, limit)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			render.JSON(w, events)
			return
		}

		events, err := eventStore.List(ctx, fromID, limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}
		render.JSON(w, events)
	}
}
