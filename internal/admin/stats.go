package admin

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/nodego-run/nodego/internal/rterrors"
)

// Sources is the read-only view of runtime state the admin surface reports
// on. nodego.Runtime implements it by reading internal/workers.Timers,
// internal/workers.Stats, and the completion channel's current length.
type Sources interface {
	ActiveTimers() int
	ChannelDepth() int
	ConnectionsAccepted() int64
}

// statsQuery is decoded from /debug/stats's query string with gorilla/schema,
// mirroring the original QueryHandler GET-parameter decode path. format is
// the only parameter this core recognizes; unknown parameters are ignored by
// the decoder's IgnoreUnknownKeys setting below.
type statsQuery struct {
	Format string `schema:"format"`
}

var statsDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type statsSnapshot struct {
	ActiveTimers         int   `json:"active_timers"`
	CompletionChannelLen int   `json:"completion_channel_depth"`
	ConnectionsAccepted  int64 `json:"connections_accepted"`
}

func statsHandler(src Sources) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q statsQuery
		if err := statsDecoder.Decode(&q, r.URL.Query()); err != nil {
			rterrors.WriteJSON(w, rterrors.Wrap(rterrors.CodeInvalidArgument, "invalid query parameters", err))
			return
		}

		snap := statsSnapshot{
			ActiveTimers:         src.ActiveTimers(),
			CompletionChannelLen: src.ChannelDepth(),
			ConnectionsAccepted:  src.ConnectionsAccepted(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}
}
