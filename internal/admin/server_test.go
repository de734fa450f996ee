package admin

import (
	"net/http"
	"testing"

	"github.com/nodego-run/nodego/testutil"
)

type fakeSources struct {
	timers, channel int
	conns           int64
}

func (f fakeSources) ActiveTimers() int          { return f.timers }
func (f fakeSources) ChannelDepth() int          { return f.channel }
func (f fakeSources) ConnectionsAccepted() int64 { return f.conns }

func TestStatsHandler_JSON(t *testing.T) {
	src := fakeSources{timers: 3, channel: 1, conns: 42}
	handler := statsHandler(src)

	req, w := testutil.NewRequest().GET("/debug/stats").Build()
	handler.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertHeader(t, w, "Content-Type", "application/json")

	var snap statsSnapshot
	testutil.DecodeJSON(t, w, &snap)

	if snap.ActiveTimers != 3 || snap.CompletionChannelLen != 1 || snap.ConnectionsAccepted != 42 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestStatsHandler_IgnoresUnknownQueryParams(t *testing.T) {
	src := fakeSources{}
	handler := statsHandler(src)

	req, w := testutil.NewRequest().GET("/debug/stats").WithQuery("format", "json").WithQuery("bogus", "1").Build()
	handler.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
}
