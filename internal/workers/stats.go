package workers

import "sync/atomic"

// Stats holds the counters the admin surface's /debug/stats endpoint
// reports on. It lives in this package, rather than
// internal/admin, so that workers never import the admin package: the
// dependency runs the other way, admin reads these counters through the
// nodego.Runtime that owns both.
type Stats struct {
	ConnectionsAccepted atomic.Int64
}
