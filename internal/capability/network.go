package capability

import "context"

// NetworkInfo is a snapshot of host connectivity.
type NetworkInfo struct {
	Connected bool
	Wifi      bool
	Metered   bool
}

// NetworkMonitor lets bandwidth-sensitive operations (downloads,
// enrichment with require_wifi) observe connectivity without polling an
// OS API directly.
//
// Error kinds: NotAvailable.
type NetworkMonitor interface {
	GetNetworkInfo(ctx context.Context) (NetworkInfo, error)
	IsConnected(ctx context.Context) bool
	IsWifi(ctx context.Context) bool
	IsMetered(ctx context.Context) bool
	// SubscribeChanges returns a channel of connectivity transitions. The
	// channel is closed when ctx is done; callers must drain it.
	SubscribeChanges(ctx context.Context) (<-chan NetworkInfo, error)
}
