package testutil

import (
	"context"
	"sync"

	"github.com/tonimelisma/musiccore/internal/capability"
)

// FakeNetworkMonitor implements capability.NetworkMonitor with a state a
// test can flip directly.
type FakeNetworkMonitor struct {
	mu   sync.Mutex
	Info capability.NetworkInfo
	subs []chan capability.NetworkInfo
}

func NewFakeNetworkMonitor() *FakeNetworkMonitor {
	return &FakeNetworkMonitor{Info: capability.NetworkInfo{Connected: true, Wifi: true}}
}

func (n *FakeNetworkMonitor) Set(info capability.NetworkInfo) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.Info = info

	for _, ch := range n.subs {
		select {
		case ch <- info:
		default:
		}
	}
}

func (n *FakeNetworkMonitor) GetNetworkInfo(ctx context.Context) (capability.NetworkInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.Info, nil
}

func (n *FakeNetworkMonitor) IsConnected(ctx context.Context) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.Info.Connected
}

func (n *FakeNetworkMonitor) IsWifi(ctx context.Context) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.Info.Wifi
}

func (n *FakeNetworkMonitor) IsMetered(ctx context.Context) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.Info.Metered
}

func (n *FakeNetworkMonitor) SubscribeChanges(ctx context.Context) (<-chan capability.NetworkInfo, error) {
	ch := make(chan capability.NetworkInfo, 1)

	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		close(ch)
	}()

	return ch, nil
}

var _ capability.NetworkMonitor = (*FakeNetworkMonitor)(nil)
