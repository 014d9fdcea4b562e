package pijul

import (
	"context"
	"sync"
)

// FakeRepository is an in-memory Repository. The zero value lists no channels.
type FakeRepository struct {
	Channels  []Channel
	SwitchErr error

	mu       sync.Mutex
	switched []string
}

func (f *FakeRepository) ListChannels(context.Context) []Channel {
	return CloneChannels(f.Channels)
}

func (f *FakeRepository) SwitchChannel(_ context.Context, name string) error {
	if f.SwitchErr != nil {
		return f.SwitchErr
	}
	f.mu.Lock()
	f.switched = append(f.switched, name)
	f.mu.Unlock()
	return nil
}

// Switched returns the channel names passed to SwitchChannel, in call order.
func (f *FakeRepository) Switched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.switched...)
}
