package pijul

import (
	"bufio"
	"context"
	"strings"
)

// Channel is a single pijul channel as reported by `pijul channel list`.
type Channel struct {
	Name    string
	Current bool
}

// Repository exposes the channel operations the picker needs.
type Repository interface {
	ListChannels(ctx context.Context) []Channel
	SwitchChannel(ctx context.Context, name string) error
}

const currentMarker = "*"

// ParseChannelList converts `pijul channel list` output into channels. The
// active channel is prefixed with "* "; blank lines and a marker without a
// name are ignored.
func ParseChannelList(output string) []Channel {
	scanner := bufio.NewScanner(strings.NewReader(output))
	channels := []Channel{}
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		current := false
		if rest, ok := strings.CutPrefix(name, currentMarker); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			current = true
			name = strings.TrimSpace(rest)
		}
		if name == "" {
			continue
		}
		channels = append(channels, Channel{Name: name, Current: current})
	}
	return channels
}

// CloneChannels produces a shallow copy of the provided channels.
func CloneChannels(channels []Channel) []Channel {
	dup := make([]Channel, len(channels))
	copy(dup, channels)
	return dup
}
