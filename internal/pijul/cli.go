package pijul

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/atomicstack/pijul-channel-picker/internal/logging"
	"github.com/atomicstack/pijul-channel-picker/internal/logging/events"
)

const defaultBinary = "pijul"

// ErrEmptyChannel is returned when a switch is requested without a name.
var ErrEmptyChannel = errors.New("channel name is empty")

// CLIRepository shells out to the pijul binary inside Dir.
type CLIRepository struct {
	Dir    string
	Binary string
}

// NewCLIRepository returns a repository rooted at dir. An empty binary uses
// "pijul" from PATH.
func NewCLIRepository(dir, binary string) *CLIRepository {
	return &CLIRepository{Dir: dir, Binary: binary}
}

// ListChannels runs `pijul channel list`. Any failure is logged and yields an
// empty list.
func (r *CLIRepository) ListChannels(ctx context.Context) []Channel {
	out, err := r.output(ctx, "channel", "list")
	if err != nil {
		logging.Error(fmt.Errorf("list channels: %w", err))
		events.Source.Failed(r.Dir, err)
		return []Channel{}
	}
	channels := ParseChannelList(out)
	events.Source.Listed(r.Dir, len(channels))
	return channels
}

// SwitchChannel runs `pijul channel switch <name>`.
func (r *CLIRepository) SwitchChannel(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyChannel
	}
	events.Source.Switch(r.Dir, name)
	if _, err := r.output(ctx, "channel", "switch", name); err != nil {
		return fmt.Errorf("switch to channel %s: %w", name, err)
	}
	return nil
}

func (r *CLIRepository) output(ctx context.Context, args ...string) (string, error) {
	cmd := r.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s %s: %w: %s", r.binary(), strings.Join(args, " "), err, msg)
		}
		return "", fmt.Errorf("%s %s: %w", r.binary(), strings.Join(args, " "), err)
	}
	return stdout.String(), nil
}

func (r *CLIRepository) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.binary(), args...)
	if dir := strings.TrimSpace(r.Dir); dir != "" {
		cmd.Dir = dir
	}
	return cmd
}

func (r *CLIRepository) binary() string {
	if bin := strings.TrimSpace(r.Binary); bin != "" {
		return bin
	}
	return defaultBinary
}
