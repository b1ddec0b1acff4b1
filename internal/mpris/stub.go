//go:build !linux

package mpris

import "log/slog"

// Surface is a no-op on non-Linux platforms.
type Surface struct{}

// New returns a no-op surface on non-Linux platforms.
func New(_ StatusSource, _ Poster, _ Covers, _ *slog.Logger) (*Surface, error) {
	return &Surface{}, nil
}

// Close is a no-op on non-Linux platforms.
func (s *Surface) Close() error {
	return nil
}
