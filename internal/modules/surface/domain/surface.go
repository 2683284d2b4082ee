package domain

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"
)

type Capability string

const (
	// CapabilityDisplay surfaces render the title, author and total.
	CapabilityDisplay Capability = "display"
	// CapabilityCover surfaces also want the cover bytes.
	CapabilityCover Capability = "cover"
	// CapabilityClock surfaces run their own live clock off the timer start time.
	CapabilityClock Capability = "clock"
)

var (
	ErrSurfaceDisabled   = errors.New("surface is disabled")
	ErrChecksumMismatch  = errors.New("surface checksum mismatch")
	ErrCapabilityMissing = errors.New("surface capability missing")
	ErrSurfaceTimeout    = errors.New("surface timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("surface name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("surface %s: version is required", m.Name)
	}
	if m.Binary == "" {
		return fmt.Errorf("surface %s: binary path is required", m.Name)
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("surface %s: sha256 must be lowercase 64-char hex", m.Name)
	}
	if !m.HasCapability(CapabilityDisplay) {
		return fmt.Errorf("surface %s: %w: %s", m.Name, ErrCapabilityMissing, CapabilityDisplay)
	}
	seen := map[Capability]struct{}{}
	for _, c := range m.Capabilities {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("surface %s: duplicate capability: %s", m.Name, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilityDisplay, CapabilityCover, CapabilityClock:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(c Capability) bool {
	return slices.Contains(m.Capabilities, c)
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}

// Snapshot is what a display surface is asked to show.
type Snapshot struct {
	BookID           string
	BookTitle        string
	BookAuthor       string
	TotalReadingTime float64
	CoverImage       []byte
	IsTimerRunning   bool
	TimerStartTime   time.Time
	StreakDays       int
	PublishedAt      time.Time
}

func (s Snapshot) Cleared() bool {
	return s.BookID == ""
}

// For trims the snapshot down to what the manifest asked for.
func (s Snapshot) For(m Manifest) Snapshot {
	out := s
	if !m.HasCapability(CapabilityCover) {
		out.CoverImage = nil
	}
	if !m.HasCapability(CapabilityClock) {
		out.IsTimerRunning = false
		out.TimerStartTime = time.Time{}
	}
	return out
}
