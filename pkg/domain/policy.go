package domain

import (
	"fmt"
	"hash/fnv"
	"strconv"
)

// RolloutMode is the global admission policy mode
type RolloutMode string

// rollout modes
const (
	RolloutOff          RolloutMode = "off"
	RolloutEmergencyOff RolloutMode = "emergency_off"
	RolloutCanary       RolloutMode = "canary"
	RolloutOn           RolloutMode = "on"
)

// RolloutPolicy controls which feeds may trigger analysis jobs
type RolloutPolicy struct {
	Mode       RolloutMode `json:"mode"`
	Percentage int         `json:"percentage"`
	Shadow     bool        `json:"shadow"`
}

// Validate checks mode and percentage
func (p RolloutPolicy) Validate() error {
	switch p.Mode {
	case RolloutOff, RolloutEmergencyOff, RolloutOn:
	case RolloutCanary:
		if p.Percentage < 0 || p.Percentage > 100 {
			return fmt.Errorf("canary percentage %d out of 0..100: %w", p.Percentage, ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("unknown rollout mode %q: %w", p.Mode, ErrInvalidArgument)
	}
	return nil
}

// Eligible reports whether the feed passes the rollout gate.
// Canary bucket is FNV-1a 32-bit of the feed id in decimal ASCII, modulo 100,
// so the same feed lands in the same bucket across restarts and implementations.
func (p RolloutPolicy) Eligible(feedID int64) bool {
	switch p.Mode {
	case RolloutOn:
		return true
	case RolloutCanary:
		return RolloutBucket(feedID) < uint32(max(p.Percentage, 0)) //nolint:gosec // percentage validated to 0..100
	default:
		return false
	}
}

// RolloutBucket returns the 0..99 canary bucket of a feed
func RolloutBucket(feedID int64) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(feedID, 10)))
	return h.Sum32() % 100
}
