package domain

import "time"

// Setting represents a key-value configuration setting
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// setting keys used for the admission rollout policy
const (
	SettingRolloutMode       = "rollout_mode"
	SettingRolloutPercentage = "rollout_percentage"
	SettingRolloutShadow     = "rollout_shadow"
)
