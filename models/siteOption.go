package models

import "time"

// SiteOption is the host's key/value options table; environment signals
// (site url, environment type, duplicate-site lock) live here.
type SiteOption struct {
	ID          int       `gorm:"primary_key" json:"id"`
	OptionKey   string    `gorm:"size:191;uniqueIndex;not null" json:"option_key"`
	OptionValue string    `gorm:"type:text" json:"option_value"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Option keys the diagnostics store reads.
const (
	OptionKeySiteURL         = "site_url"
	OptionKeyRegisteredURL   = "subscriptions_site_url"
	OptionKeyEnvironmentType = "environment_type"
)
