package config

import (
	"os"
	"strings"
)

// EnvironmentSignalChecksDisabled turns off the duplicate-site and
// environment-type checks. Useful on hosts where site options are not
// maintained and the checks would only produce noise.
//
// Set via env:
// - DIAG_DISABLE_ENV_SIGNALS=true
func EnvironmentSignalChecksDisabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DIAG_DISABLE_ENV_SIGNALS")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// SiteOptionCacheDisabled bypasses the Redis read-through cache for site
// options and always reads the database.
//
// Set via env:
// - DIAG_SITE_OPTION_CACHE_DISABLED=true
func SiteOptionCacheDisabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DIAG_SITE_OPTION_CACHE_DISABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
