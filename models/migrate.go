package models

import (
	"bitbucket.org/mmdatafocus/subscription_diagnostics/config"
	"bitbucket.org/mmdatafocus/subscription_diagnostics/utils"
)

// MigrateTable creates/updates the record tables. The diagnostics engine is
// read-only; migration exists for hosts that keep these tables locally and
// for integration test setups.
func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&Subscription{},
		&SubscriptionMeta{},
		&Order{},
		&Note{},
		&ScheduledJob{},
		&SiteOption{},
	)
	utils.ErrorPanic(err)
}
