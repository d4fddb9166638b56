package models

import "time"

// ScheduledJob mirrors the host's deferred-work table. Args is a serialized
// blob (JSON on newer hosts, a serialized array on legacy ones); matching a
// subscription inside it is isolated to JobArgsNeedles in diagStore.go.
type ScheduledJob struct {
	ID            int                `gorm:"primary_key" json:"id"`
	Hook          string             `gorm:"size:191;index;not null" json:"hook"`
	Status        ScheduledJobStatus `gorm:"type:enum('pending','in-progress','complete','failed','canceled');default:'pending';index" json:"status"`
	Args          string             `gorm:"type:text" json:"args"`
	ScheduledAt   *time.Time         `gorm:"index;default:null" json:"scheduled_at"`
	LastAttemptAt *time.Time         `gorm:"default:null" json:"last_attempt_at"`
	RetryCount    int                `gorm:"default:0" json:"retry_count"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
}
