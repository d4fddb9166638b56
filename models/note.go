package models

import "time"

// Note is a free-text audit entry attached to a subscription or an order.
// AuthorType distinguishes gateway/system notes from human ones; the
// diagnostics keyword rules treat them alike.
type Note struct {
	ID         int            `gorm:"primary_key" json:"id"`
	EntityType NoteEntityType `gorm:"type:enum('subscription','order');index:idx_notes_entity;not null" json:"entity_type"`
	EntityId   int            `gorm:"index:idx_notes_entity;not null" json:"entity_id"`
	AuthorType string         `gorm:"size:50;default:'system'" json:"author_type"`
	Content    string         `gorm:"type:text" json:"content"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}
