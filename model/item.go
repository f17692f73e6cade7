package model

import "time"

// Item is a named possession of exactly one player. Identity is the
// (name, owner_id) pair: different players may hold items of the same
// name, one player may not hold the same name twice. Rows are created
// only on acquisition and removed only when the owner is deleted.
type Item struct {
	Name      string    `gorm:"primaryKey;size:250" json:"name"`
	OwnerID   int64     `gorm:"primaryKey;index:idx_item_owner" json:"owner_id"`
	Bonus     int       `gorm:"not null" json:"bonus"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
