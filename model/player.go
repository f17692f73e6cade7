package model

import "time"

// MaxStrLen caps nickname and item name columns.
const MaxStrLen = 250

// Player is a registered player with a running point total.
// Email is fixed at creation; update requests attempting to change it
// are rejected by the API layer before any mutation.
type Player struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Nickname string `gorm:"size:250;not null" json:"nickname"`
	Email    string `gorm:"not null" json:"email"`
	// Points may go negative after repeated in-guild penalties; no clamp.
	Points    int       `gorm:"not null" json:"points"`
	GuildID   *int64    `gorm:"index:idx_player_guild" json:"guild_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
