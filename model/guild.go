package model

import "time"

// MinGuildMembers is the member count required to found a guild.
// Enforced at creation only; membership may later shrink below it
// through player reassignment or deletion.
const MinGuildMembers = 2

// Guild is a named group of players. Membership lives on the player
// side (player.guild_id); deleting a guild detaches its players but
// never deletes them.
type Guild struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	CountryCode *string   `gorm:"size:8" json:"country_code"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
