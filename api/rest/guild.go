package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nekomata/guildpoints/model"
	"github.com/nekomata/guildpoints/points"
	"gorm.io/gorm"
)

// GuildHandler handles guild REST endpoints.
type GuildHandler struct {
	db *gorm.DB
}

// NewGuildHandler creates a new GuildHandler.
func NewGuildHandler(db *gorm.DB) *GuildHandler {
	return &GuildHandler{db: db}
}

// List handles GET /api/guilds.
func (h *GuildHandler) List(c *gin.Context) {
	var guilds []model.Guild
	if err := h.db.Find(&guilds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "guilds": guilds})
}

// Get handles GET /api/guilds/:id. total_sp is recomputed from the
// current members on every read; it is never stored.
func (h *GuildHandler) Get(c *gin.Context) {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	var guild model.Guild
	if err := h.db.First(&guild, guildID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "guild not found"})
		return
	}

	var members []model.Player
	if err := h.db.Where("guild_id = ?", guildID).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}

	totalSP := 0
	for _, m := range members {
		totalSP += m.Points
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"guild":    guild,
		"members":  members,
		"total_sp": totalSP,
	})
}

type createGuildRequest struct {
	Name        string  `json:"name"       binding:"required"`
	PlayersID   []int64 `json:"players_id" binding:"required"`
	CountryCode *string `json:"country_code"`
}

// Create handles POST /api/guilds. A guild is founded by at least two
// distinct existing players; guild row and membership updates commit
// together or not at all.
func (h *GuildHandler) Create(c *gin.Context) {
	var req createGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	seen := map[int64]bool{}
	memberIDs := make([]int64, 0, len(req.PlayersID))
	for _, id := range req.PlayersID {
		if !seen[id] {
			seen[id] = true
			memberIDs = append(memberIDs, id)
		}
	}
	if len(memberIDs) < model.MinGuildMembers {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "guild requires 2 or more players"})
		return
	}

	var guild model.Guild
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range memberIDs {
			var player model.Player
			if err := tx.First(&player, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return points.ErrPlayerNotFound
				}
				return err
			}
		}

		guild = model.Guild{Name: req.Name, CountryCode: req.CountryCode}
		if err := tx.Create(&guild).Error; err != nil {
			return err
		}
		return tx.Model(&model.Player{}).Where("id IN ?", memberIDs).
			Update("guild_id", guild.ID).Error
	})

	switch {
	case txErr == nil:
		c.JSON(http.StatusCreated, gin.H{"success": true, "guild": guild})
	case errors.Is(txErr, points.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": txErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

type updateGuildRequest struct {
	Name        *string `json:"name"`
	CountryCode *string `json:"country_code"`
}

// Update handles PUT /api/guilds/:id. Only name and country_code are mutable.
func (h *GuildHandler) Update(c *gin.Context) {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	var req updateGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var guild model.Guild
	if err := h.db.First(&guild, guildID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "guild not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CountryCode != nil {
		updates["country_code"] = *req.CountryCode
	}
	if len(updates) > 0 {
		if err := h.db.Model(&guild).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "guild": guild})
}

// Delete handles DELETE /api/guilds/:id. Members are detached, never
// deleted; their items are untouched.
func (h *GuildHandler) Delete(c *gin.Context) {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		var guild model.Guild
		if err := tx.First(&guild, guildID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Player{}).Where("guild_id = ?", guildID).
			Update("guild_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&guild).Error
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "guild not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
