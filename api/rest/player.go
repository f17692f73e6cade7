package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nekomata/guildpoints/model"
	"gorm.io/gorm"
)

// PlayerHandler handles player REST endpoints.
type PlayerHandler struct {
	db *gorm.DB
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(db *gorm.DB) *PlayerHandler {
	return &PlayerHandler{db: db}
}

// List handles GET /api/players.
func (h *PlayerHandler) List(c *gin.Context) {
	var players []model.Player
	if err := h.db.Find(&players).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "players": players})
}

// Get handles GET /api/players/:id.
func (h *PlayerHandler) Get(c *gin.Context) {
	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	var player model.Player
	if err := h.db.First(&player, playerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "player not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "player": player})
}

type createPlayerRequest struct {
	Name  string `json:"name"  binding:"required,max=250"`
	Email string `json:"email" binding:"required"`
	// Omitted points default to 0.
	Points int `json:"points"`
}

// Create handles POST /api/players.
func (h *PlayerHandler) Create(c *gin.Context) {
	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	player := &model.Player{Nickname: req.Name, Email: req.Email, Points: req.Points}
	if err := h.db.Create(player).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "player": player})
}

type updatePlayerRequest struct {
	Name    *string `json:"name"   binding:"omitempty,max=250"`
	Email   *string `json:"email"`
	Points  *int    `json:"points"`
	GuildID *int64  `json:"guild_id"`
}

var (
	errGuildMissing   = errors.New("guild not found")
	errEmailImmutable = errors.New("email cannot be changed")
)

// Update handles PUT /api/players/:id. Nickname, points, and guild
// membership may change; the email is immutable and any attempt to
// change it rejects the whole request before other fields are applied.
func (h *PlayerHandler) Update(c *gin.Context) {
	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	var req updatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var player model.Player
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&player, playerID).Error; err != nil {
			return err
		}

		if req.Email != nil && *req.Email != player.Email {
			return errEmailImmutable
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["nickname"] = *req.Name
		}
		if req.Points != nil {
			updates["points"] = *req.Points
		}
		if req.GuildID != nil {
			var guild model.Guild
			if err := tx.First(&guild, *req.GuildID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errGuildMissing
				}
				return err
			}
			updates["guild_id"] = *req.GuildID
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&player).Updates(updates).Error
	})

	switch {
	case txErr == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "player": player})
	case errors.Is(txErr, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "player not found"})
	case errors.Is(txErr, errEmailImmutable):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errEmailImmutable.Error()})
	case errors.Is(txErr, errGuildMissing):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": errGuildMissing.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

// Delete handles DELETE /api/players/:id. The player's items go with
// the player, in the same transaction.
func (h *PlayerHandler) Delete(c *gin.Context) {
	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		var player model.Player
		if err := tx.First(&player, playerID).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", playerID).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&player).Error
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "player not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
