package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekomata/guildpoints/model"
	"github.com/nekomata/guildpoints/points"
	"gorm.io/gorm"
)

// ItemHandler handles item REST endpoints. Items have no get/update/
// delete routes: identity is per-owner and rows only disappear when the
// owner does.
type ItemHandler struct {
	db  *gorm.DB
	svc *points.Service
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(db *gorm.DB, svc *points.Service) *ItemHandler {
	return &ItemHandler{db: db, svc: svc}
}

// List handles GET /api/items.
func (h *ItemHandler) List(c *gin.Context) {
	var items []model.Item
	if err := h.db.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

type acquireItemRequest struct {
	Name    string `json:"name"     binding:"required,max=250"`
	OwnerID int64  `json:"owner_id" binding:"required"`
	// Pointer so a zero or negative bonus still passes the presence check.
	Bonus *int `json:"bonus" binding:"required"`
}

// Create handles POST /api/items. Acquisition runs the point rule:
// owner gains the bonus, guildmates already holding the name lose it.
func (h *ItemHandler) Create(c *gin.Context) {
	var req acquireItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	item, err := h.svc.AcquireItem(req.Name, req.OwnerID, *req.Bonus)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
	case errors.Is(err, points.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, points.ErrDuplicateItem):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case isUniqueViolation(err):
		// Concurrent acquisition slipped past the pre-check; the insert
		// hit the composite primary key instead.
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": points.ErrDuplicateItem.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
