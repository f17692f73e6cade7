package points

import (
	"errors"

	"github.com/nekomata/guildpoints/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrPlayerNotFound is returned when a referenced player id does not resolve.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrDuplicateItem is returned when the owner already holds an item
	// with the requested name.
	ErrDuplicateItem = errors.New("player already holds this item")
)

// Service applies the point-adjustment rule that fires when a player
// acquires an item.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new points Service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// AcquireItem creates an item for the given owner and settles points.
//
// The owner always gains the item's bonus. If the owner is in a guild,
// every other member already holding an item of the same name loses the
// bonus first; the owner is never penalized, even once the new item
// makes them a holder too. All point changes and the item row commit in
// one transaction, so a failed acquisition leaves no trace.
func (svc *Service) AcquireItem(name string, ownerID int64, bonus int) (*model.Item, error) {
	var item *model.Item

	err := svc.db.Transaction(func(tx *gorm.DB) error {
		var owner model.Player
		if err := tx.First(&owner, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}

		// The (name, owner_id) pair is the item's identity; catch the
		// duplicate here so the caller gets a clean error instead of a
		// driver-level unique violation after points have moved.
		var existing model.Item
		err := tx.Where("name = ? AND owner_id = ?", name, ownerID).First(&existing).Error
		if err == nil {
			return ErrDuplicateItem
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if owner.GuildID != nil {
			if err := svc.penalizeGuildHolders(tx, &owner, name, bonus); err != nil {
				return err
			}
		}

		if err := tx.Model(&model.Player{}).Where("id = ?", owner.ID).
			Update("points", gorm.Expr("points + ?", bonus)).Error; err != nil {
			return err
		}

		item = &model.Item{Name: name, OwnerID: ownerID, Bonus: bonus}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// penalizeGuildHolders decrements points for every other member of the
// owner's guild who already holds an item with the given name.
func (svc *Service) penalizeGuildHolders(tx *gorm.DB, owner *model.Player, name string, bonus int) error {
	var mates []model.Player
	if err := tx.Where("guild_id = ? AND id <> ?", *owner.GuildID, owner.ID).
		Find(&mates).Error; err != nil {
		return err
	}
	if len(mates) == 0 {
		return nil
	}

	mateIDs := make([]int64, 0, len(mates))
	for _, m := range mates {
		mateIDs = append(mateIDs, m.ID)
	}

	var held []model.Item
	if err := tx.Where("name = ? AND owner_id IN ?", name, mateIDs).
		Find(&held).Error; err != nil {
		return err
	}

	for _, h := range held {
		if err := tx.Model(&model.Player{}).Where("id = ?", h.OwnerID).
			Update("points", gorm.Expr("points - ?", bonus)).Error; err != nil {
			return err
		}
	}

	if len(held) > 0 {
		svc.logger.Info("guild duplicate penalty",
			zap.String("item", name),
			zap.Int64("owner_id", owner.ID),
			zap.Int64("guild_id", *owner.GuildID),
			zap.Int("holders", len(held)),
			zap.Int("bonus", bonus),
		)
	}
	return nil
}
