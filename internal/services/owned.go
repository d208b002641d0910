package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/models"
)

// Scope narrows a collection query, e.g. with a filter from the query string.
type Scope = func(*gorm.DB) *gorm.DB

// CollectionConfig describes one owned resource type.
type CollectionConfig struct {
	// Resource names the type in not-found errors.
	Resource string
	// Order is the ORDER BY clause of List.
	Order string
	// Preload lists associations loaded with every record.
	Preload []string
	// Clear lists many2many associations whose join rows go away on delete.
	Clear []string
}

// OwnedCollection is the CRUD store of a per-user resource. Every query is
// filtered by owner, so records of other users behave as missing.
type OwnedCollection[T any, PT interface {
	*T
	models.Owned
}] struct {
	db  *gorm.DB
	cfg CollectionConfig
}

func NewOwnedCollection[T any, PT interface {
	*T
	models.Owned
}](db *gorm.DB, cfg CollectionConfig) *OwnedCollection[T, PT] {
	return &OwnedCollection[T, PT]{db: db, cfg: cfg}
}

// WithTx returns a copy of the collection bound to tx.
func (c *OwnedCollection[T, PT]) WithTx(tx *gorm.DB) *OwnedCollection[T, PT] {
	return &OwnedCollection[T, PT]{db: tx, cfg: c.cfg}
}

func (c *OwnedCollection[T, PT]) query(ctx context.Context, ownerID uint) *gorm.DB {
	q := c.db.WithContext(ctx).Where("user_id = ?", ownerID)
	for _, p := range c.cfg.Preload {
		q = q.Preload(p)
	}
	return q
}

// List returns the owner's records in the configured order.
func (c *OwnedCollection[T, PT]) List(ctx context.Context, ownerID uint, scopes ...Scope) ([]T, error) {
	var out []T
	q := c.query(ctx, ownerID).Scopes(scopes...)
	if c.cfg.Order != "" {
		q = q.Order(c.cfg.Order)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one record of the owner.
func (c *OwnedCollection[T, PT]) Get(ctx context.Context, ownerID, id uint) (PT, error) {
	rec := PT(new(T))
	if err := c.query(ctx, ownerID).Where("id = ?", id).First(rec).Error; err != nil {
		return nil, notFound(err, c.cfg.Resource)
	}
	return rec, nil
}

// Create inserts rec owned by ownerID. Associations are not written.
func (c *OwnedCollection[T, PT]) Create(ctx context.Context, ownerID uint, rec PT) error {
	rec.SetUserID(ownerID)
	return c.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error
}

// Save writes every column of rec except its id, owner and creation time.
// It fails with NotFound when rec does not belong to ownerID.
func (c *OwnedCollection[T, PT]) Save(ctx context.Context, ownerID uint, rec PT) error {
	if rec.GetID() == 0 {
		return apperr.NotFound(c.cfg.Resource)
	}
	rec.SetUserID(ownerID)
	res := c.db.WithContext(ctx).Model(rec).
		Where("user_id = ?", ownerID).
		Select("*").
		Omit("id", "user_id", "created_at", clause.Associations).
		Updates(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(c.cfg.Resource)
	}
	return nil
}

// Delete removes the owner's record and the join rows referencing it.
func (c *OwnedCollection[T, PT]) Delete(ctx context.Context, ownerID, id uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := PT(new(T))
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(rec).Error; err != nil {
			return notFound(err, c.cfg.Resource)
		}
		for _, name := range c.cfg.Clear {
			if err := tx.Model(rec).Association(name).Clear(); err != nil {
				return err
			}
		}
		return tx.Delete(rec).Error
	})
}

// AssignedOnly keeps records referenced by at least one row of joinTable
// through column.
func AssignedOnly(joinTable, column string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (SELECT " + column + " FROM " + joinTable + ")")
	}
}
