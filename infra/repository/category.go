package repository

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	m := categoryToModel(c)
	return conflictFor(domain.ResourceCategory, "name", errCategoryNameTaken,
		r.db.WithContext(ctx).Create(&m).Error)
}

// Update writes the name only; type and owner never change.
func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	res := r.db.WithContext(ctx).Model(&Category{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":       c.Name,
		"updated_at": c.UpdatedAt,
	})
	if res.Error != nil {
		return conflictFor(domain.ResourceCategory, "name", errCategoryNameTaken, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError(domain.ResourceCategory)
	}
	return nil
}

func (r *categoryRepository) Get(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	var m Category
	if err := wrapFor(domain.ResourceCategory, func() error {
		return r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return categoryFromModel(&m), nil
}

func (r *categoryRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id IS NULL OR user_id = ?", userID))
}

func (r *categoryRepository) ListVisibleByType(ctx context.Context, userID uuid.UUID, t category.Type) ([]*category.Category, error) {
	return r.list(r.db.WithContext(ctx).Where("(user_id IS NULL OR user_id = ?) AND type = ?", userID, string(t)))
}

func (r *categoryRepository) ListGlobal(ctx context.Context) ([]*category.Category, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id IS NULL"))
}

func (r *categoryRepository) list(db *gorm.DB) ([]*category.Category, error) {
	var rows []Category
	if err := db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*category.Category, 0, len(rows))
	for i := range rows {
		out = append(out, categoryFromModel(&rows[i]))
	}
	return out, nil
}

func (r *categoryRepository) Exists(
	ctx context.Context,
	name string,
	t category.Type,
	scope category.Scope,
	excludeID uuid.UUID,
) (bool, error) {
	q := r.db.WithContext(ctx).Model(&Category{}).
		Where("LOWER(name) = LOWER(?) AND type = ? AND id <> ?", name, string(t), excludeID)
	if owner, ok := scope.Owner(); ok {
		q = q.Where("user_id = ?", owner)
	} else {
		q = q.Where("user_id IS NULL")
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, MapGormErrorToDomain(err)
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, "id = ?", id)
	if res.Error != nil {
		return conflictFor(domain.ResourceCategory, "category", "cannot delete category used by transactions", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError(domain.ResourceCategory)
	}
	return nil
}
