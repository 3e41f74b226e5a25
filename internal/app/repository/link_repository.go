package repository

import (
	"context"
	"errors"

	"github.com/tinylink-io/linklite/internal/app/model"
	"gorm.io/gorm"
)

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed LinkRepository. The gorm.DB must be
// opened with TranslateError so unique violations surface as ErrDuplicatedKey.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Insert(ctx context.Context, link *model.ShortLink) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *linkRepository) FindByCode(ctx context.Context, code string) (*model.ShortLink, error) {
	var link model.ShortLink
	if err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) FindByID(ctx context.Context, id string) (*model.ShortLink, error) {
	var link model.ShortLink
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) FindAll(ctx context.Context) ([]model.ShortLink, error) {
	var result []model.ShortLink
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// IncrementClick bumps the counter in a single UPDATE so concurrent
// resolutions never lose increments to read-modify-write races.
func (r *linkRepository) IncrementClick(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&model.ShortLink{}).
		Where("short_code = ?", code).
		Update("click_count", gorm.Expr("click_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (r *linkRepository) Update(ctx context.Context, link *model.ShortLink) error {
	result := r.db.WithContext(ctx).
		Model(&model.ShortLink{}).
		Where("id = ?", link.ID).
		Updates(map[string]interface{}{
			"original_url": link.OriginalURL,
			"title":        link.Title,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return r.db.WithContext(ctx).Where("id = ?", link.ID).First(link).Error
}

// Delete removes the row; deleting an unknown id is not an error.
func (r *linkRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ShortLink{}).Error
}
