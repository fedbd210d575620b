package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gemora/store-manager/internal/dependency"
	"github.com/gemora/store-manager/internal/entity"
)

type bannerStore struct {
	*MYSQLStore
}

// Banners returns an object implementing the banners interface
func (ms *MYSQLStore) Banners() dependency.Banners {
	return &bannerStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) AddBanner(ctx context.Context, b *entity.BannerInsert) (int, error) {
	query := `
	INSERT INTO banners
	(title, subtitle, discount, image_url, image_path, created_at)
	VALUES (:title, :subtitle, :discount, :imageUrl, :imagePath, :createdAt)`

	id, err := ExecNamedLastId(ctx, ms.db, query, map[string]any{
		"title":     b.Title,
		"subtitle":  b.Subtitle,
		"discount":  b.Discount,
		"imageUrl":  b.ImageURL,
		"imagePath": b.ImagePath,
		"createdAt": ms.Now(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add banner: %w", err)
	}
	return id, nil
}

func (ms *MYSQLStore) GetBannerById(ctx context.Context, id int) (*entity.Banner, error) {
	query := `
	SELECT id, created_at, title, subtitle, discount, image_url, image_path
	FROM banners
	WHERE id = :id`

	b, err := QueryNamedOne[entity.Banner](ctx, ms.db, query, map[string]any{
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get banner [%d]: %w", id, err)
	}
	return &b, nil
}

func (ms *MYSQLStore) DeleteBannerById(ctx context.Context, id int) error {
	query := `DELETE FROM banners WHERE id = :id`

	affected, err := ExecNamedAffected(ctx, ms.db, query, map[string]any{
		"id": id,
	})
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("banner [%d]: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (ms *MYSQLStore) GetBanners(ctx context.Context) ([]entity.Banner, error) {
	query := `
	SELECT id, created_at, title, subtitle, discount, image_url, image_path
	FROM banners
	ORDER BY created_at DESC, id DESC`

	banners, err := QueryListNamed[entity.Banner](ctx, ms.db, query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to get banners: %w", err)
	}
	return banners, nil
}
