package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gemora/store-manager/internal/dependency"
	"github.com/gemora/store-manager/internal/entity"
)

type catalogStore struct {
	*MYSQLStore
}

// Catalog returns an object implementing the catalog interface
func (ms *MYSQLStore) Catalog() dependency.Catalog {
	return &catalogStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) AddProduct(ctx context.Context, prd *entity.ProductInsert) (int, error) {
	query := `
	INSERT INTO products
	(name, description, category, price, stock, image_url, image_path, image_url_2, image_path_2, created_at)
	VALUES (:name, :description, :category, :price, :stock, :imageUrl, :imagePath, :imageUrl2, :imagePath2, :createdAt)`

	id, err := ExecNamedLastId(ctx, ms.db, query, map[string]any{
		"name":        prd.Name,
		"description": prd.Description,
		"category":    prd.Category.String(),
		"price":       prd.PriceDecimal(),
		"stock":       prd.Stock,
		"imageUrl":    prd.ImageURL,
		"imagePath":   prd.ImagePath,
		"imageUrl2":   prd.ImageURL2,
		"imagePath2":  prd.ImagePath2,
		"createdAt":   ms.Now(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add product: %w", err)
	}
	return id, nil
}

func (ms *MYSQLStore) UpdateProduct(ctx context.Context, id int, prd *entity.ProductInsert) error {
	query := `
	UPDATE products
	SET name = :name,
		description = :description,
		category = :category,
		price = :price,
		stock = :stock,
		image_url = :imageUrl,
		image_path = :imagePath,
		image_url_2 = :imageUrl2,
		image_path_2 = :imagePath2,
		updated_at = :updatedAt
	WHERE id = :id`

	affected, err := ExecNamedAffected(ctx, ms.db, query, map[string]any{
		"id":          id,
		"name":        prd.Name,
		"description": prd.Description,
		"category":    prd.Category.String(),
		"price":       prd.PriceDecimal(),
		"stock":       prd.Stock,
		"imageUrl":    prd.ImageURL,
		"imagePath":   prd.ImagePath,
		"imageUrl2":   prd.ImageURL2,
		"imagePath2":  prd.ImagePath2,
		"updatedAt":   ms.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if affected == 0 {
		if _, err := ms.GetProductById(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (ms *MYSQLStore) DeleteProductById(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = :id`

	affected, err := ExecNamedAffected(ctx, ms.db, query, map[string]any{
		"id": id,
	})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product [%d]: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (ms *MYSQLStore) GetProductById(ctx context.Context, id int) (*entity.Product, error) {
	query := `
	SELECT id, created_at, updated_at, name, description, category, price, stock,
		image_url, image_path, image_url_2, image_path_2
	FROM products
	WHERE id = :id`

	prd, err := QueryNamedOne[entity.Product](ctx, ms.db, query, map[string]any{
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product [%d]: %w", id, err)
	}
	return &prd, nil
}

func (ms *MYSQLStore) GetAllProducts(ctx context.Context) ([]entity.Product, error) {
	query := `
	SELECT id, created_at, updated_at, name, description, category, price, stock,
		image_url, image_path, image_url_2, image_path_2
	FROM products
	ORDER BY created_at DESC, id DESC`

	prds, err := QueryListNamed[entity.Product](ctx, ms.db, query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return prds, nil
}
