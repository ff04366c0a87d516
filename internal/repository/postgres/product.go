package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/kivee/kivee/internal/cache"
	"github.com/kivee/kivee/internal/domain/product"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/postgres"
	"github.com/kivee/kivee/internal/types"
)

type productRepository struct {
	client postgres.IClient
	logger *logger.Logger
	cache  cache.Cache
}

func NewProductRepository(client postgres.IClient, logger *logger.Logger, cache cache.Cache) product.Repository {
	return &productRepository{client: client, logger: logger, cache: cache}
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
	INSERT INTO products (
		id, academy_id, name, base_price, prices_by_location,
		created_at, updated_at, created_by, updated_by, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)
	`

	pricesJSON, err := json.Marshal(p.PricesByLocation)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to encode product prices").Mark(ierr.ErrValidation)
	}

	_, err = r.client.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		p.AcademyID,
		p.Name,
		p.BasePrice,
		pricesJSON,
		p.CreatedAt,
		p.UpdatedAt,
		p.CreatedBy,
		p.UpdatedBy,
		p.Status,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create product").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	if p := r.getCache(ctx, id); p != nil {
		return p, nil
	}

	query := `
	SELECT
		id, academy_id, name, base_price, prices_by_location,
		created_at, updated_at, created_by, updated_by, status
	FROM products
	WHERE id = $1 AND academy_id = $2 AND status != $3
	`

	row := r.client.GetQuerier(ctx).QueryRowContext(ctx, query, id, types.GetAcademyID(ctx), types.StatusDeleted)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("product not found").
				WithHint("Product not found").
				WithReportableDetails(map[string]any{
					"product_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get product").
			Mark(ierr.ErrDatabase)
	}

	r.setCache(ctx, p)
	return p, nil
}

func (r *productRepository) List(ctx context.Context) ([]*product.Product, error) {
	query := `
	SELECT
		id, academy_id, name, base_price, prices_by_location,
		created_at, updated_at, created_by, updated_by, status
	FROM products
	WHERE academy_id = $1 AND status != $2
	ORDER BY created_at
	`

	rows, err := r.client.GetQuerier(ctx).QueryContext(ctx, query, types.GetAcademyID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list products").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to list products").
				Mark(ierr.ErrDatabase)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list products").
			Mark(ierr.ErrDatabase)
	}

	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	query := `
	UPDATE products SET
		name = $3,
		base_price = $4,
		prices_by_location = $5,
		updated_at = NOW(),
		updated_by = $6,
		status = $7
	WHERE id = $1 AND academy_id = $2
	`

	pricesJSON, err := json.Marshal(p.PricesByLocation)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to encode product prices").Mark(ierr.ErrValidation)
	}

	result, err := r.client.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		types.GetAcademyID(ctx),
		p.Name,
		p.BasePrice,
		pricesJSON,
		types.GetUserID(ctx),
		p.Status,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update product").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("product not found").
			WithHint("Product not found").
			WithReportableDetails(map[string]any{
				"product_id": p.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	r.deleteCache(ctx, p.ID)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE products SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND academy_id = $2
	`

	result, err := r.client.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetAcademyID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete product").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("product not found").
			WithHint("Product not found").
			WithReportableDetails(map[string]any{
				"product_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	r.deleteCache(ctx, id)
	return nil
}

func scanProduct(row scanner) (*product.Product, error) {
	var p product.Product
	var pricesJSON []byte

	err := row.Scan(
		&p.ID,
		&p.AcademyID,
		&p.Name,
		&p.BasePrice,
		&pricesJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CreatedBy,
		&p.UpdatedBy,
		&p.Status,
	)
	if err != nil {
		return nil, err
	}

	if len(pricesJSON) > 0 {
		if err := json.Unmarshal(pricesJSON, &p.PricesByLocation); err != nil {
			return nil, err
		}
	}

	return &p, nil
}

func (r *productRepository) setCache(ctx context.Context, p *product.Product) {
	key := cache.GenerateKey(cache.PrefixProduct, types.GetAcademyID(ctx), p.ID)
	r.cache.Set(ctx, key, p, cache.ExpiryDefaultInMemory)
}

func (r *productRepository) getCache(ctx context.Context, id string) *product.Product {
	key := cache.GenerateKey(cache.PrefixProduct, types.GetAcademyID(ctx), id)
	if value, found := r.cache.Get(ctx, key); found {
		if p, ok := value.(*product.Product); ok {
			return p
		}
	}
	return nil
}

func (r *productRepository) deleteCache(ctx context.Context, id string) {
	key := cache.GenerateKey(cache.PrefixProduct, types.GetAcademyID(ctx), id)
	r.cache.Delete(ctx, key)
}
