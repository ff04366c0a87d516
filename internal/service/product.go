package service

import (
	"context"

	"github.com/kivee/kivee/internal/api/dto"
	"github.com/kivee/kivee/internal/domain/product"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/samber/lo"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) (*dto.ListProductsResponse, error)
	UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
}

type productService struct {
	productRepo product.Repository
	logger      *logger.Logger
}

func NewProductService(productRepo product.Repository, logger *logger.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToProduct(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, p); err != nil {
		s.logger.Errorw("failed to create product",
			"error", err,
			"product_id", p.ID,
			"name", p.Name,
		)
		return nil, err
	}

	return &dto.ProductResponse{Product: p}, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if id == "" {
		return nil, ierr.NewError("product_id is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.productRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.ProductResponse{Product: p}, nil
}

func (s *productService) ListProducts(ctx context.Context) (*dto.ListProductsResponse, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListProductsResponse{
		Items: lo.Map(products, func(p *product.Product, _ int) *dto.ProductResponse {
			return &dto.ProductResponse{Product: p}
		}),
		Total: len(products),
	}, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if id == "" {
		return nil, ierr.NewError("product_id is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.productRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		s.logger.Errorw("failed to update product",
			"error", err,
			"product_id", p.ID,
		)
		return nil, err
	}

	return &dto.ProductResponse{Product: p}, nil
}

// DeleteProduct soft deletes a product. Paid charges keep their frozen
// name and amount; unpaid ones resolve to the not-found placeholder.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("product_id is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrValidation)
	}

	if _, err := s.productRepo.Get(ctx, id); err != nil {
		return err
	}

	return s.productRepo.Delete(ctx, id)
}
