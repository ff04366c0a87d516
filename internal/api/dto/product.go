package dto

import (
	"context"

	"github.com/kivee/kivee/internal/domain/product"
	"github.com/kivee/kivee/internal/types"
	"github.com/kivee/kivee/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name             string                     `json:"name" validate:"required"`
	BasePrice        decimal.Decimal            `json:"base_price"`
	PricesByLocation map[string]decimal.Decimal `json:"prices_by_location,omitempty"`
}

func (r *CreateProductRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateProductRequest) ToProduct(ctx context.Context) *product.Product {
	return &product.Product{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Name:             r.Name,
		BasePrice:        r.BasePrice,
		PricesByLocation: r.PricesByLocation,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
}

type UpdateProductRequest struct {
	Name             *string                    `json:"name,omitempty"`
	BasePrice        *decimal.Decimal           `json:"base_price,omitempty"`
	PricesByLocation map[string]decimal.Decimal `json:"prices_by_location,omitempty"`
	Status           *types.Status              `json:"status,omitempty"`
}

func (r *UpdateProductRequest) Apply(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.BasePrice != nil {
		p.BasePrice = *r.BasePrice
	}
	if r.PricesByLocation != nil {
		p.PricesByLocation = r.PricesByLocation
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
}

type ProductResponse struct {
	*product.Product
}

type ListProductsResponse struct {
	Items []*ProductResponse `json:"items"`
	Total int                `json:"total"`
}
