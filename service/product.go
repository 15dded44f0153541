package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"electro_store/database"
	"electro_store/model"
)

type ProductService struct {
	products database.ProductStore
	now      func() time.Time
}

func NewProductService(products database.ProductStore) *ProductService {
	return &ProductService{products: products, now: time.Now}
}

// List returns the catalog narrowed and ordered by filter.
func (s *ProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	all, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	category := strings.ToLower(strings.TrimSpace(filter.Category))
	if category == "all" {
		category = ""
	}

	list := make([]model.Product, 0, len(all))
	for _, p := range all {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if category != "" && strings.ToLower(p.Category) != category {
			continue
		}
		if filter.MinPrice != nil && p.CurrentPrice < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.CurrentPrice > *filter.MaxPrice {
			continue
		}
		if filter.InStockOnly && !p.InStock {
			continue
		}
		list = append(list, p)
	}

	switch filter.Sort {
	case model.SortByName:
		sort.SliceStable(list, func(i, j int) bool { return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name) })
	case model.SortByPriceAsc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CurrentPrice < list[j].CurrentPrice })
	case model.SortByPriceDesc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CurrentPrice > list[j].CurrentPrice })
	case model.SortByRating:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rating > list[j].Rating })
	case "":
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, filter.Sort)
	}
	return list, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (model.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, storeError(err, fmt.Sprintf("product %d", id))
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, req model.ProductRequest) (model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.CurrentPrice <= 0 {
		return model.Product{}, fmt.Errorf("%w: name and a positive price are required", ErrInvalidInput)
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	return s.products.CreateProduct(ctx, model.Product{
		Name:          name,
		Image:         req.Image,
		CurrentPrice:  req.CurrentPrice,
		OriginalPrice: req.OriginalPrice,
		Discount:      req.Discount,
		Rating:        req.Rating,
		Reviews:       req.Reviews,
		Description:   req.Description,
		Category:      strings.TrimSpace(req.Category),
		InStock:       req.InStock,
		Features:      req.Features,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

// Update merges the fields present in patch into the stored product.
func (s *ProductService) Update(ctx context.Context, id int64, patch model.ProductPatch) (model.Product, error) {
	p, err := s.products.UpdateProduct(ctx, id, func(p *model.Product) error {
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Image != nil {
			p.Image = *patch.Image
		}
		if patch.CurrentPrice != nil {
			p.CurrentPrice = *patch.CurrentPrice
		}
		if patch.OriginalPrice != nil {
			p.OriginalPrice = patch.OriginalPrice
		}
		if patch.Discount != nil {
			p.Discount = patch.Discount
		}
		if patch.Rating != nil {
			p.Rating = *patch.Rating
		}
		if patch.Reviews != nil {
			p.Reviews = *patch.Reviews
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Category != nil {
			p.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.InStock != nil {
			p.InStock = *patch.InStock
		}
		if patch.Features != nil {
			p.Features = *patch.Features
		}
		if p.Name == "" || p.CurrentPrice <= 0 {
			return fmt.Errorf("%w: name and a positive price are required", ErrInvalidInput)
		}
		p.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)
		return nil
	})
	if err != nil {
		return model.Product{}, storeError(err, fmt.Sprintf("product %d", id))
	}
	return p, nil
}

// Delete removes the product from the catalog and from every wishlist.
// Orders keep their own copy of the line.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return storeError(s.products.DeleteProduct(ctx, id), fmt.Sprintf("product %d", id))
}
