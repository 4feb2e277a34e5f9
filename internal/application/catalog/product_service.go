package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/activity"
	"github.com/harvesthub/backend/internal/domain/catalog"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/domain/shared/valueobject"
)

// TableProducts is announced on the change feed for catalog writes
const TableProducts = "products"

// ProductService handles product management for the console
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	activityRepo activity.Repository
	storage      ObjectStorage
	notifier     shared.Notifier
}

// NewProductService creates a ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	activityRepo activity.Repository,
	storage ObjectStorage,
	notifier shared.Notifier,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		activityRepo: activityRepo,
		storage:      storage,
		notifier:     notifier,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, actorID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, strings.ToUpper(strings.TrimSpace(req.SKU)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Unit, valueobject.NewMoneyUSD(req.Price))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description, req.Unit); err != nil {
			return nil, err
		}
	}
	if req.SalePrice != nil && req.SalePrice.IsPositive() {
		if err := product.SetPrices(req.Price, *req.SalePrice); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if err := product.AssignCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}
	product.SetFeatured(req.Featured)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actorID, activity.ActionProductCreated, product.ID, activity.Details{
		"sku":  product.SKU,
		"name": product.Name,
	})
	s.notify(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

// Get returns a single product
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns products matching the filter, paginated
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	result, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapPaginated(result), nil
}

// ListByCategory returns products in the given category, paginated
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	result, err := s.productRepo.FindByCategory(ctx, categoryID, filter)
	if err != nil {
		return nil, err
	}
	return mapPaginated(result), nil
}

func mapPaginated(result *shared.Paginated[*catalog.Product]) *shared.Paginated[ProductResponse] {
	items := make([]ProductResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = ToProductResponse(p)
	}
	mapped := shared.Paginated[ProductResponse]{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	return &mapped
}

// Update updates a product's details, prices and category
func (s *ProductService) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	unit := product.Unit
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if err := product.Update(name, description, unit); err != nil {
		return nil, err
	}

	if req.Price != nil || req.SalePrice != nil {
		price := product.Price
		salePrice := product.SalePrice
		if req.Price != nil {
			price = *req.Price
		}
		if req.SalePrice != nil {
			salePrice = *req.SalePrice
		}
		if err := product.SetPrices(price, salePrice); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		if err := product.AssignCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}

	if req.Featured != nil {
		product.SetFeatured(*req.Featured)
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actorID, activity.ActionProductUpdated, product.ID, activity.Details{
		"sku": product.SKU,
	})
	s.notify(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

// Archive retires a product instead of deleting its rows, so order
// item snapshots keep a valid reference.
func (s *ProductService) Archive(ctx context.Context, actorID, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	product.Archive()
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return err
	}

	s.recordActivity(ctx, actorID, activity.ActionProductDeleted, product.ID, activity.Details{
		"sku": product.SKU,
	})
	s.notify(ctx)

	return nil
}

// UploadImage stores an image and attaches its URL to the product
func (s *ProductService) UploadImage(ctx context.Context, actorID, id uuid.UUID, filename, contentType string, body io.Reader) (*ProductResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Image storage is not configured")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Uploads land in a staging prefix and are only moved under the
	// product key once the row update sticks
	name := uuid.New().String() + path.Ext(filename)
	stagingKey := "products/incoming/" + name
	if _, err := s.storage.Upload(ctx, stagingKey, contentType, body); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s", product.ID, name)
	if err := s.storage.Move(ctx, stagingKey, key); err != nil {
		_ = s.storage.Remove(ctx, stagingKey)
		return nil, err
	}
	url := s.storage.PublicURL(key)

	if err := product.AddImage(url); err != nil {
		_ = s.storage.Remove(ctx, key)
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		_ = s.storage.Remove(ctx, key)
		return nil, err
	}

	s.recordActivity(ctx, actorID, activity.ActionProductUpdated, product.ID, activity.Details{
		"sku":   product.SKU,
		"image": url,
	})
	s.notify(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

// RemoveImage detaches an image URL from the product
func (s *ProductService) RemoveImage(ctx context.Context, actorID, id uuid.UUID, url string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.RemoveImage(url); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.notify(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) recordActivity(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details activity.Details) {
	if s.activityRepo == nil || actorID == uuid.Nil {
		return
	}
	entry, err := activity.NewLog(actorID, action, "product", entityID, details)
	if err != nil {
		return
	}
	_ = s.activityRepo.Save(ctx, entry)
}

func (s *ProductService) notify(ctx context.Context) {
	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, TableProducts)
	}
}
