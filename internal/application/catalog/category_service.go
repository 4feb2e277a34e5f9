package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/activity"
	"github.com/harvesthub/backend/internal/domain/catalog"
	"github.com/harvesthub/backend/internal/domain/shared"
)

// TableCategories is announced on the change feed for category writes
const TableCategories = "categories"

// CategoryService handles category management for the console
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	activityRepo activity.Repository
	notifier     shared.Notifier
}

// NewCategoryService creates a CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	activityRepo activity.Repository,
	notifier shared.Notifier,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, actorID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = catalog.Slugify(req.Name)
	}
	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	}

	category, err := catalog.NewCategory(req.Name, slug)
	if err != nil {
		return nil, err
	}
	if req.Description != "" || req.ImageURL != "" {
		if err := category.Update(req.Name, req.Description, req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actorID, activity.ActionCategoryCreated, category.ID, activity.Details{
		"slug": category.Slug,
		"name": category.Name,
	})
	s.notify(ctx)

	response := ToCategoryResponse(category)
	return &response, nil
}

// Get returns a single category
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List returns categories matching the filter, paginated
func (s *CategoryService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CategoryResponse], error) {
	result, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CategoryResponse, len(result.Items))
	for i, c := range result.Items {
		items[i] = ToCategoryResponse(c)
	}
	mapped := shared.Paginated[CategoryResponse]{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	return &mapped, nil
}

// ListActive returns all active categories in sort order
func (s *CategoryService) ListActive(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = ToCategoryResponse(c)
	}
	return items, nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := category.Name
	description := category.Description
	imageURL := category.ImageURL
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}
	if err := category.Update(name, description, imageURL); err != nil {
		return nil, err
	}

	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.Active != nil {
		if *req.Active {
			category.Activate()
		} else {
			category.Deactivate()
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actorID, activity.ActionCategoryUpdated, category.ID, activity.Details{
		"slug": category.Slug,
	})
	s.notify(ctx)

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes an empty category. Categories that still contain
// products cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	products, err := s.productRepo.FindByCategory(ctx, id, shared.DefaultFilter())
	if err != nil {
		return err
	}
	if products.Total > 0 {
		return shared.NewDomainError("CATEGORY_NOT_EMPTY", "Category still contains products")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, actorID, activity.ActionCategoryUpdated, category.ID, activity.Details{
		"slug":    category.Slug,
		"deleted": true,
	})
	s.notify(ctx)

	return nil
}

func (s *CategoryService) recordActivity(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details activity.Details) {
	if s.activityRepo == nil || actorID == uuid.Nil {
		return
	}
	entry, err := activity.NewLog(actorID, action, "category", entityID, details)
	if err != nil {
		return
	}
	_ = s.activityRepo.Save(ctx, entry)
}

func (s *CategoryService) notify(ctx context.Context) {
	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, TableCategories)
	}
}
