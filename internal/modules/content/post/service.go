package post

import (
	"errors"
	"fmt"

	"github.com/guilamu/distillpress/internal/models"
	"github.com/guilamu/distillpress/internal/pkg/pagination"
	"github.com/guilamu/distillpress/internal/pkg/response"
	"gorm.io/gorm"
)

// Service handles post business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns a paginated list of posts.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).
		Preload("Categories").
		Order("created_at DESC")

	if lq.Category != nil {
		tx = tx.Joins("JOIN post_categories ON post_categories.post_model_id = posts.id").
			Joins("JOIN categories ON categories.id = post_categories.category_model_id").
			Where("categories.slug = ?", *lq.Category)
	}
	if lq.Published != nil {
		tx = tx.Where("posts.is_published = ?", *lq.Published)
	}

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// GetByID fetches a single post by ID.
func (s *Service) GetByID(id string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.Preload("Categories").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a single post by slug.
func (s *Service) GetBySlug(slug string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.Preload("Categories").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByIdentifier fetches a post by ID first, then falls back to slug.
func (s *Service) GetByIdentifier(identifier string) (*models.PostModel, error) {
	if post, err := s.GetByID(identifier); err != nil {
		return nil, err
	} else if post != nil {
		return post, nil
	}
	return s.GetBySlug(identifier)
}

// Create inserts a new post.
func (s *Service) Create(dto *CreatePostDTO) (*models.PostModel, error) {
	var count int64
	s.db.Model(&models.PostModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("slug already exists")
	}

	cats, err := s.resolveCategories(dto.CategoryIDs)
	if err != nil {
		return nil, err
	}

	post := models.PostModel{
		Title:      dto.Title,
		Slug:       dto.Slug,
		Content:    dto.Content,
		Summary:    dto.Summary,
		Teaser:     dto.Teaser,
		Categories: cats,
	}
	if dto.IsPublished != nil {
		post.IsPublished = *dto.IsPublished
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update patches a post by ID.
func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	post, err := s.GetByID(id)
	if err != nil || post == nil {
		return post, err
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil && *dto.Slug != post.Slug {
		var count int64
		s.db.Model(&models.PostModel{}).Where("slug = ? AND id <> ?", *dto.Slug, id).Count(&count)
		if count > 0 {
			return nil, fmt.Errorf("slug already exists")
		}
		updates["slug"] = *dto.Slug
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.Summary != nil {
		updates["summary"] = *dto.Summary
	}
	if dto.Teaser != nil {
		updates["teaser"] = *dto.Teaser
	}
	if dto.IsPublished != nil {
		updates["is_published"] = *dto.IsPublished
	}

	if len(updates) > 0 {
		if err := s.db.Model(post).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if dto.CategoryIDs != nil {
		cats, err := s.resolveCategories(dto.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(post).Association("Categories").Replace(cats); err != nil {
			return nil, err
		}
		post.Categories = cats
	}
	return post, nil
}

// Delete soft-deletes a post by ID and clears its category assignments.
func (s *Service) Delete(id string) error {
	post := models.PostModel{Base: models.Base{ID: id}}
	if err := s.db.Model(&post).Association("Categories").Clear(); err != nil {
		return err
	}
	return s.db.Delete(&models.PostModel{}, "id = ?", id).Error
}

func (s *Service) resolveCategories(ids []string) ([]models.CategoryModel, error) {
	if len(ids) == 0 {
		return []models.CategoryModel{}, nil
	}
	var cats []models.CategoryModel
	if err := s.db.Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return nil, err
	}
	if len(cats) != len(ids) {
		return nil, fmt.Errorf("category not found")
	}
	return cats, nil
}
