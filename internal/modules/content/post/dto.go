package post

// CreatePostDTO is the payload for creating a post. CategoryIDs are
// validated against the categories table.
type CreatePostDTO struct {
	Title       string   `json:"title" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	Content     string   `json:"content"`
	Summary     string   `json:"summary"`
	Teaser      string   `json:"teaser"`
	IsPublished *bool    `json:"is_published"`
	CategoryIDs []string `json:"category_ids"`
}

// UpdatePostDTO patches a post; nil fields are left alone. A non-nil
// CategoryIDs replaces the whole assignment, including an empty slice.
type UpdatePostDTO struct {
	Title       *string  `json:"title"`
	Slug        *string  `json:"slug"`
	Content     *string  `json:"content"`
	Summary     *string  `json:"summary"`
	Teaser      *string  `json:"teaser"`
	IsPublished *bool    `json:"is_published"`
	CategoryIDs []string `json:"category_ids"`
}

// ListQuery holds the optional list filters.
type ListQuery struct {
	Category  *string `form:"category"`
	Published *bool   `form:"published"`
}
