package models

// PostModel is an article managed by the admin surface.
//
// Summary and Teaser are the AI-written fields; each one is overwritten
// independently on regeneration and left untouched when its feature is
// disabled.
type PostModel struct {
	Base
	Title       string          `json:"title"        gorm:"not null"`
	Slug        string          `json:"slug"         gorm:"uniqueIndex;not null"`
	Content     string          `json:"content"      gorm:"type:longtext"`
	Summary     string          `json:"summary"      gorm:"type:text"`
	Teaser      string          `json:"teaser"       gorm:"type:text"`
	IsPublished bool            `json:"is_published" gorm:"default:false;index"`
	Categories  []CategoryModel `json:"categories,omitempty" gorm:"many2many:post_categories"`
}

func (PostModel) TableName() string { return "posts" }
