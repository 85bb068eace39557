package models

// CategoryModel is one entry of the fixed taxonomy vocabulary the
// categorizer selects from.
type CategoryModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"many2many:post_categories"`
}

func (CategoryModel) TableName() string { return "categories" }
