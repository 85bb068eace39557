package models

// OptionModel is a generic key-value store for plugin state: the settings
// blob and the bounded usage log both live here as JSON values.
type OptionModel struct {
	ID    uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name"  gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:longtext"` // JSON-encoded value
}

func (OptionModel) TableName() string { return "options" }
