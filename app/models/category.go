package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups posts and products in the storefront.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(100) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex" json:"name" validate:"required,min=2,max=100"`
	Slug        string         `gorm:"uniqueIndex;type:varchar(120)" json:"slug" validate:"required,min=2,max=120"`
	Description string         `gorm:"type:text" json:"description"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// FindOrCreate finds a category by name or creates it when missing.
func (cat *Category) FindOrCreate(db *gorm.DB) error {
	result := db.Where("name = ?", cat.Name).First(cat)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return db.Create(cat).Error
		}
		return result.Error
	}
	return nil
}
