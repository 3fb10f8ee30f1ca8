package models

import "time"

// QuoteModel is a published quote. Only quotes with IsPublished set and a
// PublishedAt inside the digest window are embedded in a digest.
type QuoteModel struct {
	Base
	Text        string         `json:"text"         gorm:"type:text;not null"`
	AuthorID    *string        `json:"author_id"    gorm:"index"`
	Author      *AuthorModel   `json:"author,omitempty"   gorm:"foreignKey:AuthorID"`
	CategoryID  *string        `json:"category_id"  gorm:"index"`
	Category    *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	IsPublished bool           `json:"is_published" gorm:"default:false;index"`
	PublishedAt *time.Time     `json:"published_at" gorm:"index"`
}

func (QuoteModel) TableName() string { return "quotes" }
