package models

// CategoryModel groups quotes by theme.
type CategoryModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null"`
}

func (CategoryModel) TableName() string { return "categories" }

// AuthorModel is the person a quote is attributed to.
type AuthorModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Bio  string `json:"bio"  gorm:"type:text"`
}

func (AuthorModel) TableName() string { return "authors" }
