package models

// CategoryModel groups posts on the blog.
type CategoryModel struct {
	Base
	Name        string `json:"name"        gorm:"uniqueIndex;not null"`
	Slug        string `json:"slug"        gorm:"uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }
