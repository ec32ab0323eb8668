package models

// Tag is a user-owned label attached to recipes.
type Tag struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"-" gorm:"not null;index:idx_tags_user_name"`
	Name   string `json:"name" gorm:"type:varchar(255);not null;index:idx_tags_user_name"`
}

func (t Tag) String() string {
	return t.Name
}

// Ingredient is a user-owned ingredient attached to recipes.
type Ingredient struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"-" gorm:"not null;index:idx_ingredients_user_name"`
	Name   string `json:"name" gorm:"type:varchar(255);not null;index:idx_ingredients_user_name"`
}

func (i Ingredient) String() string {
	return i.Name
}

// NewTag and NewIngredient build unsaved entries for the given owner.
func NewTag(userID uint, name string) *Tag {
	return &Tag{UserID: userID, Name: name}
}

func NewIngredient(userID uint, name string) *Ingredient {
	return &Ingredient{UserID: userID, Name: name}
}
