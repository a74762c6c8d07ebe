package models

// Category группа услуг каталога
// @Description Категория каталога
type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id" example:"1"`
	Title    string `gorm:"size:128;uniqueIndex;not null" json:"title" example:"Preventive Health"`
	Position int    `gorm:"not null;default:0" json:"position" example:"0"`
	Items    []Item `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// Item услуга внутри категории
// @Description Элемент каталога
type Item struct {
	ID         uint   `gorm:"primaryKey" json:"id" example:"3"`
	CategoryID uint   `gorm:"index;not null" json:"category_id" example:"1"`
	Title      string `gorm:"size:128;not null" json:"title" example:"Health Assessment"`
	Position   int    `gorm:"not null;default:0" json:"position" example:"0"`
}

// SeedCategory описывает категорию каталога по умолчанию вместе с её услугами.
type SeedCategory struct {
	Title string
	Items []string
}

// DefaultCatalog заполняет пустую базу при первом запуске.
var DefaultCatalog = []SeedCategory{
	{
		Title: "Preventive Health",
		Items: []string{
			"Health Assessment",
			"Alzheimer Screening",
			"Specialist Checkups",
			"Home Redesign for Elders",
		},
	},
	{
		Title: "Memorable Moments from Afar",
		Items: []string{
			"Hosting Experience",
			"Surprise Performance",
			"Gifts",
			"Flowers and Sweets",
		},
	},
	{
		Title: "Daily Needs",
		Items: []string{
			"Daily Shopping",
			"Digital Help",
		},
	},
}
