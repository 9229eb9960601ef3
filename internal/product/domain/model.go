package domain

import "time"

type Product struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null;index"`
	Unit      string    `json:"unit" gorm:"type:text;not null;default:''"`
	Category  string    `json:"category" gorm:"type:text;not null;default:'';index"`
	Brand     string    `json:"brand" gorm:"type:text;not null;default:''"`
	Stock     int       `json:"stock" gorm:"not null;default:0"`
	Status    string    `json:"status" gorm:"type:text;not null"`
	Image     string    `json:"image" gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
