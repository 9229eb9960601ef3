package domain

import "time"

// DefaultActor is recorded when no caller identity accompanies a stock change.
const DefaultActor = "system"

// Entry is an immutable record of one stock-quantity change. Entries are only
// ever inserted; nothing updates or deletes them, and they outlive their product.
type Entry struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	ProductID   int64     `json:"product_id" gorm:"not null;index"`
	OldQuantity int       `json:"old_quantity" gorm:"not null"`
	NewQuantity int       `json:"new_quantity" gorm:"not null"`
	Delta       int       `json:"delta" gorm:"not null"`
	Actor       string    `json:"actor" gorm:"type:text;not null;default:'system'"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Entry) TableName() string { return "inventory_logs" }
