package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	DealID      uint   `gorm:"not null;index"`
	Title       string `gorm:"size:255;not null"`
	Description string
	DueDate     *time.Time `gorm:"index"`
	IsDone      bool       `gorm:"not null;default:false;index"`

	// Relationships
	Deal Deal `gorm:"foreignKey:DealID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
