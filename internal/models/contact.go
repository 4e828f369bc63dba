package models

import "gorm.io/gorm"

type Contact struct {
	gorm.Model

	OrganizationID uint   `gorm:"not null;index"`
	OwnerID        uint   `gorm:"not null;index"`
	Name           string `gorm:"not null;index"`
	Email          string `gorm:"index"`
	Phone          string

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Owner        User         `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	Deals        []Deal       `gorm:"foreignKey:ContactID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
}
