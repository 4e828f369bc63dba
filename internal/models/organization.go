package models

import "gorm.io/gorm"

type Organization struct {
	gorm.Model

	Name            string `gorm:"not null"`
	DefaultCurrency string `gorm:"size:3"` // ISO 4217, empty means use the global default

	// Relationships
	Members  []OrganizationMember `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Contacts []Contact            `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Deals    []Deal               `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
