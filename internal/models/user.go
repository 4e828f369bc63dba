package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Relationships
	Memberships   []OrganizationMember `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	OwnedContacts []Contact            `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	OwnedDeals    []Deal               `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
}
