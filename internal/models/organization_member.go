package models

import "gorm.io/gorm"

type MemberRole string

const (
	RoleOwner   MemberRole = "owner"
	RoleAdmin   MemberRole = "admin"
	RoleManager MemberRole = "manager"
	RoleMember  MemberRole = "member"
)

// roleLevels orders roles by authority. Higher level, more permissions.
var roleLevels = map[MemberRole]int{
	RoleMember:  1,
	RoleManager: 2,
	RoleAdmin:   3,
	RoleOwner:   4,
}

func (r MemberRole) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast reports whether r carries the authority of other or higher.
func (r MemberRole) AtLeast(other MemberRole) bool {
	return roleLevels[r] >= roleLevels[other]
}

type OrganizationMember struct {
	gorm.Model

	OrganizationID uint       `gorm:"not null;uniqueIndex:idx_org_user"`
	UserID         uint       `gorm:"not null;uniqueIndex:idx_org_user"`
	Role           MemberRole `gorm:"size:20;not null"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User         User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
