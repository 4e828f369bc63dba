package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DealStatus string

const (
	StatusNew        DealStatus = "new"
	StatusInProgress DealStatus = "in_progress"
	StatusWon        DealStatus = "won"
	StatusLost       DealStatus = "lost"
)

func (s DealStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusWon, StatusLost:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s DealStatus) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

type DealStage string

const (
	StageQualification DealStage = "qualification"
	StageProposal      DealStage = "proposal"
	StageNegotiation   DealStage = "negotiation"
	StageClosed        DealStage = "closed"
)

func (s DealStage) Valid() bool {
	switch s {
	case StageQualification, StageProposal, StageNegotiation, StageClosed:
		return true
	}
	return false
}

type Deal struct {
	gorm.Model

	OrganizationID uint            `gorm:"not null;index"`
	ContactID      uint            `gorm:"not null;index"`
	OwnerID        uint            `gorm:"not null;index"`
	Title          string          `gorm:"size:255;not null;index"`
	Amount         decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Currency       string          `gorm:"size:3;not null"`
	Status         DealStatus      `gorm:"size:20;not null;index"`
	Stage          DealStage       `gorm:"size:20;not null;index"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Contact      Contact      `gorm:"foreignKey:ContactID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	Owner        User         `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	Tasks        []Task       `gorm:"foreignKey:DealID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Activities   []Activity   `gorm:"foreignKey:DealID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
