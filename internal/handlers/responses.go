package handlers

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pipedesk/pipedesk/internal/models"
)

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrganizationResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	DefaultCurrency string `json:"default_currency"`
}

type MembershipResponse struct {
	OrganizationID uint              `json:"organization_id"`
	Name           string            `json:"name"`
	Role           models.MemberRole `json:"role"`
	JoinedAt       time.Time         `json:"joined_at"`
}

type MemberResponse struct {
	UserID   uint              `json:"user_id"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Role     models.MemberRole `json:"role"`
	JoinedAt time.Time         `json:"joined_at"`
}

type ContactResponse struct {
	ID        uint      `json:"id"`
	OwnerID   uint      `json:"owner_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DealResponse struct {
	ID        uint              `json:"id"`
	ContactID uint              `json:"contact_id"`
	OwnerID   uint              `json:"owner_id"`
	Title     string            `json:"title"`
	Amount    decimal.Decimal   `json:"amount"`
	Currency  string            `json:"currency"`
	Status    models.DealStatus `json:"status"`
	Stage     models.DealStage  `json:"stage"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type TaskResponse struct {
	ID          uint       `json:"id"`
	DealID      uint       `json:"deal_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date"`
	IsDone      bool       `json:"is_done"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ActivityResponse struct {
	ID        uint                `json:"id"`
	DealID    uint                `json:"deal_id"`
	AuthorID  *uint               `json:"author_id"`
	Type      models.ActivityType `json:"type"`
	Payload   json.RawMessage     `json:"payload"`
	CreatedAt time.Time           `json:"created_at"`
}

type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

func toOrganizationResponse(org *models.Organization) OrganizationResponse {
	return OrganizationResponse{ID: org.ID, Name: org.Name, DefaultCurrency: org.DefaultCurrency}
}

func toMembershipResponse(member models.OrganizationMember) MembershipResponse {
	return MembershipResponse{
		OrganizationID: member.OrganizationID,
		Name:           member.Organization.Name,
		Role:           member.Role,
		JoinedAt:       member.CreatedAt,
	}
}

func toMemberResponse(member models.OrganizationMember) MemberResponse {
	return MemberResponse{
		UserID:   member.UserID,
		Name:     member.User.Name,
		Email:    member.User.Email,
		Role:     member.Role,
		JoinedAt: member.CreatedAt,
	}
}

func toContactResponse(contact *models.Contact) ContactResponse {
	return ContactResponse{
		ID:        contact.ID,
		OwnerID:   contact.OwnerID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
}

func toDealResponse(deal *models.Deal) DealResponse {
	return DealResponse{
		ID:        deal.ID,
		ContactID: deal.ContactID,
		OwnerID:   deal.OwnerID,
		Title:     deal.Title,
		Amount:    deal.Amount,
		Currency:  deal.Currency,
		Status:    deal.Status,
		Stage:     deal.Stage,
		CreatedAt: deal.CreatedAt,
		UpdatedAt: deal.UpdatedAt,
	}
}

func toTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		DealID:      task.DealID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		IsDone:      task.IsDone,
		CreatedAt:   task.CreatedAt,
	}
}

func toActivityResponse(activity *models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:        activity.ID,
		DealID:    activity.DealID,
		AuthorID:  activity.AuthorID,
		Type:      activity.Type,
		Payload:   json.RawMessage(activity.Payload),
		CreatedAt: activity.CreatedAt,
	}
}
