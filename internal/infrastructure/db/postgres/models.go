package postgres

import (
	"time"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
)

type userModel struct {
	ID           int64 `gorm:"primaryKey"`
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type ticketModel struct {
	ID          int64 `gorm:"primaryKey"`
	Title       string
	Description string
	Status      string
	OwnerID     *int64
	Owner       *userModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ticketModel) TableName() string { return "tickets" }

func (m *ticketModel) toDomain() *domain.Ticket {
	t := &domain.Ticket{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TicketStatus(m.Status),
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Owner != nil {
		summary := m.Owner.toDomain().Summary()
		t.Owner = &summary
	}
	return t
}
