package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

// TicketRepository implements ports.TicketRepository on top of gorm. Reads
// preload the owner so tickets carry their owner summary.
type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := ticketModel{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		OwnerID:     t.OwnerID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return ticketWriteError(err)
	}

	stored, err := r.find(ctx, m.ID)
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, id)
}

func (r *TicketRepository) List(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := r.db.WithContext(ctx).Preload("Owner").Order("id ASC")
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}

	var rows []ticketModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	tickets := make([]*domain.Ticket, 0, len(rows))
	for i := range rows {
		tickets = append(tickets, rows[i].toDomain())
	}
	return tickets, nil
}

func (r *TicketRepository) Update(ctx context.Context, id int64, changes ports.TicketChanges) (*domain.Ticket, error) {
	values := map[string]any{"updated_at": time.Now().UTC()}
	if changes.Title != nil {
		values["title"] = *changes.Title
	}
	if changes.Description != nil {
		values["description"] = *changes.Description
	}
	if changes.Status != nil {
		values["status"] = string(*changes.Status)
	}
	if changes.OwnerSet {
		if changes.OwnerID != nil {
			values["owner_id"] = *changes.OwnerID
		} else {
			values["owner_id"] = nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&ticketModel{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, ticketWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrTicketNotFound
	}
	return r.find(ctx, id)
}

func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&ticketModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) find(ctx context.Context, id int64) (*domain.Ticket, error) {
	var m ticketModel
	if err := r.db.WithContext(ctx).Preload("Owner").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m.toDomain(), nil
}

func ticketWriteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.Invalid("ownerId", "owner does not exist")
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return domain.Invalid("status", "status is not allowed")
	case isValueTooLong(err):
		return domain.Invalid("title", "title is too long")
	}
	return fmt.Errorf("db error: %w", err)
}
