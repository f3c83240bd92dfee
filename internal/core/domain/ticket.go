package domain

import "time"

// TicketStatus is the swimlane a ticket sits in.
type TicketStatus string

const (
	StatusTodo       TicketStatus = "Todo"
	StatusInProgress TicketStatus = "InProgress"
	StatusDone       TicketStatus = "Done"
)

// TicketStatuses lists every valid status in board order.
var TicketStatuses = []TicketStatus{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the enumerated statuses.
func (s TicketStatus) Valid() bool {
	for _, allowed := range TicketStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Ticket is a unit of work on the board.
type Ticket struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	OwnerID     *int64       `json:"ownerId"`
	Owner       *UserSummary `json:"owner,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
