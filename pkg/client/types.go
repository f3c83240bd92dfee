package client

import (
	"encoding/json"
	"time"
)

type User struct {
	ID        int64     `json:"id" yaml:"id"`
	Username  string    `json:"username" yaml:"username"`
	Email     string    `json:"email" yaml:"email"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

type UserSummary struct {
	ID       int64  `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
}

type Ticket struct {
	ID          int64        `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Status      string       `json:"status" yaml:"status"`
	OwnerID     *int64       `json:"ownerId" yaml:"ownerId"`
	Owner       *UserSummary `json:"owner,omitempty" yaml:"owner,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" yaml:"updatedAt"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	Token     string    `json:"token" yaml:"token"`
	ExpiresAt time.Time `json:"expiresAt" yaml:"expiresAt"`
	User      User      `json:"user" yaml:"user"`
}

type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type NewTicket struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	OwnerID     *int64 `json:"ownerId,omitempty"`
}

// TicketPatch is a partial ticket update. Nil fields are not sent.
// Unassign sends "ownerId": null and wins over OwnerID.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *string
	OwnerID     *int64
	Unassign    bool
}

func (p TicketPatch) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Status != nil {
		body["status"] = *p.Status
	}
	switch {
	case p.Unassign:
		body["ownerId"] = nil
	case p.OwnerID != nil:
		body["ownerId"] = *p.OwnerID
	}
	return json.Marshal(body)
}

// UserPatch is a partial user update. Nil fields are not sent.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// TicketFilter narrows ListTickets. Zero values mean no filter.
type TicketFilter struct {
	Status  string
	OwnerID *int64
}
