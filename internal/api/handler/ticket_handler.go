package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kanbanhq/ticket-board/internal/api/metrics"
	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

// TicketHandler handles HTTP requests for ticket operations.
type TicketHandler struct {
	service ports.TicketService
}

func NewTicketHandler(service ports.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// List handles GET /tickets.
//
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "Filter by status (Todo, InProgress, Done)"
// @Param        ownerId  query     int     false  "Filter by owner id"
// @Success      200      {array}   domain.Ticket
// @Failure      400      {object}  errorBody
// @Failure      401      {object}  errorBody
// @Router       /tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	input := ports.ListTicketsInput{Status: strings.TrimSpace(c.QueryParam("status"))}
	if raw := strings.TrimSpace(c.QueryParam("ownerId")); raw != "" {
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ownerID <= 0 {
			return domain.Invalid("ownerId", "ownerId must be a positive integer")
		}
		input.OwnerID = &ownerID
	}

	tickets, err := h.service.ListTickets(c.Request().Context(), input)
	if err != nil {
		return err
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	return c.JSON(http.StatusOK, tickets)
}

// Get handles GET /tickets/:id.
//
// @Summary      Get a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Ticket id"
// @Success      200  {object}  domain.Ticket
// @Failure      400  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// Create handles POST /tickets.
//
// @Summary      Create a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTicketRequest  true  "Ticket fields"
// @Success      201   {object}  domain.Ticket
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.Request().Context(), ports.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		OwnerID:     req.OwnerID.Value,
		ActorID:     claims.UserID,
	})
	if err != nil {
		return err
	}

	metrics.TicketOperationsTotal.WithLabelValues("created").Inc()
	metrics.TicketsCreatedTotal.WithLabelValues(string(ticket.Status)).Inc()
	return c.JSON(http.StatusCreated, ticket)
}

// Update handles PUT and PATCH /tickets/:id. Both apply a partial patch.
//
// @Summary      Update a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Ticket id"
// @Param        body  body      updateTicketRequest  true  "Fields to change"
// @Success      200   {object}  domain.Ticket
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /tickets/{id} [put]
// @Router       /tickets/{id} [patch]
func (h *TicketHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.UpdateTicket(c.Request().Context(), id, ports.UpdateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		OwnerSet:    req.OwnerID.Set,
		OwnerID:     req.OwnerID.Value,
		ActorID:     claims.UserID,
	})
	if err != nil {
		return err
	}

	metrics.TicketOperationsTotal.WithLabelValues("updated").Inc()
	return c.JSON(http.StatusOK, ticket)
}

// Delete handles DELETE /tickets/:id. Deleting a missing ticket is a 404,
// including a repeated delete.
//
// @Summary      Delete a ticket
// @Tags         tickets
// @Security     BearerAuth
// @Param        id   path  int  true  "Ticket id"
// @Success      204
// @Failure      404  {object}  errorBody
// @Router       /tickets/{id} [delete]
func (h *TicketHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTicket(c.Request().Context(), id, claims.UserID); err != nil {
		return err
	}

	metrics.TicketOperationsTotal.WithLabelValues("deleted").Inc()
	return c.NoContent(http.StatusNoContent)
}
