package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kanbanhq/ticket-board/internal/api/middleware"
	"github.com/kanbanhq/ticket-board/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. Their
// absence means the route was mounted without the gate, so answer 401
// rather than act anonymously.
func ctxClaims(c echo.Context) (*domain.UserClaims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(*domain.UserClaims)
	if !ok || claims == nil || claims.UserID <= 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// pathID parses the :id route parameter as a positive integer.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "id must be a positive integer")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("body", "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
