package handler

import (
    "net/http" // HTTP status codes
    "strconv"  // parsing the limit query parameter

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/mesaflow/reservations-backend/internal/repository"
)

// defaultReservationLimit caps the dashboard listing when no explicit
// limit is requested.
const defaultReservationLimit = 50

// ReservationHandler serves the dashboard's reservation listing.
type ReservationHandler struct {
    Repo *repository.ReservationRepo
}

// NewReservationHandler constructs a ReservationHandler.  The
// repository must be non-nil.
func NewReservationHandler(repo *repository.ReservationRepo) *ReservationHandler {
    if repo == nil {
        panic("nil repository passed to NewReservationHandler")
    }
    return &ReservationHandler{Repo: repo}
}

// List handles GET /v1/reservations.  It returns the most recent
// reservations joined with customer and table details, newest first.
// An optional "limit" query parameter between 1 and 200 overrides the
// default page size.
func (h *ReservationHandler) List(c echo.Context) error {
    limit := defaultReservationLimit
    if raw := c.QueryParam("limit"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n < 1 || n > 200 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 200"})
        }
        limit = n
    }
    items, err := h.Repo.ListRecent(c.Request().Context(), limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": items, "count": len(items)})
}
