package handler

import (
    "errors"   // sentinel comparisons against repository errors
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/mesaflow/reservations-backend/internal/model"
    "github.com/mesaflow/reservations-backend/internal/repository"
)

// tableView is the API representation of a table.
type tableView struct {
    ID       uint64 `json:"id"`
    Zone     string `json:"zone"`
    Capacity int    `json:"capacity"`
    Status   string `json:"status"`
}

func toTableView(t *model.Table) tableView {
    return tableView{ID: t.ID, Zone: t.Zone, Capacity: t.Capacity, Status: t.Status}
}

// TableHandler manages the physical floor plan: listing tables,
// registering new ones, and releasing a table after the guests leave.
type TableHandler struct {
    Repo *repository.TableRepo
}

// NewTableHandler constructs a TableHandler.  The repository must be
// non-nil.
func NewTableHandler(repo *repository.TableRepo) *TableHandler {
    if repo == nil {
        panic("nil repository passed to NewTableHandler")
    }
    return &TableHandler{Repo: repo}
}

// List handles GET /v1/tables.  It returns every table with its
// current status so the dashboard can render the floor plan.
func (h *TableHandler) List(c echo.Context) error {
    tables, err := h.Repo.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]tableView, 0, len(tables))
    for i := range tables {
        out = append(out, toTableView(&tables[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"tables": out, "count": len(out)})
}

// Create handles POST /v1/tables.  The body must contain a non-empty
// zone and a positive capacity; new tables start out free.
func (h *TableHandler) Create(c echo.Context) error {
    var body struct {
        Zone     string `json:"zone"`
        Capacity int    `json:"capacity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Zone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "zone is required"})
    }
    if body.Capacity < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be a positive integer"})
    }
    t := &model.Table{Zone: body.Zone, Capacity: body.Capacity, Status: model.TableFree}
    if err := h.Repo.Create(c.Request().Context(), t); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, toTableView(t))
}

// Release handles POST /v1/tables/:id/release.  It marks the table
// free regardless of its current status; releasing an already free
// table is a no-op that still answers 200.
func (h *TableHandler) Release(c echo.Context) error {
    tableID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || tableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
    }
    if err := h.Repo.Release(c.Request().Context(), tableID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"table_id": tableID, "status": model.TableFree})
}
