package handler

import (
	"net/http"

	"comanda/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /tables のHTTP
type TableHandler struct {
	uc *usecase.TableUsecase
}

// DI
func NewTableHandler(uc *usecase.TableUsecase) *TableHandler {
	return &TableHandler{uc: uc}
}

type CreateTableRequest struct {
	Identifier string `json:"identifier" validate:"required,max=100"`
}

func (h *TableHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/tables")

	g.GET("", h.list)
	g.POST("", h.create)
	g.DELETE("/:id", h.delete)
}

func (h *TableHandler) list(c echo.Context) error {
	out, err := h.uc.ListTables(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TableHandler) create(c echo.Context) error {
	var req CreateTableRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateTable(c.Request().Context(), req.Identifier)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *TableHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteTable(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
