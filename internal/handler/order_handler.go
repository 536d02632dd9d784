package handler

import (
	"net/http"

	"comanda/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 注文エンジンのHTTP。卓を開ける・明細操作・支払い・締め
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type AddItemRequest struct {
	ProductID int64    `json:"product_id" validate:"required,gt=0"`
	Quantity  int64    `json:"quantity" validate:"required,gte=1"`
	Extras    []string `json:"extras"`
	Notes     string   `json:"notes" validate:"max=500"`
}

type ChangeQuantityRequest struct {
	Delta int64 `json:"delta" validate:"required"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/tables/:id/open", h.openTable)
	e.GET("/tables/:id/orders", h.listByTable)

	e.GET("/orders/:id", h.get)
	e.POST("/orders/:id/items", h.addItem)
	e.POST("/orders/:id/pay", h.markPaid)
	e.POST("/orders/:id/finalize", h.finalize)

	e.PATCH("/order-items/:id", h.changeQuantity)
	e.DELETE("/order-items/:id", h.removeItem)
}

// 冪等：開いている注文があればそれが返る
func (h *OrderHandler) openTable(c echo.Context) error {
	tableID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.OpenTable(c.Request().Context(), tableID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listByTable(c echo.Context) error {
	tableID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListOrdersByTable(c.Request().Context(), tableID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) get(c echo.Context) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) addItem(c echo.Context) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), orderID, usecase.AddItemInput{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		ExtraNames: req.Extras,
		Notes:      req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) changeQuantity(c echo.Context) error {
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req ChangeQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ChangeItemQuantity(c.Request().Context(), itemID, req.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) removeItem(c echo.Context) error {
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.RemoveItem(c.Request().Context(), itemID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) markPaid(c echo.Context) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.MarkPaid(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) finalize(c echo.Context) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Finalize(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
