package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 見積一覧・詳細のHTTP
type OfferHandler struct {
	uc *usecase.OfferUsecase
}

// DI
func NewOfferHandler(uc *usecase.OfferUsecase) *OfferHandler {
	return &OfferHandler{uc: uc}
}

// /stores/:storeId/offers と /stores/:storeId/products を登録
func (h *OfferHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/stores/:storeId")
	g.Use(middleware.AuthStore(cfg))

	g.GET("/offers", h.list)
	g.GET("/offers/:id", h.detail)
	g.DELETE("/offers/:id", h.remove)

	g.GET("/products", h.listProducts)
}

func (h *OfferHandler) list(c echo.Context) error {
	storeID, ok := getStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListOffers(c.Request().Context(), storeID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OfferHandler) detail(c echo.Context) error {
	storeID, ok := getStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetOffer(c.Request().Context(), storeID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OfferHandler) remove(c echo.Context) error {
	storeID, ok := getStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.DeleteOffer(c.Request().Context(), storeID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *OfferHandler) listProducts(c echo.Context) error {
	storeID, ok := getStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListProducts(c.Request().Context(), storeID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func getStoreIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxStoreIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}
	return id, true
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
