package handler

import (
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 見積作成画面のHTTP
type ComposerHandler struct {
	uc *usecase.ComposerUsecase
}

// DI
func NewComposerHandler(uc *usecase.ComposerUsecase) *ComposerHandler {
	return &ComposerHandler{uc: uc}
}

type OpenComposerRequest struct {
	OfferID string `json:"offer_id"` // 空なら新規作成
}

type UpdateItemRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type UpdateDocumentRequest struct {
	Notes      *string `json:"notes"`
	ExpiryDate *string `json:"expiry_date"` // RFC3339
}

// /stores/:storeId/composer を登録
func (h *ComposerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/stores/:storeId/composer")
	g.Use(middleware.AuthStore(cfg))

	g.POST("/open", h.open)
	g.GET("", h.view)
	g.PATCH("", h.patchDocument)
	g.DELETE("", h.close)

	g.POST("/items", h.addItem)
	g.PATCH("/items/:id", h.patchItem)
	g.DELETE("/items/:id", h.deleteItem)

	g.POST("/save", h.save)
}

// 新規（bodyのoffer_idが空）か既存編集かをここで分岐する
func (h *ComposerHandler) open(c echo.Context) error {
	storeID, ok := getStoreIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OpenComposerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var out usecase.ComposerView
	var err error
	if req.OfferID == "" {
		out, err = h.uc.OpenCreate(c.Request().Context(), storeID)
	} else {
		out, err = h.uc.OpenEdit(c.Request().Context(), storeID, req.OfferID)
	}
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ComposerHandler) view(c echo.Context) error {
	if _, ok := getStoreIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.View()
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ComposerHandler) patchDocument(c echo.Context) error {
	if _, ok := getStoreIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.UpdateDocumentInput{Notes: req.Notes}
	if req.ExpiryDate != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiryDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid expiry_date"})
		}
		in.ExpiryDate = &t
	}

	out, err := h.uc.UpdateDocument(in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ComposerHandler) close(c echo.Context) error {
	if _, ok := getStoreIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Close(); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ComposerHandler) addItem(c echo.Context) error {
	if _, ok := getStoreIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.AddItem()
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ComposerHandler) patchItem(c echo.Context) error {
	if _, ok := getStoreIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateItem(itemID, usecase.UpdateItemInput{
		Field: req.Field,
		Value: req.Value,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ComposerHandler) deleteItem(c echo.Context) error {
	if _, ok := getStoreIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.RemoveItem(itemID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ComposerHandler) save(c echo.Context) error {
	if _, ok := getStoreIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Save(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
