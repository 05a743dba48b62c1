package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, offerH *handler.OfferHandler, composerH *handler.ComposerHandler) {
	offerH.RegisterRoutes(e, cfg)
	composerH.RegisterRoutes(e, cfg)
}
