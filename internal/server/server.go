package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Start はechoを組み立てて起動する。
func Start(addr string, cfg config.Config, offerH *handler.OfferHandler, composerH *handler.ComposerHandler) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	RegisterRoutes(e, cfg, offerH, composerH)

	return e.Start(addr)
}
