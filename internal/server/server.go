package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	return e
}

func Start(e *echo.Echo, port string) error {
	addr := port
	if len(addr) == 0 || addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
