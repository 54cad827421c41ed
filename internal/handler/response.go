package handler

import (
	"log"
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 全エンドポイント共通の応答形。
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return fail(c, he.Status, he.Message)
	}

	//500。内部の詳細はクライアントに出さない
	log.Printf("unhandled error: %v", err)
	return fail(c, http.StatusInternalServerError, "internal error")
}
