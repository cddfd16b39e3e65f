package controller

import (
	"jobify-api/internal/service"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, tokens TokenVerifier, logger *slog.Logger) {
	handler.HideBanner = true
	handler.Use(requestLogger(logger), recoverPanics(logger))

	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	secured := api.Group("", authenticate(tokens))

	newDiagnosticRoutesHandler(api, services)
	newAccountRoutesHandler(api, secured, services, validate)
	newJobRoutesHandler(secured, services, validate)
	newContractRoutesHandler(secured, services, validate)
	newPaymentRoutesHandler(secured, services, validate)
}
