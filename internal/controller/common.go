package controller

import (
	"encoding/base64"
	"errors"
	"fmt"
	"jobify-api/internal/gateway"
	"jobify-api/internal/service"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type errorResponse struct {
	Reason string `json:"reason"`
}

func getAllErrorMessages(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	var builder strings.Builder
	for _, fe := range validationErrors {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	switch fe.Type() {
	case reflect.TypeOf(""):
		return getMessageForString(fe)
	case reflect.TypeOf(0):
		return getMessageForInt(fe)
	case reflect.TypeOf(time.Time{}):
		if fe.Tag() == "required" {
			return "this field is required"
		}
		return "should be an RFC 3339 timestamp"
	}

	return "incorrect value passed"
}

func getMessageForInt(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	case "email":
		return "should be an email address"
	case "iso4217":
		return "should be an ISO 4217 currency code"
	}

	return "incorrect value passed"
}

func bindAndValidate(c echo.Context, v *validator.Validate, input any) error {
	if err := c.Bind(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := v.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	return nil
}

// pathId parses a uuid path parameter, answering 400 when it is malformed.
func pathId(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'" + name + "' should be a uuid"}); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	return id, nil
}

// decodeSignature accepts plain base64 or a data URL. Empty means unsigned.
func decodeSignature(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		_, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, service.ErrInvalidSignature
		}
		s = payload
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, service.ErrInvalidSignature
	}

	return b, nil
}

func errorStatus(err error) int {
	switch err {
	case service.ErrJobAdNotFound, service.ErrVacancyNotFound, service.ErrContractNotFound,
		service.ErrContractDataMissing, service.ErrPaymentDataMissing, service.ErrInvoiceNotFound,
		service.ErrAccountNotFound:
		return http.StatusNotFound
	case service.ErrUserIsNotJobOwner, service.ErrCandidateNotSelected, service.ErrAccountDeactivated:
		return http.StatusForbidden
	case service.ErrAlreadyApplied, service.ErrEmailTaken, service.ErrContractAlreadySigned,
		service.ErrJobNotOngoing, service.ErrJobNotCompleted, service.ErrJobAdNotActive,
		service.ErrApplicationDeadlinePassed, service.ErrAlreadyPaid:
		return http.StatusConflict
	case service.ErrInvalidDeadlines, service.ErrInvalidDurationFormat, service.ErrInvalidDurationUnit,
		service.ErrInvalidSignature, service.ErrClientNameMissing:
		return http.StatusBadRequest
	case service.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case service.ErrPaymentAccountUnavailable:
		return http.StatusServiceUnavailable
	}

	var providerErr *gateway.ProviderError
	if errors.As(err, &providerErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// respondError answers with the status of a service error. Unexpected errors
// are returned to echo so they get logged.
func respondError(c echo.Context, err error) error {
	status := errorStatus(err)

	reason := err.Error()
	switch status {
	case http.StatusInternalServerError:
		reason = "Internal error"
	case http.StatusBadGateway:
		reason = "Payment provider request failed, try again"
	}

	if e := c.JSON(status, errorResponse{reason}); e != nil {
		return e
	}
	if status >= http.StatusInternalServerError {
		return err
	}

	return nil
}

func respondPdf(c echo.Context, name string, pdf []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))

	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
