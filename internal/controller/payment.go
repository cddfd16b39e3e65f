package controller

import (
	"jobify-api/internal/common"
	"jobify-api/internal/entity"
	"jobify-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type paymentRoutesHandler struct {
	paymentService service.Payment
	validate       *validator.Validate
}

func newPaymentRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *paymentRoutesHandler {
	h := &paymentRoutesHandler{paymentService: services.Payment, validate: v}

	client := requireRole(entity.RoleClient)
	provider := requireRole(entity.RoleServiceProvider)

	outer.POST("/payments/accounts", h.CreateConnectedAccount, provider)
	outer.POST("/payments/accounts/:accountId/onboarded", h.RecordOnboardedAccount, provider)
	outer.GET("/payments/accounts/:accountId/status", h.GetOnboardingStatus, provider)

	outer.POST("/payments/jobs/:jobId/pricing", h.CreatePricing, client)
	outer.POST("/payments/jobs/:jobId/invoice", h.IssueInvoice, client)
	outer.POST("/payments/jobs/:jobId/checkout", h.CreateCheckoutSession, client)
	outer.GET("/payments/jobs/:jobId/status", h.GetPaymentStatus, client)
	outer.GET("/payments/jobs/:jobId/invoice", h.GetInvoicePdf, client)

	return h
}

type connectedAccountInput struct {
	Email   string `json:"email" validate:"required,email"`
	Country string `json:"country" validate:"required,max=100"`
}

// /payments/accounts
func (h *paymentRoutesHandler) CreateConnectedAccount(c echo.Context) error {
	var input connectedAccountInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	link, err := h.paymentService.CreateConnectedAccount(c.Request().Context(), principal(c).UserId, input.Email, input.Country)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, link)
}

type onboardedInput struct {
	JobId string `json:"jobId" validate:"required,uuid"`
}

// /payments/accounts/:accountId/onboarded
func (h *paymentRoutesHandler) RecordOnboardedAccount(c echo.Context) error {
	var input onboardedInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	saved, err := h.paymentService.RecordOnboardedAccount(c.Request().Context(), principal(c).UserId,
		uuid.MustParse(input.JobId), c.Param("accountId"))
	if err != nil {
		return respondError(c, err)
	}
	if !saved {
		return c.JSON(http.StatusNotFound, errorResponse{"There is no application of yours for this job"})
	}

	return c.NoContent(http.StatusNoContent)
}

// /payments/accounts/:accountId/status
func (h *paymentRoutesHandler) GetOnboardingStatus(c echo.Context) error {
	onboarded, err := h.paymentService.GetOnboardingStatus(c.Request().Context(), principal(c).UserId, c.Param("accountId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"onboarded": onboarded})
}

// /payments/jobs/:jobId/pricing
func (h *paymentRoutesHandler) CreatePricing(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	pricing, err := h.paymentService.CreateProductPriceAndCustomer(c.Request().Context(), principal(c).UserId, jobAdId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, pricing)
}

// /payments/jobs/:jobId/invoice
func (h *paymentRoutesHandler) IssueInvoice(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	invoice, err := h.paymentService.IssueInvoice(c.Request().Context(), principal(c).UserId, jobAdId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, invoice)
}

// /payments/jobs/:jobId/checkout
func (h *paymentRoutesHandler) CreateCheckoutSession(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	session, err := h.paymentService.CreateCheckoutSession(c.Request().Context(), principal(c).UserId, jobAdId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, session)
}

// /payments/jobs/:jobId/status?session_id=
func (h *paymentRoutesHandler) GetPaymentStatus(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	sessionId := c.QueryParam("session_id")
	if sessionId == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{"'session_id': this field is required"})
	}

	status := h.paymentService.ReconcilePayment(c.Request().Context(), jobAdId, sessionId)
	if status.Status == common.InvoiceError {
		return c.JSON(http.StatusBadGateway, status)
	}

	return c.JSON(http.StatusOK, status)
}

// /payments/jobs/:jobId/invoice
func (h *paymentRoutesHandler) GetInvoicePdf(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	pdf, err := h.paymentService.GetInvoicePdf(c.Request().Context(), principal(c).UserId, jobAdId)
	if err != nil {
		return respondError(c, err)
	}

	return respondPdf(c, "invoice-"+jobAdId.String()+".pdf", pdf)
}
