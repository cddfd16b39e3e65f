package controller

import (
	"jobify-api/internal/entity"
	"jobify-api/internal/service"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type jobRoutesHandler struct {
	jobService      service.Job
	contractService service.Contract
	validate        *validator.Validate
}

func newJobRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *jobRoutesHandler {
	h := &jobRoutesHandler{jobService: services.Job, contractService: services.Contract, validate: v}

	client := requireRole(entity.RoleClient)
	provider := requireRole(entity.RoleServiceProvider)

	outer.POST("/jobs", h.PostJobAd, client)
	outer.GET("/jobs/:jobId", h.GetJobAd)
	outer.PUT("/jobs/:jobId/status", h.UpdateJobAdStatus, client)
	outer.POST("/jobs/:jobId/apply", h.ApplyToJob, provider)
	outer.GET("/jobs/:jobId/applicants", h.GetApplicants, client)
	outer.POST("/jobs/:jobId/candidates/:candidateId/select", h.SelectCandidate, client)
	outer.POST("/jobs/:jobId/complete", h.MarkJobComplete, client)

	return h
}

type postJobAdInput struct {
	Title               string          `json:"title" validate:"required,max=100"`
	Description         string          `json:"description" validate:"required,max=2000"`
	HourlyRate          decimal.Decimal `json:"hourlyRate"`
	PaymentCurrency     string          `json:"paymentCurrency" validate:"required,iso4217"`
	WorkingHours        int             `json:"workingHours" validate:"required,gte=1,lte=24"`
	Duration            string          `json:"duration" validate:"required,max=30"`
	WorkDeadline        time.Time       `json:"workDeadline" validate:"required"`
	ApplicationDeadline time.Time       `json:"applicationDeadline" validate:"required"`
}

// /jobs
func (h *jobRoutesHandler) PostJobAd(c echo.Context) error {
	var input postJobAdInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}
	if !input.HourlyRate.IsPositive() {
		return c.JSON(http.StatusBadRequest, errorResponse{"'HourlyRate': should be greater than 0"})
	}

	jobAd, err := h.jobService.CreateJobAd(c.Request().Context(), &entity.CreateJobAdInput{
		ClientId:            principal(c).UserId,
		Title:               input.Title,
		Description:         input.Description,
		HourlyRate:          input.HourlyRate,
		PaymentCurrency:     input.PaymentCurrency,
		WorkingHours:        input.WorkingHours,
		Duration:            input.Duration,
		WorkDeadline:        input.WorkDeadline,
		ApplicationDeadline: input.ApplicationDeadline,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, jobAd)
}

// /jobs/:jobId
func (h *jobRoutesHandler) GetJobAd(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	jobAd, err := h.jobService.GetJobAd(c.Request().Context(), jobAdId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, jobAd)
}

type jobAdStatusInput struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// /jobs/:jobId/status
func (h *jobRoutesHandler) UpdateJobAdStatus(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	var input jobAdStatusInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	jobAd, err := h.jobService.UpdateJobAdStatus(c.Request().Context(), principal(c).UserId, jobAdId, input.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, jobAd)
}

// /jobs/:jobId/apply
func (h *jobRoutesHandler) ApplyToJob(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	vacancy, err := h.jobService.ApplyToJob(c.Request().Context(), principal(c).UserId, jobAdId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, vacancy)
}

// /jobs/:jobId/applicants
func (h *jobRoutesHandler) GetApplicants(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	applicants, err := h.jobService.GetApplicants(c.Request().Context(), principal(c).UserId, jobAdId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, applicants)
}

type signatureInput struct {
	Signature string `json:"signature"`
}

// /jobs/:jobId/candidates/:candidateId/select
func (h *jobRoutesHandler) SelectCandidate(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}
	candidateId, err := pathId(c, "candidateId")
	if err != nil {
		return err
	}

	var input signatureInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}
	signature, err := decodeSignature(input.Signature)
	if err != nil {
		return respondError(c, err)
	}

	pdf, err := h.contractService.GenerateClientContract(c.Request().Context(), principal(c).UserId, jobAdId, candidateId, signature)
	if err != nil {
		return respondError(c, err)
	}

	return respondPdf(c, "contract-"+jobAdId.String()+".pdf", pdf)
}

// /jobs/:jobId/complete
func (h *jobRoutesHandler) MarkJobComplete(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	if err := h.contractService.MarkJobComplete(c.Request().Context(), principal(c).UserId, jobAdId); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
