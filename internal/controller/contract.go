package controller

import (
	"jobify-api/internal/entity"
	"jobify-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type contractRoutesHandler struct {
	contractService service.Contract
	validate        *validator.Validate
}

func newContractRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *contractRoutesHandler {
	h := &contractRoutesHandler{contractService: services.Contract, validate: v}

	outer.POST("/contracts/job/:jobId/sign", h.SignContract, requireRole(entity.RoleServiceProvider))
	outer.GET("/contracts/job/:jobId", h.GetContractByJobAd)
	outer.GET("/contracts/:contractId", h.GetContractById)

	return h
}

// /contracts/job/:jobId/sign
func (h *contractRoutesHandler) SignContract(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
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

	pdf, err := h.contractService.GenerateServiceProviderContract(c.Request().Context(), principal(c).UserId, jobAdId, signature)
	if err != nil {
		return respondError(c, err)
	}

	return respondPdf(c, "contract-"+jobAdId.String()+".pdf", pdf)
}

// /contracts/job/:jobId
func (h *contractRoutesHandler) GetContractByJobAd(c echo.Context) error {
	jobAdId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	pdf, err := h.contractService.GetContractByJobAd(c.Request().Context(), principal(c), jobAdId)
	if err != nil {
		return respondError(c, err)
	}

	return respondPdf(c, "contract-"+jobAdId.String()+".pdf", pdf)
}

// /contracts/:contractId
func (h *contractRoutesHandler) GetContractById(c echo.Context) error {
	contractId, err := pathId(c, "contractId")
	if err != nil {
		return err
	}

	pdf, err := h.contractService.GetContractById(c.Request().Context(), principal(c), contractId)
	if err != nil {
		return respondError(c, err)
	}

	return respondPdf(c, "contract-"+contractId.String()+".pdf", pdf)
}
