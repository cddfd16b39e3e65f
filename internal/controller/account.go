package controller

import (
	"jobify-api/internal/entity"
	"jobify-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type accountRoutesHandler struct {
	accountService service.Account
	validate       *validator.Validate
}

func newAccountRoutesHandler(public *echo.Group, secured *echo.Group, services *service.Services, v *validator.Validate) *accountRoutesHandler {
	h := &accountRoutesHandler{accountService: services.Account, validate: v}

	public.POST("/auth/signup/client", h.SignUpClient)
	public.POST("/auth/signup/service-provider", h.SignUpServiceProvider)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/reactivate", h.Reactivate)

	secured.GET("/account", h.GetAccount)
	secured.PUT("/account/password", h.ChangePassword)
	secured.POST("/account/deactivate", h.Deactivate)
	secured.DELETE("/account", h.DeleteAccount)

	provider := requireRole(entity.RoleServiceProvider)
	secured.GET("/account/bank-details", h.HasBankDetails, provider)
	secured.PUT("/account/bank-details", h.UpdateBankDetails, provider)

	return h
}

type signUpClientInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Type        string `json:"type" validate:"required,oneof=individual business"`
	FirstName   string `json:"firstName" validate:"max=100"`
	LastName    string `json:"lastName" validate:"max=100"`
	CompanyName string `json:"companyName" validate:"max=200"`
	Address     string `json:"address" validate:"required,max=200"`
	City        string `json:"city" validate:"required,max=100"`
	Country     string `json:"country" validate:"required,max=100"`
}

// /auth/signup/client
func (h *accountRoutesHandler) SignUpClient(c echo.Context) error {
	var input signUpClientInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	out, err := h.accountService.RegisterClient(c.Request().Context(), &entity.RegisterClientInput{
		Email: input.Email, Password: input.Password, Type: input.Type,
		FirstName: input.FirstName, LastName: input.LastName, CompanyName: input.CompanyName,
		Address: input.Address, City: input.City, Country: input.Country,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

type signUpServiceProviderInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Address   string `json:"address" validate:"required,max=200"`
	City      string `json:"city" validate:"required,max=100"`
	Country   string `json:"country" validate:"required,max=100"`
}

// /auth/signup/service-provider
func (h *accountRoutesHandler) SignUpServiceProvider(c echo.Context) error {
	var input signUpServiceProviderInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	out, err := h.accountService.RegisterServiceProvider(c.Request().Context(), &entity.RegisterServiceProviderInput{
		Email: input.Email, Password: input.Password, FirstName: input.FirstName, LastName: input.LastName,
		Address: input.Address, City: input.City, Country: input.Country,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

type credentialsInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// /auth/login
func (h *accountRoutesHandler) Login(c echo.Context) error {
	var input credentialsInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	out, err := h.accountService.Login(c.Request().Context(), input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// /auth/reactivate
func (h *accountRoutesHandler) Reactivate(c echo.Context) error {
	var input credentialsInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	out, err := h.accountService.Reactivate(c.Request().Context(), input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// /account
func (h *accountRoutesHandler) GetAccount(c echo.Context) error {
	out, err := h.accountService.GetAccount(c.Request().Context(), principal(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type changePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// /account/password
func (h *accountRoutesHandler) ChangePassword(c echo.Context) error {
	var input changePasswordInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	if err := h.accountService.ChangePassword(c.Request().Context(), principal(c), input.OldPassword, input.NewPassword); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// /account/deactivate
func (h *accountRoutesHandler) Deactivate(c echo.Context) error {
	if err := h.accountService.Deactivate(c.Request().Context(), principal(c)); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type deleteAccountInput struct {
	Password string `json:"password" validate:"required"`
}

// /account
func (h *accountRoutesHandler) DeleteAccount(c echo.Context) error {
	var input deleteAccountInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	if err := h.accountService.DeleteAccount(c.Request().Context(), principal(c), input.Password); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type bankDetailsInput struct {
	Iban     string `json:"iban" validate:"required,min=15,max=42"`
	BankName string `json:"bankName" validate:"required,max=100"`
}

// /account/bank-details
func (h *accountRoutesHandler) UpdateBankDetails(c echo.Context) error {
	var input bankDetailsInput
	if err := bindAndValidate(c, h.validate, &input); err != nil {
		return err
	}

	if err := h.accountService.UpdateBankDetails(c.Request().Context(), principal(c).UserId, input.Iban, input.BankName); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// /account/bank-details
func (h *accountRoutesHandler) HasBankDetails(c echo.Context) error {
	ok, err := h.accountService.HasBankDetails(c.Request().Context(), principal(c).UserId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"hasBankDetails": ok})
}
