package entity

import (
	"jobify-api/internal/common"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient          Role = "client"
	RoleServiceProvider Role = "service provider"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleServiceProvider
}

// Principal is the verified caller produced by the auth middleware.
type Principal struct {
	UserId uuid.UUID
	Role   Role
}

func (p Principal) IsClient() bool          { return p.Role == RoleClient }
func (p Principal) IsServiceProvider() bool { return p.Role == RoleServiceProvider }

// db model
type Client struct {
	Id          uuid.UUID `db:"id"`
	Email       string    `db:"email"`
	Password    string    `db:"password"`
	Type        string    `db:"type"`
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	CompanyName string    `db:"company_name"`
	Address     string    `db:"address"`
	City        string    `db:"city"`
	Country     string    `db:"country"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

// DisplayName is the name used on contracts and by the payment provider:
// the company for business clients, the person otherwise.
func (c *Client) DisplayName() string {
	if c.Type == common.ClientBusiness && c.CompanyName != "" {
		return c.CompanyName
	}

	return c.FirstName + " " + c.LastName
}

// db model
type ServiceProvider struct {
	Id        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Address   string    `db:"address"`
	City      string    `db:"city"`
	Country   string    `db:"country"`
	Iban      string    `db:"iban"`
	BankName  string    `db:"bank_name"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *ServiceProvider) FullName() string {
	return s.FirstName + " " + s.LastName
}

func (s *ServiceProvider) HasBankDetails() bool {
	return s.Iban != "" && s.BankName != ""
}

// Account is the credential view shared by both user kinds.
type Account struct {
	Id       uuid.UUID
	Role     Role
	Email    string
	Password string
	Status   string
}

// service + repo input model
type RegisterClientInput struct {
	Email       string
	Password    string // plain on service input, hashed before it reaches repo
	Type        string
	FirstName   string
	LastName    string
	CompanyName string
	Address     string
	City        string
	Country     string
}

// service + repo input model
type RegisterServiceProviderInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Address   string
	City      string
	Country   string
}

// controller model
type AccountOutputModel struct {
	Id     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// controller model
type AuthOutputModel struct {
	Token string             `json:"token"`
	User  AccountOutputModel `json:"user"`
}
