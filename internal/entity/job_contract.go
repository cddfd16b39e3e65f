package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type JobContract struct {
	Id                       uuid.UUID `db:"id"`
	JobAdId                  uuid.UUID `db:"job_ad_id"`
	Status                   string    `db:"status"`
	Contract                 []byte    `db:"contract"`
	ClientSignature          []byte    `db:"client_signature"`
	ServiceProviderSignature []byte    `db:"service_provider_signature"`
	PriceId                  string    `db:"price_id"`
	ProductId                string    `db:"product_id"`
	DraftedAt                time.Time `db:"drafted_at"`
	CreatedAt                time.Time `db:"created_at"`
	UpdatedAt                time.Time `db:"updated_at"`
}

func (c *JobContract) ClientSigned() bool {
	return len(c.ClientSignature) > 0
}
