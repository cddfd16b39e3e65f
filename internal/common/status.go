package common

// job ad
const (
	JobAdActive   = "active"
	JobAdInactive = "inactive"
)

// job vacancy: work progress
const (
	JobNeutral   = "neutral"
	JobOngoing   = "ongoing"
	JobCompleted = "completed"
)

// job vacancy: application progress
const (
	ApplicationApplied   = "applied"
	ApplicationSelected  = "selected"
	ApplicationRejected  = "rejected"
	ApplicationCompleted = "completed"
)

// job contract and contract payment
const (
	ContractPending   = "pending"
	ContractCompleted = "completed"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// accounts
const (
	AccountActive      = "active"
	AccountDeactivated = "deactivated"

	ClientIndividual = "individual"
	ClientBusiness   = "business"
)

// payment provider invoice states the reconciliation path cares about
const (
	InvoiceOpen  = "open"
	InvoicePaid  = "paid"
	InvoiceError = "error"
)
