package models

// Requests for the report HTTP endpoints. Defined in domain for consistency and reuse.

type OpportunitiesRequest struct {
	Limit int `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
}
