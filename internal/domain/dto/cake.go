// Package dto defines the inbound request payloads of the gateway.
package dto

// CakePayload mirrors the catalog's cake schema. The catalog collaborator
// remains the authority on create; the gateway only validates this shape
// locally before forwarding an update.
type CakePayload struct {
	Name      string  `json:"name" validate:"required,max=50"`
	Comment   string  `json:"comment" validate:"required,min=1,max=200"`
	ImageURL  string  `json:"imageUrl" validate:"required,url"`
	YumFactor float64 `json:"yumFactor" validate:"required,gte=1,lte=5"`
}
