/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.
*/
package api

import (
	"github.com/brokerkit/client-sync/ingest"
)

// RecordDTO is one stored client in API responses. Position is the
// absolute sheet row, included so UIs can reference rows unambiguously.
type RecordDTO struct {
	Position         int    `json:"position"`
	UniqueID         string `json:"unique_id"`
	FullName         string `json:"full_name"`
	ExternalID       string `json:"external_id"`
	IDType           string `json:"id_type"`
	Phone1           string `json:"phone_1"`
	Phone2           string `json:"phone_2,omitempty"`
	Email            string `json:"email,omitempty"`
	CompanyClientID  string `json:"company_client_id,omitempty"`
	LastUpdatedAt    string `json:"last_updated_at"`
	NotificationSent string `json:"notification_sent"`
	Notes            string `json:"notes,omitempty"`
}

func recordDTO(rec ingest.ClientRecord, position int) RecordDTO {
	return RecordDTO{
		Position:         position,
		UniqueID:         rec.UniqueID,
		FullName:         rec.FullName,
		ExternalID:       rec.ExternalID,
		IDType:           rec.IDType,
		Phone1:           rec.Phone1,
		Phone2:           rec.Phone2,
		Email:            rec.Email,
		CompanyClientID:  rec.CompanyClientID,
		LastUpdatedAt:    rec.LastUpdatedAt,
		NotificationSent: rec.NotificationSent,
		Notes:            rec.Notes,
	}
}

// SetNotificationRequest flips one client's notification flag.
type SetNotificationRequest struct {
	Sent bool `json:"sent"`
}

// CampaignRequest starts a notification campaign over a collection's
// pending clients.
type CampaignRequest struct {
	Template string `json:"template"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
