package dto

import "ordina/internal/domain/numbering"

// UpsertTemplateRequest configures a tenant's numbering pattern for one
// series. The pattern must contain exactly one {{SEQ:n}} placeholder.
type UpsertTemplateRequest struct {
	Pattern       string `json:"pattern" binding:"required"`
	StartingValue int64  `json:"startingValue" binding:"gte=0"`
}

// TemplateResponse represents a numbering template in API responses.
type TemplateResponse struct {
	SeriesCode    string `json:"seriesCode"`
	Pattern       string `json:"pattern"`
	StartingValue int64  `json:"startingValue"`
}

// FromTemplate converts a series template to response DTO.
func FromTemplate(tpl *numbering.SeriesTemplate) *TemplateResponse {
	return &TemplateResponse{
		SeriesCode:    tpl.SeriesCode,
		Pattern:       tpl.Pattern,
		StartingValue: tpl.StartingValue,
	}
}
