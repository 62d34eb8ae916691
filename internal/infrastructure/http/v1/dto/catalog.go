package dto

import (
	"ordina/internal/domain/catalogs/product"
	"ordina/internal/domain/catalogs/warehouse"
)

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Unit       string `json:"unit,omitempty"`
	TrackStock bool   `json:"trackStock"`
}

// FromProduct converts domain entity to response DTO.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:         p.ID.String(),
		Code:       p.Code,
		Name:       p.Name,
		Unit:       p.Unit,
		TrackStock: p.TrackStock,
	}
}

// WarehouseResponse represents a warehouse in API responses.
type WarehouseResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// FromWarehouse converts domain entity to response DTO.
func FromWarehouse(w *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:      w.ID.String(),
		Code:    w.Code,
		Name:    w.Name,
		Address: w.Address,
	}
}
