package dto

import (
	"time"

	"github.com/yukikurage/church-network-api/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *uint64   `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BranchDTO represents a branch in listings
type BranchDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ToOrganizationDTO converts an organization to DTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		ParentID:  org.ParentID,
		CreatedAt: org.CreatedAt,
	}
}

// ToBranchDTOs converts branches to DTOs
func ToBranchDTOs(branches []models.Organization) []BranchDTO {
	dtos := make([]BranchDTO, len(branches))
	for i, b := range branches {
		dtos[i] = BranchDTO{ID: b.ID, Name: b.Name}
	}
	return dtos
}
