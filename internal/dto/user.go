package dto

import "github.com/yukikurage/church-network-api/internal/models"

// UserDTO represents a principal in API responses
type UserDTO struct {
	ID             uint64      `json:"user_id"`
	Email          string      `json:"email"`
	Role           models.Role `json:"role"`
	OrganizationID uint64      `json:"organization_id"`
}

// RegistrationDTO is returned after registering a root organization
type RegistrationDTO struct {
	User         UserDTO         `json:"user"`
	Organization OrganizationDTO `json:"organization"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	}
}
