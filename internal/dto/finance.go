package dto

import "github.com/yukikurage/church-network-api/internal/services"

// BalanceDTO represents one organization's balance. Amounts are rendered
// with two decimal places.
type BalanceDTO struct {
	OrganizationID   uint64 `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	DonationsTotal   string `json:"donations_total"`
	ExpensesTotal    string `json:"expenses_total"`
	Balance          string `json:"balance"`
}

// StatsDTO represents hierarchy statistics
type StatsDTO struct {
	BranchCount int64 `json:"branch_count"`
	MemberCount int64 `json:"member_count"`
}

// ToBalanceDTO converts a balance to DTO
func ToBalanceDTO(b services.Balance) BalanceDTO {
	return BalanceDTO{
		OrganizationID:   b.OrganizationID,
		OrganizationName: b.OrganizationName,
		DonationsTotal:   b.DonationsTotal.StringFixed(2),
		ExpensesTotal:    b.ExpensesTotal.StringFixed(2),
		Balance:          b.Balance.StringFixed(2),
	}
}

// ToBalanceDTOs converts balances to DTOs
func ToBalanceDTOs(balances []services.Balance) []BalanceDTO {
	dtos := make([]BalanceDTO, len(balances))
	for i, b := range balances {
		dtos[i] = ToBalanceDTO(b)
	}
	return dtos
}

// ToStatsDTO converts stats to DTO
func ToStatsDTO(s services.Stats) StatsDTO {
	return StatsDTO{
		BranchCount: s.BranchCount,
		MemberCount: s.MemberCount,
	}
}
