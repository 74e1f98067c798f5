package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Ticket permissions
	PermissionTicketRead     = "ticket:read"
	PermissionTicketScan     = "ticket:scan"
	PermissionTicketTransfer = "ticket:transfer"
	PermissionTicketRefund   = "ticket:refund"

	// Passport permissions
	PermissionPassportRead    = "passport:read"
	PermissionPassportCheckIn = "passport:checkin"

	// Credit ledger permissions
	PermissionCreditsRead = "credits:read"

	// Marketplace permissions
	PermissionMarketplaceClaim = "marketplace:claim"

	// User permissions
	PermissionChangePassword = "user:change-password"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionTicketRead,
			PermissionTicketScan,
			PermissionTicketTransfer,
			PermissionTicketRefund,
			PermissionPassportRead,
			PermissionPassportCheckIn,
			PermissionCreditsRead,
			PermissionMarketplaceClaim,
			PermissionChangePassword,
		}
	case "staff":
		return []string{
			PermissionTicketRead,
			PermissionTicketScan,
			PermissionPassportRead,
			PermissionChangePassword,
		}
	case "user":
		return []string{
			PermissionTicketRead,
			PermissionTicketTransfer,
			PermissionPassportRead,
			PermissionPassportCheckIn,
			PermissionCreditsRead,
			PermissionMarketplaceClaim,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
