package domain

import "strings"

// Roles understood by the role guard.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID    uint   `json:"userId"`
	Role      string `json:"role"`
	RequestID string `json:"requestId"`
}

func (rc RequestContext) IsAdmin() bool {
	return strings.EqualFold(rc.Role, RoleAdmin)
}

// CanAccessOwned reports whether the caller may read or change a resource owned by ownerID.
func (rc RequestContext) CanAccessOwned(ownerID uint) bool {
	return rc.IsAdmin() || (rc.UserID != 0 && rc.UserID == ownerID)
}

func ValidRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusActive, StatusInactive:
		return true
	}
	return false
}
