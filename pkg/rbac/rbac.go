package rbac

// Permissions gating the admin CRM surface.
const (
	PermissionReadHistory  = "notifications:read"
	PermissionExportCSV    = "notifications:export"
	PermissionClearQueue   = "notifications:clear"
	PermissionProcessTest  = "notifications:process_test"
	PermissionReplayOutbox = "outbox:replay"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

var rolePermissions = map[string][]string{
	RoleMember: {},
	RoleAdmin: {
		PermissionReadHistory,
		PermissionExportCSV,
		PermissionClearQueue,
		PermissionProcessTest,
		PermissionReplayOutbox,
	},
}

// HasPermission checks whether a role carries a permission. The role comes
// from the JWT claims minted by the external auth provider.
func HasPermission(role, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission returns an error instead of a boolean, for handler use.
func CheckPermission(role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

type PermissionDeniedError struct {
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}
