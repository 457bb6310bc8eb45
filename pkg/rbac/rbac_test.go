package rbac

import (
	"errors"
	"testing"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		permission string
		want       bool
	}{
		{"admin reads history", RoleAdmin, PermissionReadHistory, true},
		{"admin replays outbox", RoleAdmin, PermissionReplayOutbox, true},
		{"member cannot read history", RoleMember, PermissionReadHistory, false},
		{"member cannot clear queue", RoleMember, PermissionClearQueue, false},
		{"unknown role has nothing", "superuser", PermissionReadHistory, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.permission); got != tt.want {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.want)
			}
		})
	}
}

func TestCheckPermission(t *testing.T) {
	if err := CheckPermission(RoleAdmin, PermissionExportCSV); err != nil {
		t.Errorf("unexpected error for admin export: %v", err)
	}

	err := CheckPermission(RoleMember, PermissionExportCSV)
	if err == nil {
		t.Fatal("expected denial for member export")
	}
	var denied *PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected PermissionDeniedError, got %T", err)
	}
	if denied.Permission != PermissionExportCSV {
		t.Errorf("denied.Permission = %q", denied.Permission)
	}
}
