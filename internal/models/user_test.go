package models

import (
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"user role", RoleUser, true},
		{"mechanic role", RoleMechanic, true},
		{"worker role", RoleWorker, true},
		{"invalid role", "admin", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestClaims_HasPermission(t *testing.T) {
	mechanic := &Claims{Role: RoleMechanic}
	worker := &Claims{Role: RoleWorker}
	user := &Claims{Role: RoleUser}
	unknown := &Claims{Role: "ghost"}

	tests := []struct {
		name     string
		claims   *Claims
		action   string
		expected bool
	}{
		// Mechanics run the roster and the request board
		{"mechanic can manage workers", mechanic, PermManageWorkers, true},
		{"mechanic can assign", mechanic, PermAssignWorker, true},
		{"mechanic can update status", mechanic, PermUpdateStatus, true},
		{"mechanic cannot complete task", mechanic, PermCompleteTask, false},
		{"mechanic cannot create request", mechanic, PermCreateRequest, false},

		// Workers only touch their own tasks
		{"worker can complete task", worker, PermCompleteTask, true},
		{"worker can view tasks", worker, PermViewTasks, true},
		{"worker cannot assign", worker, PermAssignWorker, false},
		{"worker cannot manage workers", worker, PermManageWorkers, false},

		// Users create and withdraw their own requests
		{"user can create request", user, PermCreateRequest, true},
		{"user can cancel request", user, PermCancelRequest, true},
		{"user can view requests", user, PermViewRequests, true},
		{"user cannot update status", user, PermUpdateStatus, false},

		{"unknown role has nothing", unknown, PermViewRequests, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.claims.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("Claims with role %s HasPermission(%s) = %v, want %v",
					tt.claims.Role, tt.action, result, tt.expected)
			}
		})
	}
}
