package models

// Role represents the kind of account behind a token
type Role string

const (
	RoleUser     Role = "user"
	RoleMechanic Role = "mechanic"
	RoleWorker   Role = "worker"
)

// Permission names checked by the router and the workflow.
const (
	PermManageWorkers = "manage_workers"
	PermAssignWorker  = "assign_worker"
	PermUpdateStatus  = "update_request_status"
	PermViewRequests  = "view_requests"
	PermCompleteTask  = "complete_task"
	PermViewTasks     = "view_tasks"
	PermCreateRequest = "create_request"
	PermCancelRequest = "cancel_request"
)

// Claims represents the identity decoded from a bearer token.
// SubjectID is the mechanic, worker or user id depending on Role.
type Claims struct {
	SubjectID    string `json:"subject_id"`
	Role         Role   `json:"role"`
	MobileNumber string `json:"mobile_number,omitempty"`
	Exp          int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleUser, RoleMechanic, RoleWorker:
		return true
	default:
		return false
	}
}

// HasPermission checks if the token holder may perform an action
func (c *Claims) HasPermission(action string) bool {
	switch c.Role {
	case RoleMechanic:
		return action == PermManageWorkers || action == PermAssignWorker ||
			action == PermUpdateStatus || action == PermViewRequests
	case RoleWorker:
		return action == PermCompleteTask || action == PermViewTasks
	case RoleUser:
		return action == PermCreateRequest || action == PermCancelRequest ||
			action == PermViewRequests
	default:
		return false
	}
}
