package workflow

import "github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"

// Action is a named move in the request lifecycle.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionAssign   Action = "assign"
	ActionDepart   Action = "depart"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
	ActionWithdraw Action = "withdraw"
)

// transitions maps a status and action to the resulting status.
// Terminal statuses have no entry.
var transitions = map[models.RequestStatus]map[Action]models.RequestStatus{
	models.StatusPending: {
		ActionAccept:   models.StatusAccepted,
		ActionReject:   models.StatusRejected,
		ActionAssign:   models.StatusAssigned,
		ActionCancel:   models.StatusCancelled,
		ActionWithdraw: models.StatusCancelled,
	},
	models.StatusAccepted: {
		ActionDepart:   models.StatusOnTheWay,
		ActionStart:    models.StatusInProgress,
		ActionComplete: models.StatusCompleted,
		ActionCancel:   models.StatusCancelled,
		ActionWithdraw: models.StatusCancelled,
	},
	models.StatusAssigned: {
		ActionDepart:   models.StatusOnTheWay,
		ActionStart:    models.StatusInProgress,
		ActionComplete: models.StatusCompleted,
		ActionCancel:   models.StatusCancelled,
	},
	models.StatusOnTheWay: {
		ActionStart:    models.StatusInProgress,
		ActionComplete: models.StatusCompleted,
		ActionCancel:   models.StatusCancelled,
	},
	models.StatusInProgress: {
		ActionComplete: models.StatusCompleted,
		ActionCancel:   models.StatusCancelled,
	},
}

var roleActions = map[models.Role][]Action{
	models.RoleMechanic: {ActionAccept, ActionReject, ActionDepart, ActionStart, ActionComplete, ActionCancel, ActionAssign},
	models.RoleWorker:   {ActionComplete},
	models.RoleUser:     {ActionWithdraw},
}

// Next returns the status reached by applying action in status from.
func Next(from models.RequestStatus, action Action) (models.RequestStatus, bool) {
	to, ok := transitions[from][action]
	return to, ok
}

// Allowed reports whether role may perform action.
func Allowed(role models.Role, action Action) bool {
	for _, a := range roleActions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// actionFor finds the action role can use to move from one status to
// another. Assignment is excluded since it needs a worker.
func actionFor(role models.Role, from, to models.RequestStatus) (Action, bool) {
	for _, a := range roleActions[role] {
		if a == ActionAssign {
			continue
		}
		if next, ok := Next(from, a); ok && next == to {
			return a, true
		}
	}
	return "", false
}
