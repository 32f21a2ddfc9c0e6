package workflow

import (
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	ID   primitive.ObjectID
	Role models.Role
}

// ActorFromClaims converts verified token claims into an Actor.
func ActorFromClaims(claims *models.Claims) (Actor, error) {
	if claims == nil || !models.IsValidRole(claims.Role) {
		return Actor{}, errInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(claims.SubjectID)
	if err != nil {
		return Actor{}, errInvalidToken
	}
	return Actor{ID: id, Role: claims.Role}, nil
}

func (a Actor) require(role models.Role) error {
	if a.Role != role || a.ID.IsZero() {
		return errInvalidToken
	}
	return nil
}
