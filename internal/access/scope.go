// Package access holds the role-based data-access rules: the read
// scope applied to every list query, the denormalized permission copy
// written onto documents and todos, and the capability table consumed
// by the route guard and the services.
package access

import (
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

// Actor is the authenticated caller as seen by the service layer.
type Actor struct {
	ID   string
	Role model.Role
}

// Scope is the read predicate for a caller. Exactly one of the three
// fields is set:
//   - All: admin, no restriction
//   - ProfessionalID: restrict to records whose assigned professional
//     set contains the id
//   - ClientUserID: restrict to records whose linked portal-user id
//     equals the id
//
// Repositories translate the scope into the SQL predicate; services
// apply the same check in memory when a single record was fetched by
// id.
type Scope struct {
	All            bool
	ProfessionalID string
	ClientUserID   string
}

// ScopeFor builds the read scope for an actor. It is applied the same
// way when listing clients, documents and todos.
func ScopeFor(actor Actor) Scope {
	switch actor.Role {
	case model.RoleAdmin:
		return Scope{All: true}
	case model.RoleProfessional:
		return Scope{ProfessionalID: actor.ID}
	default:
		return Scope{ClientUserID: actor.ID}
	}
}
