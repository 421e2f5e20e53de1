package access

import (
	"context"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

// Grants is the denormalized permission copy written onto a Document
// or Todo at creation time. The values are copied verbatim from the
// owning Client as loaded by the caller; the writer does not re-fetch
// the client. If the client's assignment set changes later, existing
// records keep the stale copy until rewritten.
type Grants struct {
	ClientUserID            *string
	AssignedProfessionalIDs model.StringList
}

// GrantsFromClient copies the permission fields off a client record.
func GrantsFromClient(c *model.Client) Grants {
	ids := make(model.StringList, len(c.AssignedProfessionalIDs))
	copy(ids, c.AssignedProfessionalIDs)
	return Grants{
		ClientUserID:            c.UserID,
		AssignedProfessionalIDs: ids,
	}
}

// Allows reports whether a grant copy is visible under a scope. This
// is the in-memory twin of the SQL predicates the repositories build.
func (g Grants) Allows(scope Scope) bool {
	switch {
	case scope.All:
		return true
	case scope.ProfessionalID != "":
		return g.AssignedProfessionalIDs.Contains(scope.ProfessionalID)
	case scope.ClientUserID != "":
		return g.ClientUserID != nil && *g.ClientUserID == scope.ClientUserID
	}
	return false
}

// Reconciler re-syncs the denormalized copy on all documents and todos
// of a client after its assignments changed. No caller invokes it
// today; reassignment intentionally leaves old records stale. The
// signature is fixed here so a future re-sync job has one place to
// plug into.
type Reconciler func(ctx context.Context, clientID string, fresh Grants) error
