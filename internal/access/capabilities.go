package access

import (
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

// Action is a named capability. Route guards and services check
// capabilities through Can instead of comparing roles inline.
type Action string

const (
	ActionManageUsers     Action = "manage_users"
	ActionManageInvites   Action = "manage_invites"
	ActionManageClients   Action = "manage_clients"
	ActionViewClients     Action = "view_clients"
	ActionUploadDocuments Action = "upload_documents"
	ActionReviewDocuments Action = "review_documents"
	ActionDeleteDocuments Action = "delete_documents"
	ActionCreateTodos     Action = "create_todos"
	ActionResolveTodos    Action = "resolve_todos"
	ActionViewAuditLog    Action = "view_audit_log"
)

var capabilities = map[model.Role]map[Action]bool{
	model.RoleAdmin: {
		ActionManageUsers:     true,
		ActionManageInvites:   true,
		ActionManageClients:   true,
		ActionViewClients:     true,
		ActionUploadDocuments: true,
		ActionReviewDocuments: true,
		ActionDeleteDocuments: true,
		ActionCreateTodos:     true,
		ActionResolveTodos:    true,
		ActionViewAuditLog:    true,
	},
	model.RoleProfessional: {
		ActionViewClients:     true,
		ActionUploadDocuments: true,
		ActionReviewDocuments: true,
		ActionCreateTodos:     true,
		ActionResolveTodos:    true,
	},
	model.RoleClient: {
		ActionViewClients:     true,
		ActionUploadDocuments: true,
		ActionResolveTodos:    true,
	},
}

// Can reports whether a role holds a capability.
func Can(role model.Role, action Action) bool {
	return capabilities[role][action]
}
