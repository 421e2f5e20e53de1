package service

import (
	"io"
	"sync"
	"time"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/storage"
)

// Function-field fakes. A nil field means the method is not expected
// in that test and returns zero values.

type fakeClientRepo struct {
	CreateFn                   func(client *model.Client) error
	ByIDFn                     func(id string) (*model.Client, error)
	ListFn                     func(scope access.Scope) ([]*model.Client, error)
	ByLinkedUserFn             func(userID string) (*model.Client, error)
	LinkedUserTakenFn          func(userID, excludeClientID string) (bool, error)
	UpdateFn                   func(client *model.Client) error
	SetAssignedProfessionalsFn func(id string, professionalIDs model.StringList) error
	DeleteFn                   func(id string) error
}

func (f *fakeClientRepo) Create(client *model.Client) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(client)
}

func (f *fakeClientRepo) ByID(id string) (*model.Client, error) {
	if f.ByIDFn == nil {
		return nil, repository.ErrClientNotFound
	}
	return f.ByIDFn(id)
}

func (f *fakeClientRepo) List(scope access.Scope) ([]*model.Client, error) {
	if f.ListFn == nil {
		return nil, nil
	}
	return f.ListFn(scope)
}

func (f *fakeClientRepo) ByLinkedUser(userID string) (*model.Client, error) {
	if f.ByLinkedUserFn == nil {
		return nil, repository.ErrClientNotFound
	}
	return f.ByLinkedUserFn(userID)
}

func (f *fakeClientRepo) LinkedUserTaken(userID, excludeClientID string) (bool, error) {
	if f.LinkedUserTakenFn == nil {
		return false, nil
	}
	return f.LinkedUserTakenFn(userID, excludeClientID)
}

func (f *fakeClientRepo) Update(client *model.Client) error {
	if f.UpdateFn == nil {
		return nil
	}
	return f.UpdateFn(client)
}

func (f *fakeClientRepo) SetAssignedProfessionals(id string, professionalIDs model.StringList) error {
	if f.SetAssignedProfessionalsFn == nil {
		return nil
	}
	return f.SetAssignedProfessionalsFn(id, professionalIDs)
}

func (f *fakeClientRepo) Delete(id string) error {
	if f.DeleteFn == nil {
		return nil
	}
	return f.DeleteFn(id)
}

type fakeDocumentRepo struct {
	CreateFn         func(doc *model.Document) error
	ByIDFn           func(id string) (*model.Document, error)
	ByClientFn       func(clientID string, scope access.Scope) ([]*model.Document, error)
	RecentFn         func(scope access.Scope, limit int) ([]*model.Document, error)
	ByProfessionalFn func(professionalID string, limit int) ([]*model.Document, error)
	UpdateStatusFn   func(id string, status model.DocumentStatus, note *string) error
	DeleteFn         func(id string) error
}

func (f *fakeDocumentRepo) Create(doc *model.Document) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(doc)
}

func (f *fakeDocumentRepo) ByID(id string) (*model.Document, error) {
	if f.ByIDFn == nil {
		return nil, repository.ErrDocumentNotFound
	}
	return f.ByIDFn(id)
}

func (f *fakeDocumentRepo) ByClient(clientID string, scope access.Scope) ([]*model.Document, error) {
	if f.ByClientFn == nil {
		return nil, nil
	}
	return f.ByClientFn(clientID, scope)
}

func (f *fakeDocumentRepo) Recent(scope access.Scope, limit int) ([]*model.Document, error) {
	if f.RecentFn == nil {
		return nil, nil
	}
	return f.RecentFn(scope, limit)
}

func (f *fakeDocumentRepo) ByProfessional(professionalID string, limit int) ([]*model.Document, error) {
	if f.ByProfessionalFn == nil {
		return nil, nil
	}
	return f.ByProfessionalFn(professionalID, limit)
}

func (f *fakeDocumentRepo) UpdateStatus(id string, status model.DocumentStatus, note *string) error {
	if f.UpdateStatusFn == nil {
		return nil
	}
	return f.UpdateStatusFn(id, status, note)
}

func (f *fakeDocumentRepo) Delete(id string) error {
	if f.DeleteFn == nil {
		return nil
	}
	return f.DeleteFn(id)
}

type fakeTodoRepo struct {
	CreateFn       func(todo *model.Todo) error
	ByIDFn         func(id string) (*model.Todo, error)
	ByClientFn     func(clientID string, scope access.Scope) ([]*model.Todo, error)
	RecentOpenFn   func(scope access.Scope, limit int) ([]*model.Todo, error)
	UpdateStatusFn func(id string, status model.TodoStatus, resolvedAt *time.Time) error
}

func (f *fakeTodoRepo) Create(todo *model.Todo) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(todo)
}

func (f *fakeTodoRepo) ByID(id string) (*model.Todo, error) {
	if f.ByIDFn == nil {
		return nil, repository.ErrTodoNotFound
	}
	return f.ByIDFn(id)
}

func (f *fakeTodoRepo) ByClient(clientID string, scope access.Scope) ([]*model.Todo, error) {
	if f.ByClientFn == nil {
		return nil, nil
	}
	return f.ByClientFn(clientID, scope)
}

func (f *fakeTodoRepo) RecentOpen(scope access.Scope, limit int) ([]*model.Todo, error) {
	if f.RecentOpenFn == nil {
		return nil, nil
	}
	return f.RecentOpenFn(scope, limit)
}

func (f *fakeTodoRepo) UpdateStatus(id string, status model.TodoStatus, resolvedAt *time.Time) error {
	if f.UpdateStatusFn == nil {
		return nil
	}
	return f.UpdateStatusFn(id, status, resolvedAt)
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*model.AuditEntry
	fail    error
}

func (f *fakeAuditRepo) Create(entry *model.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) Recent(limit int) ([]*model.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

func (f *fakeAuditRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, entry := range f.entries {
		out = append(out, entry.Action)
	}
	return out
}

func newTestAudit() (*AuditService, *fakeAuditRepo) {
	repo := &fakeAuditRepo{}
	return NewAuditService(repo), repo
}

// In-memory identity stores. The auth and user flows touch several
// repos per call, so map-backed fakes beat function fields here.

type memUserRepo struct {
	users map[string]*model.User // by id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (m *memUserRepo) Create(user *model.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) ByID(id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserRepo) ByEmail(email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUserRepo) Update(user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) Delete(id string) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type memProfileRepo struct {
	profiles map[string]*model.Profile // by user id
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: map[string]*model.Profile{}}
}

func (m *memProfileRepo) Create(profile *model.Profile) error {
	profile.CreatedAt = time.Now()
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *memProfileRepo) ByUserID(userID string) (*model.Profile, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return profile, nil
}

func (m *memProfileRepo) ByEmail(email string) (*model.Profile, error) {
	for _, profile := range m.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return nil, repository.ErrProfileNotFound
}

func (m *memProfileRepo) All() ([]*model.Profile, error) {
	out := make([]*model.Profile, 0, len(m.profiles))
	for _, profile := range m.profiles {
		out = append(out, profile)
	}
	return out, nil
}

func (m *memProfileRepo) Professionals() ([]*model.Profile, error) {
	var out []*model.Profile
	for _, profile := range m.profiles {
		if profile.Role == model.RoleProfessional && profile.Active {
			out = append(out, profile)
		}
	}
	return out, nil
}

func (m *memProfileRepo) SetActive(userID string, active bool) error {
	profile, ok := m.profiles[userID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	profile.Active = active
	return nil
}

func (m *memProfileRepo) Delete(userID string) error {
	if _, ok := m.profiles[userID]; !ok {
		return repository.ErrProfileNotFound
	}
	delete(m.profiles, userID)
	return nil
}

type memInviteRepo struct {
	invites map[string]*model.Invite // by email
}

func newMemInviteRepo() *memInviteRepo {
	return &memInviteRepo{invites: map[string]*model.Invite{}}
}

func (m *memInviteRepo) Create(invite *model.Invite) error {
	if _, ok := m.invites[invite.Email]; ok {
		return repository.ErrDuplicateInvite
	}
	invite.CreatedAt = time.Now()
	m.invites[invite.Email] = invite
	return nil
}

func (m *memInviteRepo) ByEmail(email string) (*model.Invite, error) {
	invite, ok := m.invites[email]
	if !ok {
		return nil, repository.ErrInviteNotFound
	}
	return invite, nil
}

func (m *memInviteRepo) All() ([]*model.Invite, error) {
	out := make([]*model.Invite, 0, len(m.invites))
	for _, invite := range m.invites {
		out = append(out, invite)
	}
	return out, nil
}

func (m *memInviteRepo) Delete(email string) error {
	if _, ok := m.invites[email]; !ok {
		return repository.ErrInviteNotFound
	}
	delete(m.invites, email)
	return nil
}

type memTokenRepo struct {
	tokens map[string]*model.Token // by raw token
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: map[string]*model.Token{}}
}

func (m *memTokenRepo) Create(token *model.Token) error {
	if token.ID == "" {
		token.ID = "token-" + token.Token
	}
	token.CreatedAt = time.Now()
	m.tokens[token.Token] = token
	return nil
}

func (m *memTokenRepo) ConsumeToken(raw string) (*model.Token, error) {
	token, ok := m.tokens[raw]
	if !ok || !token.IsValid() {
		return nil, repository.ErrTokenNotFound
	}
	now := time.Now()
	token.UsedAt = &now
	return token, nil
}

func (m *memTokenRepo) DeleteByUserAndType(userID, tokenType string) error {
	for raw, token := range m.tokens {
		if token.UserID == userID && token.Type == tokenType {
			delete(m.tokens, raw)
		}
	}
	return nil
}

type fakeStorage struct {
	saved      []string
	deleted    []string
	saveErr    error
	presignErr error
}

func (f *fakeStorage) Save(path string, file io.Reader) error {
	return f.SaveWithProgress(path, file, 0, nil)
}

func (f *fakeStorage) SaveWithProgress(path string, file io.Reader, size int64, progress storage.ProgressFunc) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, err := io.Copy(io.Discard, file); err != nil {
		return err
	}
	if progress != nil {
		progress(100)
	}
	f.saved = append(f.saved, path)
	return nil
}

func (f *fakeStorage) Delete(path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeStorage) PresignedURL(path string, expiry time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://storage.test/" + path, nil
}
