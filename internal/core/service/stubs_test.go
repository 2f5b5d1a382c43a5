package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("u%d", r.nextID)
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) EmailTakenByOther(_ context.Context, email, excludeID string) (bool, error) {
	for id, u := range r.users {
		if u.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch domain.UserPatch) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Apartment != nil {
		u.Apartment = *patch.Apartment
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	return nil
}

func (r *stubUserRepo) ListResidents(_ context.Context, limit int) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role != domain.RoleSecretary {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubUserRepo) CountResidents(ctx context.Context) (int64, error) {
	res, _ := r.ListResidents(ctx, 0)
	return int64(len(res)), nil
}

type stubNoticeRepo struct {
	notices []*domain.Notice
	nextID  int
}

func (r *stubNoticeRepo) Create(_ context.Context, n *domain.Notice) error {
	r.nextID++
	n.ID = fmt.Sprintf("n%d", r.nextID)
	clone := *n
	r.notices = append(r.notices, &clone)
	return nil
}

func (r *stubNoticeRepo) List(_ context.Context, limit int) ([]*domain.Notice, error) {
	out := make([]*domain.Notice, 0, len(r.notices))
	for i := len(r.notices) - 1; i >= 0; i-- {
		clone := *r.notices[i]
		out = append(out, &clone)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubNoticeRepo) Delete(_ context.Context, id string) error {
	for i, n := range r.notices {
		if n.ID == id {
			r.notices = append(r.notices[:i], r.notices[i+1:]...)
			return nil
		}
	}
	return domain.ErrNoticeNotFound
}

func (r *stubNoticeRepo) Count(context.Context) (int64, error) {
	return int64(len(r.notices)), nil
}

type stubRequestRepo struct {
	requests []*domain.ServiceRequest
	nextID   int
	// createErrs are returned by the next Create calls, in order.
	createErrs []error
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.ServiceRequest) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	r.nextID++
	req.ID = fmt.Sprintf("r%d", r.nextID)
	clone := *req
	r.requests = append(r.requests, &clone)
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.ServiceRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			clone := *req
			return &clone, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (r *stubRequestRepo) FindByIdempotencyKey(_ context.Context, userID, key string) (*domain.ServiceRequest, error) {
	for _, req := range r.requests {
		if req.UserID == userID && req.IdempotencyKey == key {
			clone := *req
			return &clone, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (r *stubRequestRepo) matching(f ports.RequestFilter) []*domain.ServiceRequest {
	var out []*domain.ServiceRequest
	for i := len(r.requests) - 1; i >= 0; i-- {
		req := r.requests[i]
		if f.UserID != "" && req.UserID != f.UserID {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func (r *stubRequestRepo) List(_ context.Context, f ports.RequestFilter) ([]*domain.ServiceRequest, error) {
	return r.matching(f), nil
}

func (r *stubRequestRepo) UpdateStatus(_ context.Context, id string, status domain.RequestStatus) error {
	for _, req := range r.requests {
		if req.ID == id {
			req.Status = status
			return nil
		}
	}
	return domain.ErrRequestNotFound
}

func (r *stubRequestRepo) Count(_ context.Context, f ports.RequestFilter) (int64, error) {
	f.Limit = 0
	return int64(len(r.matching(f))), nil
}

type stubMessageRepo struct {
	messages []*domain.ChatMessage
	nextID   int
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.ChatMessage) error {
	r.nextID++
	m.ID = fmt.Sprintf("m%d", r.nextID)
	clone := *m
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *stubMessageRepo) FindByID(_ context.Context, id string) (*domain.ChatMessage, error) {
	for _, m := range r.messages {
		if m.ID == id {
			clone := *m
			return &clone, nil
		}
	}
	return nil, domain.ErrMessageNotFound
}

func (r *stubMessageRepo) Recent(_ context.Context, limit int) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	for i := len(r.messages) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		clone := *r.messages[i]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubMessageRepo) Delete(_ context.Context, id string) error {
	for i, m := range r.messages {
		if m.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

func (r *stubMessageRepo) Count(context.Context) (int64, error) {
	return int64(len(r.messages)), nil
}

type stubActivityRepo struct {
	events []*domain.ActivityEvent
}

func (r *stubActivityRepo) Insert(_ context.Context, ev *domain.ActivityEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *stubActivityRepo) Recent(_ context.Context, limit int) ([]*domain.ActivityEvent, error) {
	var out []*domain.ActivityEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}

// recorder captures activity events synchronously.
type recorder struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (r *recorder) Record(ev domain.ActivityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []domain.ActivityKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

type stubGuard struct {
	reserved map[string]bool
}

func (g *stubGuard) Reserve(_ context.Context, userID, key string) (bool, error) {
	if g.reserved == nil {
		g.reserved = make(map[string]bool)
	}
	k := userID + ":" + key
	if g.reserved[k] {
		return false, nil
	}
	g.reserved[k] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, userID, key string) error {
	delete(g.reserved, userID+":"+key)
	return nil
}

type stubThrottle struct {
	allow bool
	err   error
}

func (t stubThrottle) Allow(context.Context, string) (bool, error) {
	return t.allow, t.err
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func secretaryUser() *domain.User {
	return &domain.User{ID: "sec", Name: "Society Secretary", Apartment: "Office", Role: domain.RoleSecretary}
}

func residentUser(id, name, apartment string) *domain.User {
	return &domain.User{ID: id, Name: name, Apartment: apartment, Role: domain.RoleResident}
}
