package teams

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/requestmeta"
)

// fakeGateway implements TeamsGateway for tests. It records every call in
// order and returns configured data or injected errors.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	teams     []Team
	tenancies []Tenancy
	members   []Member
	joined    []Member
	created   CreatedTeam

	listAllErr    error
	tenanciesErr  error
	membersErr    error
	joinedErr     error
	applyErr      error
	handleErr     error
	removeErr     error
	agreeErr      error
	createErr     error
	inviteErr     error
	beforeListAll func(context.Context)
}

var _ TeamsGateway = (*fakeGateway)(nil)

func (f *fakeGateway) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGateway) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) count(call string) int {
	n := 0
	for _, recorded := range f.recorded() {
		if recorded == call {
			n++
		}
	}
	return n
}

func (f *fakeGateway) ListAllTeams(ctx context.Context) ([]Team, error) {
	f.record("ListAllTeams")
	if f.beforeListAll != nil {
		f.beforeListAll(ctx)
	}
	if f.listAllErr != nil {
		return nil, f.listAllErr
	}
	return f.teams, nil
}

func (f *fakeGateway) ListTenancies(context.Context) ([]Tenancy, error) {
	f.record("ListTenancies")
	if f.tenanciesErr != nil {
		return nil, f.tenanciesErr
	}
	return f.tenancies, nil
}

func (f *fakeGateway) ListMembers(_ context.Context, tenantID string) ([]Member, error) {
	f.record("ListMembers:%s", tenantID)
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.members, nil
}

func (f *fakeGateway) ListJoinedUsers(_ context.Context, tenantID string) ([]Member, error) {
	f.record("ListJoinedUsers:%s", tenantID)
	if f.joinedErr != nil {
		return nil, f.joinedErr
	}
	return f.joined, nil
}

func (f *fakeGateway) ApplyTeam(_ context.Context, tenantID string) error {
	f.record("ApplyTeam:%s", tenantID)
	return f.applyErr
}

func (f *fakeGateway) HandleApplication(_ context.Context, tenantID string, userID string, accept bool) error {
	f.record("HandleApplication:%s:%s:%t", tenantID, userID, accept)
	return f.handleErr
}

func (f *fakeGateway) RemoveUser(_ context.Context, tenantID string, userID string) error {
	f.record("RemoveUser:%s:%s", tenantID, userID)
	return f.removeErr
}

func (f *fakeGateway) AgreeTeam(_ context.Context, tenantID string) error {
	f.record("AgreeTeam:%s", tenantID)
	return f.agreeErr
}

func (f *fakeGateway) CreateTeam(_ context.Context, name string) (CreatedTeam, error) {
	f.record("CreateTeam:%s", name)
	if f.createErr != nil {
		return CreatedTeam{}, f.createErr
	}
	return f.created, nil
}

func (f *fakeGateway) InviteMember(_ context.Context, tenantID string, email string) error {
	f.record("InviteMember:%s:%s", tenantID, email)
	return f.inviteErr
}

// memoryLedger is an in-memory submission ledger for tests.
type memoryLedger struct {
	mu   sync.Mutex
	seen map[string]time.Time
	err  error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{seen: map[string]time.Time{}}
}

func (l *memoryLedger) ConsumeSubmission(_ context.Context, id string, expiresAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if _, ok := l.seen[id]; ok {
		return false, nil
	}
	l.seen[id] = expiresAt
	return true, nil
}

// ownerGateway returns a gateway where viewer u1 owns team t1.
func ownerGateway() *fakeGateway {
	return &fakeGateway{
		teams: []Team{{TenantID: "t1", Name: "Acme", OwnerName: "Ann", OwnerEmail: "ann@example.com"}},
		tenancies: []Tenancy{
			{TenantID: "t1", Name: "Acme", Role: roleOwner, OwnerName: "Ann"},
		},
		members: []Member{
			{UserID: "u1", Nickname: "Ann", Role: roleOwner},
			{UserID: "u2", Nickname: "Bob", Role: rolePending},
		},
	}
}

func testBase() modulehandler.Base {
	return modulehandler.NewBase(module.Dependencies{
		ResolveUserID: func(*http.Request) string { return "u1" },
		ResolveViewer: func(*http.Request) module.Viewer {
			return module.Viewer{UserID: "u1", Nickname: "Ann"}
		},
	}, requestmeta.SchemePolicy{})
}
