package templates

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	_ "github.com/louisbranch/teamdesk/internal/platform/i18n"
)

func render(t *testing.T, component templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func english() Localizer {
	return message.NewPrinter(language.MustParse("en-US"))
}

func TestAllTeamsSectionRendersApplyControl(t *testing.T) {
	t.Parallel()

	html := render(t, AllTeamsSection(AllTeamsSectionView{Rows: []TeamRowView{{
		TenantID: "t1",
		Name:     "Acme",
		Apply:    RowAction{Name: "apply", LabelKey: "teams.action.apply", URL: "/app/teams/t1/apply"},
	}}}, english()))

	for _, want := range []string{
		`id="teams-all"`,
		`hx-sync="this:replace"`,
		`data-tenant-id="t1"`,
		"<td>Acme</td>",
		`hx-post="/app/teams/t1/apply"`,
		`data-action="apply">Apply</button>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
	if strings.Contains(html, `data-action="apply" disabled`) {
		t.Fatalf("apply control should be enabled: %s", html)
	}
}

func TestAllTeamsSectionDisablesAppliedControl(t *testing.T) {
	t.Parallel()

	html := render(t, AllTeamsSection(AllTeamsSectionView{Rows: []TeamRowView{{
		TenantID: "t1",
		Name:     "Acme",
		Apply:    RowAction{Name: "apply", LabelKey: "teams.action.applied", URL: "/app/teams/t1/apply", Disabled: true},
	}}}, english()))
	if !strings.Contains(html, `data-action="apply" disabled>Applied</button>`) {
		t.Fatalf("expected disabled applied control: %s", html)
	}
}

func TestSectionsEscapeUserText(t *testing.T) {
	t.Parallel()

	html := render(t, TenanciesSection(TenanciesSectionView{Rows: []TenancyRowView{{
		TenantID: "t1",
		Name:     `<script>alert("x")</script>`,
		RoleKey:  "teams.role.owner",
	}}}, english()))
	if strings.Contains(html, "<script>alert") {
		t.Fatalf("unescaped user text: %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("expected escaped text: %s", html)
	}
}

func TestSectionNoticeAndEmptyState(t *testing.T) {
	t.Parallel()

	html := render(t, MembersSection(MembersSectionView{
		TenantID: "t1",
		Notice:   &NoticeView{Kind: "error", Message: "forbidden"},
	}, english()))
	if !strings.Contains(html, `role="alert">forbidden</p>`) {
		t.Fatalf("missing error notice: %s", html)
	}
	if !strings.Contains(html, "This team has no members yet.") {
		t.Fatalf("missing empty state: %s", html)
	}
	if strings.Contains(html, "data-user-id") {
		t.Fatalf("expected no member rows: %s", html)
	}
	if !strings.Contains(html, `hx-get="/app/teams/members?reload=1&amp;tenant_id=t1"`) {
		t.Fatalf("missing member reload url: %s", html)
	}
}

func TestMembersSectionRendersRowActionsWithTenant(t *testing.T) {
	t.Parallel()

	html := render(t, MembersSection(MembersSectionView{
		TenantID: "t1",
		Rows: []MemberRowView{{
			UserID:  "u2",
			RoleKey: "teams.role.pending",
			Actions: []RowAction{
				{Name: "accept", LabelKey: "teams.action.accept", URL: "/app/teams/members/u2/accept", Fields: []FormField{{Name: "tenant_id", Value: "t1"}}},
				{Name: "reject", LabelKey: "teams.action.reject", URL: "/app/teams/members/u2/reject", Fields: []FormField{{Name: "tenant_id", Value: "t1"}}},
			},
		}},
	}, english()))
	for _, want := range []string{
		`data-action="accept">Accept</button>`,
		`data-action="reject">Reject</button>`,
		`<input type="hidden" name="tenant_id" value="t1">`,
		"<td>Pending</td>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
}

func TestRowActionsCarryPageView(t *testing.T) {
	t.Parallel()

	html := render(t, AllTeamsSection(AllTeamsSectionView{
		View: "v1",
		Rows: []TeamRowView{{
			TenantID: "t1",
			Name:     "Acme",
			Apply:    RowAction{Name: "apply", LabelKey: "teams.action.apply", URL: "/app/teams/t1/apply"},
		}},
	}, english()))
	for _, want := range []string{
		`hx-get="/app/teams/all?reload=1&amp;view=v1"`,
		`hx-trigger="teams:refresh[detail.except!=&#39;teams-all&#39;] from:body"`,
		`<input type="hidden" name="view" value="v1">`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
}

func TestCreateTeamDialogStates(t *testing.T) {
	t.Parallel()

	closed := render(t, CreateTeamDialog(CreateTeamFormView{}, english()))
	if closed != `<dialog id="teams-create" class="teams-create"></dialog>` {
		t.Fatalf("closed dialog = %s", closed)
	}

	open := render(t, CreateTeamDialog(CreateTeamFormView{
		Open:       true,
		Name:       "Ac",
		FieldError: "Team name is required.",
		Token:      "tok",
	}, english()))
	for _, want := range []string{
		" open>",
		`name="form_token" value="tok"`,
		`value="Ac"`,
		`aria-invalid="true"`,
		"Team name is required.",
		`hx-disabled-elt="find button[type=submit]"`,
	} {
		if !strings.Contains(open, want) {
			t.Fatalf("missing %q in %s", want, open)
		}
	}
}

func TestTeamsPageOmitsMembersWhenNotOwner(t *testing.T) {
	t.Parallel()

	html := render(t, TeamsPage(TeamsPageView{}, english()))
	if strings.Contains(html, `id="teams-members"`) {
		t.Fatalf("members section should be hidden: %s", html)
	}
	for _, id := range []string{`id="teams-page"`, `id="teams-all"`, `id="teams-tenancies"`, `id="teams-create"`} {
		if !strings.Contains(html, id) {
			t.Fatalf("missing %s", id)
		}
	}

	owner := render(t, TeamsPage(TeamsPageView{Members: &MembersSectionView{TenantID: "t1"}}, english()))
	if !strings.Contains(owner, `id="teams-members"`) {
		t.Fatalf("members section should render for owners: %s", owner)
	}
}

func TestAppLayoutWrapsChildren(t *testing.T) {
	t.Parallel()

	child := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>child</p>")
		return err
	})
	var buf bytes.Buffer
	layout := AppLayout(LayoutOptions{
		Title:      "Teams",
		Lang:       "en-US",
		Loc:        english(),
		ViewerName: "Ann",
		SignedIn:   true,
		Toast:      &AppToast{Kind: "success", Message: "Team created."},
		Languages:  []LanguageLink{{Label: "English", URL: "/app/teams?lang=en-US", Active: true}},
	})
	if err := layout.Render(templ.WithChildren(context.Background(), child), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en-US">`,
		"<title>Teams · Teamdesk</title>",
		"<p>child</p>",
		"Team created.",
		`<span class="app-viewer">Ann</span>`,
		`action="/logout"`,
		`aria-current="true"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
}

func TestErrorStateUsesStatusMessage(t *testing.T) {
	t.Parallel()

	html := render(t, AppErrorState(404, english()))
	if !strings.Contains(html, "The page you requested was not found.") {
		t.Fatalf("error state = %s", html)
	}
	if AppErrorMessageKey(503) != "core.error.unavailable" || AppErrorMessageKey(418) != "core.error.internal" {
		t.Fatal("unexpected error message keys")
	}
}

func TestLoginPageKeepsEmailAndShowsError(t *testing.T) {
	t.Parallel()

	html := render(t, LoginPage(LoginPageView{Email: "ann@example.com", Error: "Sign-in failed.", Next: "/app/teams"}, english()))
	for _, want := range []string{`value="ann@example.com"`, "Sign-in failed.", `name="next" value="/app/teams"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
}

func TestLoadingSectionFetchesOnLoad(t *testing.T) {
	t.Parallel()

	html := render(t, TenanciesSection(TenanciesSectionView{Loading: true}, english()))
	for _, want := range []string{`hx-trigger="load, teams:refresh[detail.except!=&#39;teams-tenancies&#39;] from:body"`, `aria-busy="true"`, `class="loading"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
}

func TestOOBToastMarksSwap(t *testing.T) {
	t.Parallel()

	html := render(t, OOBToast(&AppToast{Kind: "success", Message: "Applied."}, english()))
	if !strings.Contains(html, `hx-swap-oob="true"`) || !strings.Contains(html, "<span>Applied.</span>") {
		t.Fatalf("oob toast = %s", html)
	}
	if strings.Contains(render(t, Toast(nil, english())), "hx-swap-oob") {
		t.Fatal("plain toast should not be out of band")
	}
}

func TestToastsRendersEveryNotice(t *testing.T) {
	t.Parallel()

	html := render(t, Toasts(english(),
		&AppToast{Kind: "success", Message: "Member removed."},
		nil,
		&AppToast{Kind: "error", Message: "forbidden"},
	))
	for _, want := range []string{
		`id="toast-region"`,
		`role="status"><span>Member removed.</span>`,
		`role="alert"><span>forbidden</span>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
	if strings.Contains(html, "hx-swap-oob") {
		t.Fatalf("toasts should not be out of band: %s", html)
	}
}
