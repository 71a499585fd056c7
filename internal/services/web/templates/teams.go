package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
)

// DOM ids of the teams page regions.
const (
	TeamsPageID        = "teams-page"
	AllTeamsSectionID  = "teams-all"
	MembersSectionID   = "teams-members"
	TenanciesSectionID = "teams-tenancies"
	CreateDialogID     = "teams-create"
)

// RefreshEvent reloads the teams sections when dispatched on the body. A
// detail.except naming a section id skips that section.
const RefreshEvent = "teams:refresh"

// NoticeView is a section-level notice.
type NoticeView struct {
	Kind    string
	Message string
}

// FormField is a hidden form value submitted with a row action.
type FormField struct {
	Name  string
	Value string
}

// RowAction is one action control rendered in a table row.
type RowAction struct {
	Name     string
	LabelKey string
	URL      string
	Disabled bool
	Fields   []FormField
}

// TeamRowView is one row of the all-teams table.
type TeamRowView struct {
	TenantID   string
	Name       string
	OwnerName  string
	OwnerEmail string
	Created    string
	Updated    string
	Apply      RowAction
}

// MemberRowView is one row of the members table.
type MemberRowView struct {
	UserID   string
	Nickname string
	Email    string
	RoleKey  string
	Joined   string
	Updated  string
	Actions  []RowAction
}

// TenancyRowView is one row of the viewer's tenancy table.
type TenancyRowView struct {
	TenantID   string
	Name       string
	RoleKey    string
	OwnerName  string
	OwnerEmail string
	Actions    []RowAction
}

// AllTeamsSectionView renders the all-teams list state. View scopes the
// section's fetches to the page view that rendered it.
type AllTeamsSectionView struct {
	View    string
	Loading bool
	Rows    []TeamRowView
	Notice  *NoticeView
}

// MembersSectionView renders the owned team's member list state.
type MembersSectionView struct {
	View     string
	TenantID string
	Loading  bool
	Rows     []MemberRowView
	Notice   *NoticeView
}

// TenanciesSectionView renders the viewer's tenancy list state.
type TenanciesSectionView struct {
	View    string
	Loading bool
	Rows    []TenancyRowView
	Notice  *NoticeView
}

// CreateTeamFormView renders the create-team dialog.
type CreateTeamFormView struct {
	Open       bool
	Name       string
	FieldError string
	Token      string
	Notice     *NoticeView
}

// TeamsPageView composes every teams page region. Members is nil when the
// viewer owns no team.
type TeamsPageView struct {
	AllTeams  AllTeamsSectionView
	Members   *MembersSectionView
	Tenancies TenanciesSectionView
	Create    CreateTeamFormView
}

// TeamsPage renders the composite teams page content.
func TeamsPage(view TeamsPageView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.open("div", "id", TeamsPageID, "class", "teams-page")
		h.raw("<header class=\"teams-header\">")
		h.element("h1", T(loc, "teams.page.title"))
		h.element("a", T(loc, "teams.action.create"),
			"href", routepath.AppTeamsWithCreate(),
			"class", "button",
			"hx-get", routepath.AppTeamsCreate,
			"hx-target", "#"+CreateDialogID,
			"hx-swap", "outerHTML",
		)
		h.raw("</header>")
		h.render(ctx, AllTeamsSection(view.AllTeams, loc))
		if view.Members != nil {
			h.render(ctx, MembersSection(*view.Members, loc))
		}
		h.render(ctx, TenanciesSection(view.Tenancies, loc))
		h.render(ctx, CreateTeamDialog(view.Create, loc))
		h.close("div")
		return h.err
	})
}

func openSection(h *htmlWriter, id string, loadURL string, view string, loading bool, title string) {
	h.raw("<section")
	h.attr("id", id)
	h.attr("class", "teams-section")
	h.attr("hx-get", routepath.AppTeamsSection(loadURL, view, !loading))
	trigger := RefreshEvent + "[detail.except!='" + id + "'] from:body"
	if loading {
		trigger = "load, " + trigger
	}
	h.attr("hx-trigger", trigger)
	h.attr("hx-swap", "outerHTML")
	h.attr("hx-sync", "this:replace")
	if loading {
		h.attr("aria-busy", "true")
	} else {
		h.attr("aria-busy", "false")
	}
	h.raw(">")
	h.element("h2", title)
}

func writeHidden(h *htmlWriter, name string, value string) {
	h.raw("<input type=\"hidden\"")
	h.attr("name", name)
	h.attr("value", value)
	h.raw(">")
}

func writeLoading(h *htmlWriter, loc Localizer, loading bool) {
	cls := "htmx-indicator"
	if loading {
		cls = "loading"
	}
	h.element("span", T(loc, "core.loading"), "class", cls)
}

func writeNotice(h *htmlWriter, notice *NoticeView) {
	if notice == nil || notice.Message == "" {
		return
	}
	role := "status"
	if notice.Kind == "error" {
		role = "alert"
	}
	h.element("p", notice.Message, "class", classes("notice", "notice-"+notice.Kind), "role", role)
}

func writeTableHead(h *htmlWriter, loc Localizer, keys ...string) {
	h.raw("<table class=\"teams-table\"><thead><tr>")
	for _, key := range keys {
		h.element("th", T(loc, key))
	}
	h.raw("</tr></thead><tbody>")
}

func writeEmptyRow(h *htmlWriter, loc Localizer, key string, columns int) {
	h.raw("<tr class=\"empty\">")
	h.raw("<td")
	h.attr("colspan", itoa(columns))
	h.raw(">")
	h.text(T(loc, key))
	h.raw("</td></tr>")
}

// writeAction renders one row action as a small HTMX form that swaps the
// owning section.
func writeAction(h *htmlWriter, loc Localizer, target string, view string, action RowAction) {
	h.raw("<form")
	h.attr("method", "post")
	h.attr("action", action.URL)
	h.attr("hx-post", action.URL)
	h.attr("hx-target", "#"+target)
	h.attr("hx-swap", "outerHTML")
	h.attr("hx-disabled-elt", "find button")
	h.attr("hx-sync", "closest section:replace")
	h.attr("class", "row-action")
	h.raw(">")
	for _, field := range action.Fields {
		writeHidden(h, field.Name, field.Value)
	}
	if view != "" {
		writeHidden(h, routepath.TeamsViewQueryKey, view)
	}
	h.raw("<button type=\"submit\"")
	h.attr("name", "action")
	h.attr("value", action.Name)
	h.attr("data-action", action.Name)
	h.flag(action.Disabled, "disabled")
	h.raw(">")
	h.text(T(loc, action.LabelKey))
	h.raw("</button></form>")
}

// AllTeamsSection renders the all-teams list.
func AllTeamsSection(view AllTeamsSectionView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		openSection(h, AllTeamsSectionID, routepath.AppTeamsAll, view.View, view.Loading, T(loc, "teams.all.title"))
		writeLoading(h, loc, view.Loading)
		writeNotice(h, view.Notice)
		writeTableHead(h, loc,
			"teams.column.name", "teams.column.owner", "teams.column.owner_email",
			"teams.column.created", "teams.column.updated", "teams.column.actions")
		if len(view.Rows) == 0 {
			writeEmptyRow(h, loc, "teams.all.empty", 6)
		}
		for _, row := range view.Rows {
			h.open("tr", "data-tenant-id", row.TenantID)
			h.element("td", row.Name)
			h.element("td", row.OwnerName)
			h.element("td", row.OwnerEmail)
			h.element("td", row.Created)
			h.element("td", row.Updated)
			h.raw("<td>")
			writeAction(h, loc, AllTeamsSectionID, view.View, row.Apply)
			h.raw("</td></tr>")
		}
		h.raw("</tbody></table></section>")
		return h.err
	})
}

// MembersSection renders the owned team's members and the invite form.
func MembersSection(view MembersSectionView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		openSection(h, MembersSectionID, routepath.AppTeamsMembersFor(view.TenantID), view.View, view.Loading, T(loc, "teams.members.title"))
		writeLoading(h, loc, view.Loading)
		writeNotice(h, view.Notice)
		writeInviteForm(h, loc, view)
		writeTableHead(h, loc,
			"teams.column.nickname", "teams.column.email", "teams.column.role",
			"teams.column.joined", "teams.column.updated", "teams.column.actions")
		if len(view.Rows) == 0 {
			writeEmptyRow(h, loc, "teams.members.empty", 6)
		}
		for _, row := range view.Rows {
			h.open("tr", "data-user-id", row.UserID)
			h.element("td", row.Nickname)
			h.element("td", row.Email)
			h.element("td", T(loc, row.RoleKey))
			h.element("td", row.Joined)
			h.element("td", row.Updated)
			h.raw("<td>")
			for _, action := range row.Actions {
				writeAction(h, loc, MembersSectionID, view.View, action)
			}
			h.raw("</td></tr>")
		}
		h.raw("</tbody></table></section>")
		return h.err
	})
}

func writeInviteForm(h *htmlWriter, loc Localizer, view MembersSectionView) {
	h.open("form",
		"method", "post",
		"action", routepath.AppTeamsMemberInvite,
		"hx-post", routepath.AppTeamsMemberInvite,
		"hx-target", "#"+MembersSectionID,
		"hx-swap", "outerHTML",
		"hx-disabled-elt", "find button",
		"hx-sync", "closest section:replace",
		"class", "invite-form",
	)
	writeHidden(h, routepath.TeamsMembersTenantQuery, view.TenantID)
	if view.View != "" {
		writeHidden(h, routepath.TeamsViewQueryKey, view.View)
	}
	h.element("label", T(loc, "teams.invite.email_label"), "for", "invite-email")
	h.raw("<input type=\"email\" id=\"invite-email\" name=\"email\" required")
	h.attr("placeholder", T(loc, "teams.invite.email_placeholder"))
	h.raw(">")
	h.element("button", T(loc, "teams.action.invite"), "type", "submit")
	h.close("form")
}

// TenanciesSection renders the viewer's own team memberships.
func TenanciesSection(view TenanciesSectionView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		openSection(h, TenanciesSectionID, routepath.AppTeamsTenancies, view.View, view.Loading, T(loc, "teams.tenancies.title"))
		writeLoading(h, loc, view.Loading)
		writeNotice(h, view.Notice)
		writeTableHead(h, loc,
			"teams.column.name", "teams.column.role", "teams.column.owner",
			"teams.column.owner_email", "teams.column.actions")
		if len(view.Rows) == 0 {
			writeEmptyRow(h, loc, "teams.tenancies.empty", 5)
		}
		for _, row := range view.Rows {
			h.open("tr", "data-tenant-id", row.TenantID)
			h.element("td", row.Name)
			h.element("td", T(loc, row.RoleKey))
			h.element("td", row.OwnerName)
			h.element("td", row.OwnerEmail)
			h.raw("<td>")
			for _, action := range row.Actions {
				writeAction(h, loc, TenanciesSectionID, view.View, action)
			}
			h.raw("</td></tr>")
		}
		h.raw("</tbody></table></section>")
		return h.err
	})
}

// CreateTeamDialog renders the create-team dialog in its open or closed state.
func CreateTeamDialog(view CreateTeamFormView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw("<dialog")
		h.attr("id", CreateDialogID)
		h.attr("class", "teams-create")
		h.flag(view.Open, "open")
		h.raw(">")
		if !view.Open {
			h.raw("</dialog>")
			return h.err
		}
		h.element("h2", T(loc, "teams.create.title"))
		writeNotice(h, view.Notice)
		h.open("form",
			"method", "post",
			"action", routepath.AppTeamsCreate,
			"hx-post", routepath.AppTeamsCreate,
			"hx-target", "#"+CreateDialogID,
			"hx-swap", "outerHTML",
			"hx-disabled-elt", "find button[type=submit]",
		)
		h.raw("<input type=\"hidden\" name=\"form_token\"")
		h.attr("value", view.Token)
		h.raw(">")
		h.element("label", T(loc, "teams.create.name_label"), "for", "create-team-name")
		h.raw("<input type=\"text\" id=\"create-team-name\" name=\"name\" required")
		h.attr("value", view.Name)
		h.attr("placeholder", T(loc, "teams.create.name_placeholder"))
		h.attrIf(view.FieldError != "", "aria-invalid", "true")
		h.attrIf(view.FieldError != "", "aria-describedby", "create-team-name-error")
		h.raw(">")
		if view.FieldError != "" {
			h.element("p", view.FieldError, "id", "create-team-name-error", "class", "field-error", "role", "alert")
		}
		h.raw("<div class=\"dialog-actions\">")
		h.element("a", T(loc, "teams.action.cancel"), "href", routepath.AppTeams, "class", "button-secondary",
			"onclick", "this.closest('dialog').removeAttribute('open'); return false;")
		h.element("button", T(loc, "teams.action.confirm"), "type", "submit")
		h.raw("</div>")
		h.close("form")
		h.raw("</dialog>")
		return h.err
	})
}
