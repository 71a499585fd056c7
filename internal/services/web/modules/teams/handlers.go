package teams

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	apperrors "github.com/louisbranch/teamdesk/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/teamdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/teamdesk/internal/services/web/templates"
)

// teamsService defines the service operations used by teams handlers.
type teamsService interface {
	loadAllTeams(ctx context.Context, scope pageScope) (listState[Team], bool)
	loadTenancies(ctx context.Context, scope pageScope) (listState[Tenancy], bool)
	loadMembers(ctx context.Context, scope pageScope, tenantID string) (listState[Member], bool)
	apply(ctx context.Context, tenantID string) error
	memberAction(ctx context.Context, tenantID string, userID string, action string) error
	tenancyAction(ctx context.Context, tenantID string, viewerID string, action string) error
	createTeam(ctx context.Context, name string) (CreatedTeam, error)
	invite(ctx context.Context, tenantID string, email string) error
}

// maxViewLength bounds client-supplied page view ids.
const maxViewLength = 64

// sectionRefresh is the owning section fetched again after an action. err is
// set when that fetch failed; the section on screen is then left as it was.
type sectionRefresh struct {
	section templ.Component
	err     error
}

type refreshFunc func(loc webtemplates.Localizer) sectionRefresh

type handlers struct {
	modulehandler.Base
	service teamsService
	guard   *submissionGuard
}

func newHandlers(s teamsService, base modulehandler.Base, guard *submissionGuard) handlers {
	return handlers{Base: base, service: s, guard: guard}
}

func newViewID() string {
	return uuid.NewString()
}

// requestScope returns the page view a request belongs to. A request naming
// no view, or an oversized one, gets a scope of its own.
func (h handlers) requestScope(r *http.Request) (context.Context, pageScope) {
	ctx, viewerID := h.RequestContextAndUserID(r)
	view := strings.TrimSpace(r.FormValue(routepath.TeamsViewQueryKey))
	if view == "" || len(view) > maxViewLength {
		view = newViewID()
	}
	return ctx, pageScope{viewerID: viewerID, view: view}
}

// isReload reports whether a fragment request refreshes a section that is
// already on screen.
func isReload(r *http.Request) bool {
	return r.URL.Query().Get(routepath.TeamsReloadQueryKey) == "1"
}

func (h handlers) handlePage(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	ctx, viewerID := h.RequestContextAndUserID(r)
	create := webtemplates.CreateTeamFormView{}
	if strings.TrimSpace(r.URL.Query().Get(routepath.TeamsCreateQueryKey)) != "" {
		create = h.openCreateForm(loc, viewerID)
	}
	view := h.pageView(ctx, loc, pageScope{viewerID: viewerID, view: newViewID()}, create)
	h.WritePage(w, r, webtemplates.T(loc, "teams.page.title"), http.StatusOK, webtemplates.TeamsPage(view, loc))
}

// pageView loads every section in order: tenancies first, since they decide
// whether the member section is shown.
func (h handlers) pageView(ctx context.Context, loc webtemplates.Localizer, scope pageScope, create webtemplates.CreateTeamFormView) webtemplates.TeamsPageView {
	tenancies, fresh := h.service.loadTenancies(ctx, scope)
	if !fresh {
		tenancies = listState[Tenancy]{Loading: true}
	}
	allTeams, fresh := h.service.loadAllTeams(ctx, scope)
	if !fresh {
		allTeams = listState[Team]{Loading: true}
	}
	view := webtemplates.TeamsPageView{
		AllTeams:  allTeamsView(loc, scope.view, allTeams),
		Tenancies: tenanciesView(loc, scope.view, scope.viewerID, tenancies),
		Create:    create,
	}
	if ownedID := ownedTeamID(tenancies.Items); ownedID != "" {
		members, fresh := h.service.loadMembers(ctx, scope, ownedID)
		if !fresh {
			members = listState[Member]{Loading: true}
		}
		section := membersView(loc, scope.view, ownedID, members)
		view.Members = &section
	}
	return view
}

func (h handlers) handleAllTeams(w http.ResponseWriter, r *http.Request) {
	ctx, scope := h.requestScope(r)
	state, fresh := h.service.loadAllTeams(ctx, scope)
	h.writeSection(w, r, "teams.all.title", fresh, state.Err, func(loc webtemplates.Localizer) templ.Component {
		return webtemplates.AllTeamsSection(allTeamsView(loc, scope.view, state), loc)
	})
}

func (h handlers) handleMembers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := h.requestScope(r)
	tenantID := strings.TrimSpace(r.URL.Query().Get(routepath.TeamsMembersTenantQuery))
	state, fresh := h.service.loadMembers(ctx, scope, tenantID)
	h.writeSection(w, r, "teams.members.title", fresh, state.Err, func(loc webtemplates.Localizer) templ.Component {
		return webtemplates.MembersSection(membersView(loc, scope.view, tenantID, state), loc)
	})
}

func (h handlers) handleTenancies(w http.ResponseWriter, r *http.Request) {
	ctx, scope := h.requestScope(r)
	state, fresh := h.service.loadTenancies(ctx, scope)
	h.writeSection(w, r, "teams.tenancies.title", fresh, state.Err, func(loc webtemplates.Localizer) templ.Component {
		return webtemplates.TenanciesSection(tenanciesView(loc, scope.view, scope.viewerID, state), loc)
	})
}

// writeSection answers a section fetch. A superseded fetch gets no content.
// A failed reload of a section already on screen only shows the error toast,
// so the rows the viewer had stay in place.
func (h handlers) writeSection(w http.ResponseWriter, r *http.Request, titleKey string, fresh bool, err error, section func(webtemplates.Localizer) templ.Component) {
	if !fresh {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	if err != nil && isReload(r) && httpx.IsHTMXRequest(r) {
		h.writeToasts(w, r, loc, errorToast(loc, err))
		return
	}
	h.WritePage(w, r, webtemplates.T(loc, titleKey), http.StatusOK, section(loc))
}

func (h handlers) handleApply(w http.ResponseWriter, r *http.Request) {
	ctx, scope := h.requestScope(r)
	tenantID := strings.TrimSpace(r.PathValue("tenantID"))
	if err := h.service.apply(ctx, tenantID); err != nil {
		h.writeActionFailure(w, r, err)
		return
	}
	h.writeActionSuccess(w, r, actionNoticeKeys[actionApply].success, true, func(loc webtemplates.Localizer) sectionRefresh {
		state, fresh := h.service.loadAllTeams(ctx, scope)
		if !fresh {
			state = listState[Team]{Loading: true}
		}
		return sectionRefresh{
			section: webtemplates.AllTeamsSection(allTeamsView(loc, scope.view, state), loc),
			err:     state.Err,
		}
	})
}

func (h handlers) handleMemberAction(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimSpace(r.PathValue("action"))
	if action != actionRemove && action != actionAccept && action != actionReject {
		h.WriteNotFound(w, r)
		return
	}
	ctx, scope := h.requestScope(r)
	tenantID := strings.TrimSpace(r.FormValue(routepath.TeamsMembersTenantQuery))
	userID := strings.TrimSpace(r.PathValue("userID"))
	if err := h.service.memberAction(ctx, tenantID, userID, action); err != nil {
		h.writeActionFailure(w, r, err)
		return
	}
	h.writeActionSuccess(w, r, actionNoticeKeys[action].success, false, h.membersRefresh(ctx, scope, tenantID))
}

func (h handlers) handleInvite(w http.ResponseWriter, r *http.Request) {
	ctx, scope := h.requestScope(r)
	tenantID := strings.TrimSpace(r.FormValue(routepath.TeamsMembersTenantQuery))
	email := r.FormValue(inviteEmailField)
	if err := h.service.invite(ctx, tenantID, email); err != nil {
		h.writeActionFailure(w, r, err)
		return
	}
	h.writeActionSuccess(w, r, inviteSuccessKey, false, h.membersRefresh(ctx, scope, tenantID))
}

func (h handlers) membersRefresh(ctx context.Context, scope pageScope, tenantID string) refreshFunc {
	return func(loc webtemplates.Localizer) sectionRefresh {
		state, fresh := h.service.loadMembers(ctx, scope, tenantID)
		if !fresh {
			state = listState[Member]{Loading: true}
		}
		return sectionRefresh{
			section: webtemplates.MembersSection(membersView(loc, scope.view, tenantID, state), loc),
			err:     state.Err,
		}
	}
}

func (h handlers) handleTenancyAction(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimSpace(r.PathValue("action"))
	if action != actionAgree && action != actionRefuse && action != actionQuit {
		h.WriteNotFound(w, r)
		return
	}
	ctx, scope := h.requestScope(r)
	tenantID := strings.TrimSpace(r.PathValue("tenantID"))
	if err := h.service.tenancyAction(ctx, tenantID, scope.viewerID, action); err != nil {
		h.writeActionFailure(w, r, err)
		return
	}
	h.writeActionSuccess(w, r, actionNoticeKeys[action].success, true, func(loc webtemplates.Localizer) sectionRefresh {
		state, fresh := h.service.loadTenancies(ctx, scope)
		if !fresh {
			state = listState[Tenancy]{Loading: true}
		}
		return sectionRefresh{
			section: webtemplates.TenanciesSection(tenanciesView(loc, scope.view, scope.viewerID, state), loc),
			err:     state.Err,
		}
	})
}

// writeActionSuccess answers a completed row action. HTMX requests receive
// the owning section, fetched only after the action returned, plus the
// success toast out of band. When that fetch fails the section is kept and
// both toasts are shown. broadcast asks the other sections to reload, for
// actions that also change them. Plain form posts redirect with a flash
// notice.
func (h handlers) writeActionSuccess(w http.ResponseWriter, r *http.Request, key string, broadcast bool, refresh refreshFunc) {
	if !httpx.IsHTMXRequest(r) {
		h.RedirectWithNotice(w, r, routepath.AppTeams, flashnotice.NoticeSuccess(key))
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	success := &webtemplates.AppToast{Kind: string(flashnotice.KindSuccess), Message: webtemplates.T(loc, key)}
	refreshed := refresh(loc)
	if broadcast {
		httpx.SetTriggerWithDetail(w, webtemplates.RefreshEvent, refreshDetail{Except: owningSectionID(r)})
	}
	if refreshed.err != nil {
		h.writeToasts(w, r, loc, success, errorToast(loc, refreshed.err))
		return
	}
	h.WriteFragment(w, r, http.StatusOK, templ.Join(refreshed.section, webtemplates.OOBToast(success, loc)))
}

// refreshDetail is the event detail of a section refresh broadcast.
type refreshDetail struct {
	Except string `json:"except"`
}

// owningSectionID returns the section an action request swaps.
func owningSectionID(r *http.Request) string {
	switch {
	case strings.HasPrefix(r.URL.Path, routepath.AppTeamsTenancies+"/"):
		return webtemplates.TenanciesSectionID
	case strings.HasPrefix(r.URL.Path, routepath.AppTeamsMembers+"/"):
		return webtemplates.MembersSectionID
	default:
		return webtemplates.AllTeamsSectionID
	}
}

// writeActionFailure shows err in the toast region and leaves the section
// as it was.
func (h handlers) writeActionFailure(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.KindOf(err) == apperrors.KindNotFound {
		h.WriteNotFound(w, r)
		return
	}
	if apperrors.KindOf(err) == apperrors.KindUnknown {
		log.Printf("teams: action failed method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
	if !httpx.IsHTMXRequest(r) {
		h.RedirectWithNotice(w, r, routepath.AppTeams, failureNotice(err))
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	status := http.StatusOK
	if apperrors.KindOf(err) == apperrors.KindInvalidInput {
		status = http.StatusUnprocessableEntity
	}
	httpx.Retarget(w, "#"+webtemplates.ToastRegionID, "outerHTML")
	h.WriteFragment(w, r, status, webtemplates.Toast(errorToast(loc, err), loc))
}

// writeToasts replaces the toast region with toasts and swaps nothing else.
func (h handlers) writeToasts(w http.ResponseWriter, r *http.Request, loc webtemplates.Localizer, toasts ...*webtemplates.AppToast) {
	httpx.Retarget(w, "#"+webtemplates.ToastRegionID, "outerHTML")
	h.WriteFragment(w, r, http.StatusOK, webtemplates.Toasts(loc, toasts...))
}

func errorToast(loc webtemplates.Localizer, err error) *webtemplates.AppToast {
	return &webtemplates.AppToast{Kind: string(flashnotice.KindError), Message: localizeError(loc, err)}
}

// failureNotice keeps server-supplied text when present.
func failureNotice(err error) flashnotice.Notice {
	if message := apperrors.ServerMessage(err); message != "" {
		return flashnotice.NoticeErrorMessage(message)
	}
	key := apperrors.LocalizationKey(err)
	if key == "" {
		key = "core.error.internal"
	}
	return flashnotice.NoticeError(key)
}

// openCreateForm returns the open dialog carrying a fresh submission token.
func (h handlers) openCreateForm(loc webtemplates.Localizer, viewerID string) webtemplates.CreateTeamFormView {
	view := webtemplates.CreateTeamFormView{Open: true}
	token, err := h.guard.Issue(viewerID)
	if err != nil {
		log.Printf("teams: issue create form token failed user_id=%s err=%v", viewerID, err)
		view.Notice = &webtemplates.NoticeView{Kind: "error", Message: webtemplates.T(loc, "core.error.internal")}
		return view
	}
	view.Token = token
	return view
}

func (h handlers) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	if !httpx.IsHTMXRequest(r) {
		httpx.WriteRedirect(w, r, routepath.AppTeamsWithCreate())
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	view := h.openCreateForm(loc, h.RequestUserID(r))
	h.WriteFragment(w, r, http.StatusOK, webtemplates.CreateTeamDialog(view, loc))
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	ctx, viewerID := h.RequestContextAndUserID(r)
	name := r.FormValue(teamNameField)
	token := r.FormValue(formTokenField)

	if _, err := validateTeamName(name); err != nil {
		view := webtemplates.CreateTeamFormView{Open: true, Name: name, Token: token, FieldError: localizeError(loc, err)}
		h.writeCreateForm(w, r, loc, http.StatusUnprocessableEntity, view)
		return
	}
	if err := h.guard.Consume(ctx, token, viewerID); err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			log.Printf("teams: create submission check failed user_id=%s err=%v", viewerID, err)
			err = apperrors.EK(apperrors.KindUnavailable, createFailedKey, err.Error())
		}
		h.writeCreateRejected(w, r, loc, name, err)
		return
	}
	if _, err := h.service.createTeam(ctx, name); err != nil {
		h.writeCreateRejected(w, r, loc, name, err)
		return
	}

	if !httpx.IsHTMXRequest(r) {
		h.RedirectWithNotice(w, r, routepath.AppTeams, flashnotice.NoticeSuccess(createSuccessKey))
		return
	}
	view := h.pageView(ctx, loc, pageScope{viewerID: viewerID, view: newViewID()}, webtemplates.CreateTeamFormView{})
	toast := webtemplates.OOBToast(&webtemplates.AppToast{Kind: string(flashnotice.KindSuccess), Message: webtemplates.T(loc, createSuccessKey)}, loc)
	httpx.Retarget(w, "#"+webtemplates.TeamsPageID, "outerHTML")
	h.WriteFragment(w, r, http.StatusOK, templ.Join(webtemplates.TeamsPage(view, loc), toast))
}

// writeCreateRejected re-opens the dialog with err as its notice, the
// submitted name and a fresh token.
func (h handlers) writeCreateRejected(w http.ResponseWriter, r *http.Request, loc webtemplates.Localizer, name string, err error) {
	view := h.openCreateForm(loc, h.RequestUserID(r))
	view.Name = name
	view.Notice = &webtemplates.NoticeView{Kind: "error", Message: localizeError(loc, err)}
	h.writeCreateForm(w, r, loc, http.StatusOK, view)
}

// writeCreateForm swaps the dialog for HTMX and renders the whole page with
// the dialog open otherwise.
func (h handlers) writeCreateForm(w http.ResponseWriter, r *http.Request, loc webtemplates.Localizer, status int, view webtemplates.CreateTeamFormView) {
	if httpx.IsHTMXRequest(r) {
		h.WriteFragment(w, r, status, webtemplates.CreateTeamDialog(view, loc))
		return
	}
	ctx, viewerID := h.RequestContextAndUserID(r)
	page := h.pageView(ctx, loc, pageScope{viewerID: viewerID, view: newViewID()}, view)
	h.WritePage(w, r, webtemplates.T(loc, "teams.page.title"), status, webtemplates.TeamsPage(page, loc))
}
