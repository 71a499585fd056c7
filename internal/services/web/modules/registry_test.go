package modules

import (
	"testing"

	module "github.com/louisbranch/teamdesk/internal/services/web/module"
)

func TestDefaultModules(t *testing.T) {
	t.Parallel()

	public := DefaultPublicModules(Dependencies{}, ModuleResolvers{})
	protected := DefaultProtectedModules(Dependencies{}, ModuleResolvers{})
	if len(public) != 1 || public[0].ID() != "auth" {
		t.Fatalf("public modules = %v, want [auth]", moduleIDs(public))
	}
	if len(protected) != 1 || protected[0].ID() != "teams" {
		t.Fatalf("protected modules = %v, want [teams]", moduleIDs(protected))
	}
}

func TestModulesHaveUniquePrefixes(t *testing.T) {
	t.Parallel()

	all := append(DefaultPublicModules(Dependencies{}, ModuleResolvers{}), DefaultProtectedModules(Dependencies{}, ModuleResolvers{})...)
	seen := map[string]struct{}{}
	for _, m := range all {
		mount, err := m.Mount()
		if err != nil {
			t.Fatalf("module %q mount error = %v", m.ID(), err)
		}
		if mount.Prefix == "" || mount.Handler == nil {
			t.Fatalf("module %q mount = %+v", m.ID(), mount)
		}
		if _, ok := seen[mount.Prefix]; ok {
			t.Fatalf("duplicate mount prefix %q", mount.Prefix)
		}
		seen[mount.Prefix] = struct{}{}
	}
}

func TestModulesWithoutClientsReportUnhealthy(t *testing.T) {
	t.Parallel()

	all := append(DefaultPublicModules(Dependencies{}, ModuleResolvers{}), DefaultProtectedModules(Dependencies{}, ModuleResolvers{})...)
	for _, m := range all {
		reporter, ok := m.(module.HealthReporter)
		if !ok {
			t.Fatalf("module %q does not report health", m.ID())
		}
		if reporter.Healthy() {
			t.Fatalf("module %q healthy without clients", m.ID())
		}
	}
}

func moduleIDs(mods []Module) []string {
	ids := make([]string, 0, len(mods))
	for _, m := range mods {
		ids = append(ids, m.ID())
	}
	return ids
}
