package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/category"
)

// ListAddons lists the registry, or the addons available to one profile.
func (e *Engine) ListAddons(ctx context.Context, req *ListAddonsRequest) (*ListAddonsResult, error) {
	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	tree := w.registry.Tree()

	result := &ListAddonsResult{Addons: []AddonInfo{}}
	if req.Profile == "" {
		addons := w.registry.Installed()
		if req.All {
			addons = w.registry.All()
		}
		for _, a := range addons {
			result.Addons = append(result.Addons, newAddonInfo(tree, a))
		}
		return result, nil
	}

	p, err := w.profile(e.profileStore, req.Profile)
	if err != nil {
		return nil, err
	}
	used := make(map[string]bool)
	for _, id := range w.planner.UsedAddons(p) {
		used[id] = true
	}

	result.Profile = p.ID
	for _, a := range w.registry.AvailableFor(p) {
		info := newAddonInfo(tree, a)
		info.Used = used[a.ID]
		result.Addons = append(result.Addons, info)
	}
	return result, nil
}

// ShowAddon returns the details of one addon.
func (e *Engine) ShowAddon(ctx context.Context, id string) (*AddonInfo, error) {
	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	a, err := w.registry.Get(id)
	if err != nil {
		return nil, wrapAddonErr(id, err)
	}
	info := newAddonInfo(w.registry.Tree(), a)
	return &info, nil
}

// Uninstall flags an addon as uninstalled in its manifest. The addon stays
// known to the registry and profiles keep their attachments, but it is no
// longer selected for any launch.
func (e *Engine) Uninstall(ctx context.Context, id string) (*UninstallResult, error) {
	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	a, err := w.registry.Get(id)
	if err != nil {
		return nil, wrapAddonErr(id, err)
	}

	result := &UninstallResult{ID: a.ID, AlreadyUninstalled: a.Uninstalled}
	if !a.Uninstalled {
		if err := e.addonRepo.MarkUninstalled(a.ID); err != nil {
			return nil, fmt.Errorf("failed to uninstall %s: %w", a.ID, err)
		}
		e.logger.Info("addon uninstalled", "id", a.ID)
	}

	ids, err := e.profileStore.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	for _, pid := range ids {
		p, err := w.profile(e.profileStore, pid)
		if err != nil {
			e.logger.Warn("skipping unreadable profile", "profile", pid, "err", err)
			continue
		}
		if p.IsAttached(a.ID) {
			result.AttachedTo = append(result.AttachedTo, p.ID)
		}
	}
	return result, nil
}

// Categories lists the category tree depth-first from under, or from the
// root when under is empty. The tree holds every category an addon is filed
// under or excludes; an unknown path is not added to it.
func (e *Engine) Categories(ctx context.Context, under string) (*CategoriesResult, error) {
	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	tree := w.registry.Tree()

	start, ok := tree.Lookup(under)
	if !ok {
		return nil, fmt.Errorf("%w: category %s", ErrNotFound, under)
	}

	result := &CategoriesResult{Categories: []CategoryInfo{}}
	tree.Walk(start, func(c category.Category, depth int) {
		result.Categories = append(result.Categories, CategoryInfo{
			Path:   tree.Path(c),
			LongID: tree.LongID(c),
			Depth:  depth,
			Addons: addonIDs(w.registry.Categorized(c)),
		})
	})
	return result, nil
}

func addonIDs(addons []*addon.Addon) []string {
	ids := make([]string, 0, len(addons))
	for _, a := range addons {
		ids = append(ids, a.ID)
	}
	return ids
}
