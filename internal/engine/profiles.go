package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/loadout/internal/profile"
)

// ListProfiles lists every saved profile. The Defaults profile is always
// included, even before it has been saved.
func (e *Engine) ListProfiles(ctx context.Context) (*ListProfilesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defaults, err := e.profileStore.LoadDefaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load defaults profile: %w", err)
	}
	ids, err := e.profileStore.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	result := &ListProfilesResult{Profiles: []ProfileInfo{newProfileInfo(defaults)}}
	for _, id := range ids {
		if id == defaults.ID {
			continue
		}
		p, err := e.profileStore.Load(id)
		if err != nil {
			e.logger.Warn("skipping unreadable profile", "profile", id, "err", err)
			continue
		}
		result.Profiles = append(result.Profiles, newProfileInfo(p))
	}
	return result, nil
}

// ShowProfile returns a profile with its used and final addon lists.
func (e *Engine) ShowProfile(ctx context.Context, id string) (*ProfileDetails, error) {
	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := w.profile(e.profileStore, id)
	if err != nil {
		return nil, err
	}
	return &ProfileDetails{
		Profile: p,
		Used:    nonNil(w.planner.UsedAddons(p)),
		Final:   nonNil(w.planner.FinalAddons(p)),
	}, nil
}

// CreateProfile creates and saves a new profile.
func (e *Engine) CreateProfile(ctx context.Context, req *CreateProfileRequest) (*ProfileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists, err := e.profileStore.Exists(req.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	defaults, err := e.profileStore.LoadDefaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load defaults profile: %w", err)
	}
	if exists || req.ID == defaults.ID {
		return nil, fmt.Errorf("%w: profile %s already exists", ErrValidation, req.ID)
	}

	p := profile.New(req.ID)
	if req.From != "" {
		src := defaults
		if req.From != defaults.ID {
			if src, err = e.profileStore.Load(req.From); err != nil {
				return nil, wrapProfileErr(req.From, err)
			}
		}
		p = src.Clone()
		p.ID = req.ID
		p.Defaults = false
	}

	if err := e.saveProfile(p); err != nil {
		return nil, err
	}
	e.logger.Info("profile created", "profile", p.ID, "from", req.From)
	info := newProfileInfo(p)
	return &info, nil
}

// DeleteProfile removes a profile. The Defaults profile cannot be deleted.
func (e *Engine) DeleteProfile(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	exists, err := e.profileStore.Exists(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !exists {
		return fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	if err := e.profileStore.Delete(id); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Attach attaches addons to a profile. Every id must name a known addon;
// nothing is saved if one does not.
func (e *Engine) Attach(ctx context.Context, req *EditAddonsRequest) (*EditAddonsResult, error) {
	return e.editAddons(ctx, req, true)
}

// Detach detaches addons from a profile. Ids that are not attached are
// reported as unchanged; unknown ids are not an error so that stale
// attachments can be cleaned up.
func (e *Engine) Detach(ctx context.Context, req *EditAddonsRequest) (*EditAddonsResult, error) {
	return e.editAddons(ctx, req, false)
}

func (e *Engine) editAddons(ctx context.Context, req *EditAddonsRequest, attach bool) (*EditAddonsResult, error) {
	if len(req.Addons) == 0 {
		return nil, fmt.Errorf("%w: no addons given", ErrValidation)
	}
	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := w.profile(e.profileStore, req.Profile)
	if err != nil {
		return nil, err
	}

	result := &EditAddonsResult{Profile: p.ID, Changed: []string{}}
	for _, raw := range req.Addons {
		id := raw
		if a, err := w.registry.Get(raw); err == nil {
			id = a.ID
		} else if attach {
			return nil, wrapAddonErr(raw, err)
		}

		var changed bool
		if attach {
			changed = p.Attach(id)
		} else {
			changed = p.Detach(id)
		}
		if changed {
			result.Changed = append(result.Changed, id)
		} else {
			result.Unchanged = append(result.Unchanged, id)
		}
	}

	if len(result.Changed) > 0 {
		if err := e.saveProfile(p); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// SetLoadOrder replaces a profile's explicit load order. Unknown ids are
// kept; the comparator ignores them.
func (e *Engine) SetLoadOrder(ctx context.Context, req *SetLoadOrderRequest) (*ProfileDetails, error) {
	seen := make(map[string]bool)
	for _, id := range req.Order {
		if seen[id] {
			return nil, fmt.Errorf("%w: %s appears twice in the load order", ErrValidation, id)
		}
		seen[id] = true
	}

	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := w.profile(e.profileStore, req.Profile)
	if err != nil {
		return nil, err
	}

	p.LoadOrder = append([]string(nil), req.Order...)
	if err := e.saveProfile(p); err != nil {
		return nil, err
	}
	return &ProfileDetails{
		Profile: p,
		Used:    nonNil(w.planner.UsedAddons(p)),
		Final:   nonNil(w.planner.FinalAddons(p)),
	}, nil
}

// SetValue changes one setting value of a profile.
func (e *Engine) SetValue(ctx context.Context, req *SetValueRequest) (*ProfileInfo, error) {
	if req.Key == "" {
		return nil, fmt.Errorf("%w: setting key is empty", ErrValidation)
	}
	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := w.profile(e.profileStore, req.Profile)
	if err != nil {
		return nil, err
	}

	p.SetValue(req.Key, req.Value)
	if err := e.saveProfile(p); err != nil {
		return nil, err
	}
	info := newProfileInfo(p)
	return &info, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
