// Package conflict finds the first class of conflict in an addon roster.
//
// Detection runs in fixed stages. The first stage that finds anything
// returns; later stages are not evaluated:
//
//  1. missing requirements
//  2. exclusion by category
//  3. exclusion by setting value or keyword
//  4. provide conflicts
//  5. overrides, which are applied to the roster instead of reported
//
// The detector never modifies the registry, the category tree or the
// caller's roster slice.
package conflict

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/category"
	"github.com/danieljhkim/loadout/internal/profile"
)

// Detector checks rosters for conflicts.
type Detector struct {
	tree     *category.Tree
	keywords profile.KeywordsFunc
	logger   *log.Logger
}

// NewDetector creates a Detector. A nil keywords func uses
// profile.ValueKeywords; a nil logger discards output.
func NewDetector(tree *category.Tree, keywords profile.KeywordsFunc, logger *log.Logger) *Detector {
	if keywords == nil {
		keywords = profile.ValueKeywords
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Detector{
		tree:     tree,
		keywords: keywords,
		logger:   logger,
	}
}

// Detect inspects roster against p. The roster is ordered so that later
// entries override earlier ones.
func (d *Detector) Detect(roster []*addon.Addon, p *profile.Profile) Outcome {
	snapshot := make([]*addon.Addon, len(roster))
	copy(snapshot, roster)

	settings := make(map[string]bool)
	for _, kw := range d.keywords(p) {
		settings[kw] = true
	}

	checks := []struct {
		stage Stage
		run   func([]*addon.Addon, map[string]bool) []Problem
	}{
		{StageRequirements, d.missingRequirements},
		{StageCategoryExclusion, d.categoryExclusions},
		{StageKeywordExclusion, d.keywordExclusions},
		{StageProvides, d.provideConflicts},
	}
	for _, check := range checks {
		problems := check.run(snapshot, settings)
		d.logger.Debug("stage evaluated",
			"stage", check.stage.String(),
			"problems", len(problems),
			"profile", p.ID,
		)
		for _, prob := range problems {
			d.logger.Debug("problem found",
				"stage", check.stage.String(),
				"kind", prob.Kind.String(),
				"addons", addonIDs(prob.Involved()),
				"keywords", problemKeywords(prob),
			)
		}
		if len(problems) > 0 {
			return Outcome{Stage: check.stage, Problems: problems, Roster: snapshot}
		}
	}

	overrides := d.overrides(snapshot)
	d.logger.Debug("stage evaluated",
		"stage", StageOverrides.String(),
		"overrides", len(overrides),
		"profile", p.ID,
	)
	removed := make(map[*addon.Addon]bool)
	for _, o := range overrides {
		d.logger.Info("override applied",
			"winner", o.Winner.ID,
			"loser", o.Loser.ID,
			"keyword", o.Keyword,
			"offered", o.Offered,
		)
		removed[o.Loser] = true
	}

	pruned := make([]*addon.Addon, 0, len(snapshot))
	for _, a := range snapshot {
		if !removed[a] {
			pruned = append(pruned, a)
		}
	}
	return Outcome{Stage: StageNone, Overrides: overrides, Roster: pruned}
}

func (d *Detector) missingRequirements(roster []*addon.Addon, settings map[string]bool) []Problem {
	supplied := make(map[string]bool)
	for kw := range settings {
		supplied[kw] = true
	}
	for _, a := range roster {
		for _, kw := range a.Provides.Items() {
			supplied[kw] = true
		}
		for _, kw := range a.Offers.Items() {
			supplied[kw] = true
		}
	}

	var problems []Problem
	for _, a := range roster {
		var missing []string
		for _, kw := range a.Requires.Items() {
			if !supplied[kw] {
				missing = append(missing, kw)
			}
		}
		if len(missing) > 0 {
			problems = append(problems, Problem{
				Kind:     KindMissingRequirements,
				Addon:    a,
				Keywords: missing,
			})
		}
	}
	return problems
}

func (d *Detector) categoryExclusions(roster []*addon.Addon, _ map[string]bool) []Problem {
	var problems []Problem
	for i, a := range roster {
		if len(a.ExcludedCategories) == 0 {
			continue
		}
		var excluded []*addon.Addon
		for j, b := range roster {
			if i == j {
				continue
			}
			for _, c := range a.ExcludedCategories {
				if d.tree.IsAncestorOf(c, b.Category) {
					excluded = append(excluded, b)
					break
				}
			}
		}
		if len(excluded) > 0 {
			problems = append(problems, Problem{
				Kind:     KindExclusionByCategory,
				Addon:    a,
				Excluded: excluded,
			})
		}
	}
	return problems
}

func (d *Detector) keywordExclusions(roster []*addon.Addon, settings map[string]bool) []Problem {
	var problems []Problem
	for i, a := range roster {
		if a.Excludes.Len() == 0 {
			continue
		}

		var values []string
		for _, kw := range a.Excludes.Items() {
			if settings[kw] {
				values = append(values, kw)
			}
		}
		if len(values) > 0 {
			problems = append(problems, Problem{
				Kind:     KindExclusionByValue,
				Addon:    a,
				Keywords: values,
			})
		}

		var matches []KeywordMatch
		for j, b := range roster {
			if i == j {
				continue
			}
			for _, kw := range a.Excludes.Items() {
				if b.ID == kw || b.Supplies(kw) {
					matches = append(matches, KeywordMatch{Addon: b, Keyword: kw})
				}
			}
		}
		if len(matches) > 0 {
			problems = append(problems, Problem{
				Kind:    KindExclusionByKeyword,
				Addon:   a,
				Matches: matches,
			})
		}
	}
	return problems
}

func (d *Detector) provideConflicts(roster []*addon.Addon, _ map[string]bool) []Problem {
	var pairs []ProvidePair
	for i := 0; i < len(roster); i++ {
		for j := i + 1; j < len(roster); j++ {
			a, b := roster[i], roster[j]
			for _, kw := range a.Provides.Items() {
				if b.Provides.Has(kw) {
					pairs = append(pairs, ProvidePair{First: a, Second: b, Keyword: kw})
				}
			}
		}
	}
	if len(pairs) == 0 {
		return nil
	}
	return []Problem{{Kind: KindProvideConflict, Pairs: pairs}}
}

// overrides computes the automatic removals against a fixed snapshot.
// A provided keyword beats a mere offer, and of two addons merely offering
// the same keyword the later one is dropped. The result is not iterated to
// a fixpoint.
func (d *Detector) overrides(roster []*addon.Addon) []Override {
	var overrides []Override
	seen := make(map[[2]*addon.Addon]bool)
	record := func(o Override) {
		key := [2]*addon.Addon{o.Winner, o.Loser}
		if seen[key] {
			return
		}
		seen[key] = true
		overrides = append(overrides, o)
	}

	for i, a := range roster {
		for j, b := range roster {
			if i == j {
				continue
			}
			for _, kw := range a.Provides.Items() {
				if b.MerelyOffers(kw) {
					record(Override{Winner: a, Loser: b, Keyword: kw})
					break
				}
			}
		}
	}

	for i := 0; i < len(roster); i++ {
		for j := i + 1; j < len(roster); j++ {
			a, b := roster[i], roster[j]
			for _, kw := range a.Offers.Items() {
				if a.MerelyOffers(kw) && b.MerelyOffers(kw) {
					record(Override{Winner: a, Loser: b, Keyword: kw, Offered: true})
					break
				}
			}
		}
	}
	return overrides
}

func problemKeywords(p Problem) []string {
	kws := append([]string{}, p.Keywords...)
	for _, m := range p.Matches {
		kws = append(kws, m.Keyword)
	}
	for _, pair := range p.Pairs {
		kws = append(kws, pair.Keyword)
	}
	return kws
}
