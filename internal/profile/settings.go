package profile

import (
	"sort"
	"strings"
)

// KeywordsFunc derives the setting keywords of a profile: the ids of active
// toggles and the values of selected choices.
type KeywordsFunc func(p *Profile) []string

// ComponentsFunc derives the components a profile makes available to addons.
type ComponentsFunc func(p *Profile) []string

// ComponentsKey is the setting holding an explicit component list.
const ComponentsKey = "components"

// GameKey is the setting naming the game a profile launches.
const GameKey = "game"

// ValueKeywords is the default KeywordsFunc.
//
// A value of yes/true/on marks a toggle and contributes the setting id.
// Any other non-empty value except no/false/off is a choice and contributes
// the value itself. Output is sorted by setting id.
func ValueKeywords(p *Profile) []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.Values))
	for k := range p.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var keywords []string
	for _, k := range keys {
		v := strings.TrimSpace(p.Values[k])
		switch strings.ToLower(v) {
		case "yes", "true", "on":
			keywords = append(keywords, strings.ToLower(k))
		case "", "no", "false", "off":
		default:
			keywords = append(keywords, strings.ToLower(v))
		}
	}
	return keywords
}

// ValueComponents is the default ComponentsFunc. It returns the "game"
// setting followed by the comma or space separated "components" setting.
func ValueComponents(p *Profile) []string {
	if p == nil {
		return nil
	}
	var components []string
	if game := strings.ToLower(strings.TrimSpace(p.Values[GameKey])); game != "" {
		components = append(components, game)
	}
	fields := strings.FieldsFunc(p.Values[ComponentsKey], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, f := range fields {
		components = append(components, strings.ToLower(f))
	}
	return components
}
