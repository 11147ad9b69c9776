package config

import "github.com/ai5run/ai5/internal/memory"

// Title is the static, per-game record the `--game=<id>` flag selects:
// its memory layout and the XMult/flag conventions internal/dispatch
// needs to build a vm.Title (spec §6 "--game=<id> selects the title
// record").
type Title struct {
	ID         string
	Layout     memory.Layout
	XMult      int
	NoAntialiasText bool
}

// registry is the compiled-in set of supported titles. Real deployments
// add an entry here per shipped game; it is deliberately a plain map
// rather than a plugin system, matching spec §6's closed, per-title
// dispatch-table model.
var registry = map[string]Title{}

// Register adds (or overwrites) a title entry. Called from package init
// in the files under internal/dispatch that define concrete titles, so
// config itself never needs to import dispatch.
func Register(t Title) {
	registry[t.ID] = t
}

// Lookup returns the registered Title for id.
func Lookup(id string) (Title, bool) {
	t, ok := registry[id]
	return t, ok
}

// IDs returns every registered title id, for --help output.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	return ids
}
