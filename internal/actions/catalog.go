package actions

// Catalog is an ordered set of actions with unique ids.
type Catalog struct {
	actions []Action
}

// NewCatalog copies actions into a catalog. Later duplicates of an id
// replace earlier ones in place.
func NewCatalog(actions []Action) *Catalog {
	return &Catalog{actions: Merge(nil, actions)}
}

// All returns every action in order.
func (c *Catalog) All() []Action {
	return cloneActions(c.actions)
}

// Find returns the action with id.
func (c *Catalog) Find(id string) (Action, bool) {
	for _, a := range c.actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// ForScope returns the actions offered in scope. With rowsOnly set, node
// actions are limited to those shown on all-nodes rows.
func (c *Catalog) ForScope(scope Scope, rowsOnly bool) []Action {
	var out []Action
	for _, a := range c.actions {
		if a.Scope != scope {
			continue
		}
		if rowsOnly && !a.Row {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Visible drops actions whose gating control is hidden.
func Visible(actions []Action, controlVisible func(string) bool) []Action {
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a.Control != "" && controlVisible != nil && !controlVisible(a.Control) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ByKey returns the first action bound to key.
func ByKey(actions []Action, key string) (Action, bool) {
	for _, a := range actions {
		if a.Key != "" && a.Key == key {
			return a, true
		}
	}
	return Action{}, false
}

// Merge overlays overrides onto base: an override with a known id replaces
// that action in place, new ids are appended.
func Merge(base, overrides []Action) []Action {
	out := cloneActions(base)
	index := make(map[string]int, len(out))
	for i, a := range out {
		index[a.ID] = i
	}
	for _, a := range overrides {
		a.Args = append([]Arg(nil), a.Args...)
		if i, ok := index[a.ID]; ok {
			out[i] = a
			continue
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	return out
}

func cloneActions(actions []Action) []Action {
	if len(actions) == 0 {
		return nil
	}
	out := make([]Action, len(actions))
	for i, a := range actions {
		a.Args = append([]Arg(nil), a.Args...)
		out[i] = a
	}
	return out
}
