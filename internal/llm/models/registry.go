package models

// Registry is the ordered set of models offered in the model selector.
// AgentNames[i] names AgentModels[i].
type Registry struct {
	AgentNames  []string
	AgentModels []Descriptor
}

// NewRegistry builds a registry from SupportedModels in the given order.
// Unknown and duplicate ids are skipped.
func NewRegistry(ids ...ModelID) Registry {
	r := Registry{}
	seen := make(map[ModelID]bool, len(ids))
	for _, id := range ids {
		model, ok := SupportedModels[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		r.AgentNames = append(r.AgentNames, string(id))
		r.AgentModels = append(r.AgentModels, model)
	}
	return r
}

// Find returns a copy of the descriptor registered under id.
func (r Registry) Find(id string) (Descriptor, bool) {
	for _, m := range r.AgentModels {
		if string(m.ID) == id {
			return m, true
		}
	}
	return Descriptor{}, false
}

func (r Registry) Contains(id string) bool {
	_, ok := r.Find(id)
	return ok
}

func (r Registry) Empty() bool {
	return len(r.AgentNames) == 0
}
