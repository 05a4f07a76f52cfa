package orchestration

import (
	"github.com/agbru/kroncalc/internal/kernel"
)

// GetBackendsToRun resolves a backend selector against the registry.
// "all" yields every registered backend supported by the CPU, ordered by
// version; any other value is parsed with kernel.ParseVersion and resolved
// with Select, so "auto" yields the best backend.
func GetBackendsToRun(selector string, reg *kernel.Registry) ([]*kernel.Backend, error) {
	if selector == "all" {
		list := reg.List()
		backends := make([]*kernel.Backend, 0, len(list))
		for _, b := range list {
			if b.Supported(reg.Features()) {
				backends = append(backends, b)
			}
		}
		return backends, nil
	}
	v, err := kernel.ParseVersion(selector)
	if err != nil {
		return nil, err
	}
	b, err := reg.Select(v)
	if err != nil {
		return nil, err
	}
	return []*kernel.Backend{b}, nil
}
