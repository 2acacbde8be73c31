package templates

import (
	"encoding/json"

	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// Labels translates a view label key.
type Labels func(key string) string

// Model is everything a table page needs.
type Model struct {
	View    domain.View
	Version uint64
	Locale  string
	Labels  Labels
}

func (m Model) label(key string) string {
	if m.Labels == nil {
		return key
	}
	return m.Labels(key)
}

func (m Model) keeper() bool {
	return m.View.Mode == domain.KeeperView
}

// actionJSON encodes an action for a data-action attribute.
func actionJSON(fields map[string]any) string {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
