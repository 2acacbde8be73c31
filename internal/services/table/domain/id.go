package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ID identifies a record inside one collection of a session.
type ID int64

// UnmarshalJSON accepts integers, fractional numbers (floored) and numeric
// strings. Anything else decodes as zero and is reassigned on load.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		data = []byte(text)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*id = 0
		return nil
	}
	*id = ID(math.Floor(f))
	return nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID reads an ID from text such as a URL segment.
func ParseID(text string) (ID, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", text, err)
	}
	return ID(n), nil
}

// nextID returns one past the largest id in ids.
func nextID(ids []ID) ID {
	var max ID
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// uniqueIDs reassigns zero, negative and duplicate ids so every entry is
// distinct. The first holder of an id keeps it.
func uniqueIDs(ids []ID) []ID {
	seen := make(map[ID]bool, len(ids))
	next := nextID(ids)
	out := make([]ID, len(ids))
	for i, id := range ids {
		if id <= 0 || seen[id] {
			id = next
			next++
		}
		seen[id] = true
		out[i] = id
	}
	return out
}
