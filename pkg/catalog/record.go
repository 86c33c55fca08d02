package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// Record is one artifact version as returned by a registry search.
type Record struct {
	Group      string `json:"group"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	Repository string `json:"repository"` // release or snapshot repository name
}

// Key identifies an artifact independent of its version.
type Key struct {
	Group string
	Name  string
}

// String returns "group:name".
func (k Key) String() string { return k.Group + ":" + k.Name }

// Key returns the record's identity key.
func (r Record) Key() Key { return Key{Group: r.Group, Name: r.Name} }

// Valid reports whether group, name and version are all present.
func (r Record) Valid() bool {
	return r.Group != "" && r.Name != "" && r.Version != ""
}

// Coordinate returns "group:name:version".
func (r Record) Coordinate() string {
	return r.Group + ":" + r.Name + ":" + r.Version
}

// IsSnapshot reports whether the record comes from a snapshot repository.
func IsSnapshot(r Record) bool {
	return strings.Contains(strings.ToLower(r.Repository), "snapshot")
}

// GroupView maps each artifact key to its latest record.
type GroupView map[Key]Record

// Sorted returns the view's records ordered by group, then name. Map order
// is random; callers that render the view want a stable order.
func (v GroupView) Sorted() []Record {
	out := make([]Record, 0, len(v))
	for _, r := range v {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Record) int {
		return cmp.Or(cmp.Compare(a.Group, b.Group), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// VersionHistory lists every version of one artifact, greatest first.
type VersionHistory []Record

// Latest returns the greatest version, if any.
func (h VersionHistory) Latest() (Record, bool) {
	if len(h) == 0 {
		return Record{}, false
	}
	return h[0], true
}

// Filter drops records missing group, name or version and reports how many
// were dropped.
func Filter(records []Record) (valid []Record, dropped int) {
	valid = make([]Record, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			valid = append(valid, r)
		}
	}
	return valid, len(records) - len(valid)
}

// Latest groups records by key and keeps the greatest version per key.
// Invalid records are ignored. When two records carry equal versions the
// first one seen is kept.
func Latest(records []Record) GroupView {
	view := make(GroupView)
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		cur, ok := view[r.Key()]
		if !ok || CompareVersions(r.Version, cur.Version) > 0 {
			view[r.Key()] = r
		}
	}
	return view
}
