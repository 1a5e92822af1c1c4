package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
)

// Entry is a release document discovered by Scan.
type Entry struct {
	ID       core.Identity
	Location Location
	Paths    Paths

	// Broken indicates the document is unreadable or invalid.
	// When true, State is nil but ID is still derived from the file name.
	Broken bool
	State  *lifecycle.State
}

// Scan discovers tracked releases for the given products across their
// upcoming and inflight directories. Results are sorted by product, then
// version. Missing directories are skipped.
func (s *Store) Scan(products []core.Product) ([]Entry, error) {
	wanted := make(map[core.Product]bool, len(products))
	for _, p := range products {
		wanted[p] = true
	}

	// Products commonly share directories; each one is read once.
	seen := make(map[string]bool)
	var entries []Entry
	for _, p := range products {
		for _, loc := range []Location{Upcoming, Inflight} {
			dir := s.Dir(p, loc)
			if seen[dir] {
				continue
			}
			seen[dir] = true

			found, err := s.scanDir(dir, loc, wanted)
			if err != nil {
				return nil, err
			}
			entries = append(entries, found...)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ID.Product != entries[j].ID.Product {
			return entries[i].ID.Product < entries[j].ID.Product
		}
		return entries[i].ID.Version < entries[j].ID.Version
	})
	return entries, nil
}

func (s *Store) scanDir(dir string, loc Location, wanted map[core.Product]bool) ([]Entry, error) {
	dirEntries, err := s.FS.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		id, ok := parseSlug(strings.TrimSuffix(de.Name(), ".json"))
		if !ok || !wanted[id.Product] {
			continue
		}
		// Skip documents whose product is configured to live elsewhere.
		if s.Dir(id.Product, loc) != dir {
			continue
		}

		entry := Entry{
			ID:       id,
			Location: loc,
			Paths: Paths{
				Data: filepath.Join(dir, de.Name()),
				Wiki: filepath.Join(dir, id.Slug()+".md"),
			},
		}
		data, err := s.FS.ReadFile(entry.Paths.Data)
		if err != nil {
			entry.Broken = true
			entries = append(entries, entry)
			continue
		}
		st, err := lifecycle.Decode(data)
		if err != nil {
			entry.Broken = true
			entries = append(entries, entry)
			continue
		}
		entry.ID.Date = st.Date
		entry.State = &st
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseSlug splits "<product>-<branch>-<version>" and checks that the branch
// matches the one derived from the version.
func parseSlug(slug string) (core.Identity, bool) {
	product, rest, ok := strings.Cut(slug, "-")
	if !ok {
		return core.Identity{}, false
	}
	p, err := core.ParseProduct(product)
	if err != nil {
		return core.Identity{}, false
	}
	_, version, ok := strings.Cut(rest, "-")
	if !ok {
		return core.Identity{}, false
	}
	id, err := core.NewIdentity(p, version, "")
	if err != nil || id.Slug() != slug {
		return core.Identity{}, false
	}
	return id, true
}
