// Package store persists release state documents and their wiki pages
// inside the release pipeline checkout.
//
// A release lives in exactly one of two directories per product, upcoming
// or inflight, as <product>-<branch>-<version>.json next to a .md wiki of the
// same base name. Writes are atomic via temp file + rename.
package store

import (
	"os"
	"path/filepath"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
)

// Location is the directory a release document lives in.
type Location string

const (
	Upcoming Location = "upcoming"
	Inflight Location = "inflight"
)

// Paths are the data and wiki file paths of one release.
type Paths struct {
	Data string
	Wiki string
}

// Dirs maps products to their upcoming and inflight directories.
type Dirs interface {
	UpcomingDir(p core.Product) string
	InflightDir(p core.Product) string
}

// Store handles persistence of release documents.
type Store struct {
	FS   fs.FS // filesystem interface for stubbing
	Dirs Dirs
}

// NewStore creates a new Store with the given dependencies.
func NewStore(filesystem fs.FS, dirs Dirs) *Store {
	return &Store{FS: filesystem, Dirs: dirs}
}

// Dir returns the directory for loc.
func (s *Store) Dir(p core.Product, loc Location) string {
	if loc == Inflight {
		return s.Dirs.InflightDir(p)
	}
	return s.Dirs.UpcomingDir(p)
}

// PathsAt returns the file paths id would have at loc.
func (s *Store) PathsAt(id core.Identity, loc Location) Paths {
	dir := s.Dir(id.Product, loc)
	return Paths{
		Data: filepath.Join(dir, id.Slug()+".json"),
		Wiki: filepath.Join(dir, id.Slug()+".md"),
	}
}

// Locate resolves where id lives. A data file in the inflight directory
// wins; otherwise the release is (or would be) upcoming. exists reports
// whether a data file is present at the returned location. Content is
// never read.
func (s *Store) Locate(id core.Identity) (loc Location, paths Paths, exists bool, err error) {
	inflight := s.PathsAt(id, Inflight)
	ok, err := fs.Exists(s.FS, inflight.Data)
	if err != nil {
		return "", Paths{}, false, errors.WrapWithDetails(errors.EInternal, "failed to stat release document", err,
			map[string]string{"release": id.Slug(), "data": inflight.Data})
	}
	if ok {
		return Inflight, inflight, true, nil
	}

	upcoming := s.PathsAt(id, Upcoming)
	ok, err = fs.Exists(s.FS, upcoming.Data)
	if err != nil {
		return "", Paths{}, false, errors.WrapWithDetails(errors.EInternal, "failed to stat release document", err,
			map[string]string{"release": id.Slug(), "data": upcoming.Data})
	}
	return Upcoming, upcoming, ok, nil
}

// Record is a loaded release document.
type Record struct {
	Location Location
	Paths    Paths
	State    lifecycle.State
	Data     []byte // bytes on disk
	Wiki     []byte // nil when the wiki file is missing
}

// Load locates and reads id. An untracked release returns
// E_UNTRACKED_RELEASE; a document whose builds disagree with its location
// returns E_STORE_CORRUPT.
func (s *Store) Load(id core.Identity) (Record, error) {
	loc, paths, exists, err := s.Locate(id)
	if err != nil {
		return Record{}, err
	}
	details := map[string]string{
		"release":  id.Slug(),
		"location": string(loc),
		"data":     paths.Data,
		"product":  string(id.Product),
		"version":  id.Version,
	}
	if !exists {
		return Record{}, errors.NewWithDetails(errors.EUntrackedRelease,
			id.String()+" is not tracked; track it first", details)
	}

	data, err := s.FS.ReadFile(paths.Data)
	if err != nil {
		return Record{}, errors.WrapWithDetails(errors.EStoreCorrupt, "failed to read release document", err, details)
	}
	st, err := lifecycle.Decode(data)
	if err != nil {
		return Record{}, errors.WithDetails(err, details)
	}

	switch {
	case loc == Upcoming && len(st.Inflight) > 0:
		return Record{}, errors.NewWithDetails(errors.EStoreCorrupt,
			"upcoming release already has build attempts", details)
	case loc == Inflight && len(st.Inflight) == 0:
		return Record{}, errors.NewWithDetails(errors.EStoreCorrupt,
			"inflight release has no build attempts", details)
	}

	wiki, err := s.readOptional(paths.Wiki)
	if err != nil {
		return Record{}, errors.WrapWithDetails(errors.EStoreCorrupt, "failed to read wiki document", err, details)
	}

	return Record{Location: loc, Paths: paths, State: st, Data: data, Wiki: wiki}, nil
}

// ReadFiles returns the current data and wiki bytes at paths; missing files
// are returned as nil.
func (s *Store) ReadFiles(paths Paths) (data, wiki []byte, err error) {
	if data, err = s.readOptional(paths.Data); err != nil {
		return nil, nil, err
	}
	if wiki, err = s.readOptional(paths.Wiki); err != nil {
		return nil, nil, err
	}
	return data, wiki, nil
}

func (s *Store) readOptional(path string) ([]byte, error) {
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Write stores data and wiki at paths atomically, one file at a time.
func (s *Store) Write(paths Paths, data, wiki []byte) error {
	if err := fs.WriteFileAtomic(s.FS, paths.Data, data, 0o644); err != nil {
		return errors.WrapWithDetails(errors.EPersistFailed, "failed to write release document", err,
			map[string]string{"data": paths.Data})
	}
	if err := fs.WriteFileAtomic(s.FS, paths.Wiki, wiki, 0o644); err != nil {
		return errors.WrapWithDetails(errors.EPersistFailed, "failed to write wiki document", err,
			map[string]string{"wiki": paths.Wiki})
	}
	return nil
}

// Restore puts prior contents back. A nil slice removes the file.
func (s *Store) Restore(path string, prior []byte) error {
	if prior == nil {
		if err := s.FS.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return fs.WriteFileAtomic(s.FS, path, prior, 0o644)
}
