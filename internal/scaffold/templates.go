// Package scaffold holds the built-in data and wiki templates and the helpers
// that read templates from a configured directory or the embedded defaults.
package scaffold

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	rwfs "github.com/NielsdaWheelz/releasewarrior/internal/fs"
)

//go:embed templates/*
var embedded embed.FS

const embeddedDir = "templates"

// Names returns the names of the built-in templates, sorted.
func Names() []string {
	entries, err := fs.ReadDir(embedded, embeddedDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Source reads templates from Dir, or from the embedded defaults when Dir is
// empty.
type Source struct {
	FS  rwfs.FS
	Dir string
}

// Read returns the content of the named template.
// Missing templates return E_TEMPLATE_NOT_FOUND.
func (s Source) Read(name string) ([]byte, error) {
	details := map[string]string{"template": name}
	if name == "" || filepath.Base(name) != name {
		return nil, errors.NewWithDetails(errors.ETemplateNotFound, "invalid template name", details)
	}

	if s.Dir == "" {
		data, err := embedded.ReadFile(embeddedDir + "/" + name)
		if err != nil {
			return nil, errors.WrapWithDetails(errors.ETemplateNotFound, "no built-in template named "+name, err, details)
		}
		return data, nil
	}

	path := filepath.Join(s.Dir, name)
	details["template"] = path
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithDetails(errors.ETemplateNotFound, "template not found", err, details)
		}
		return nil, errors.WrapWithDetails(errors.EInternal, "failed to read template", err, details)
	}
	return data, nil
}

// Export copies the built-in templates into dir so they can be customized.
// Existing files are left untouched. Returns the paths that were created.
func Export(fsys rwfs.FS, dir string) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapWithDetails(errors.EPersistFailed, "failed to create templates directory", err,
			map[string]string{"template": dir})
	}

	var created []string
	for _, name := range Names() {
		path := filepath.Join(dir, name)
		exists, err := rwfs.Exists(fsys, path)
		if err != nil {
			return created, errors.WrapWithDetails(errors.EInternal, "failed to stat template", err,
				map[string]string{"template": path})
		}
		if exists {
			continue
		}
		data, err := embedded.ReadFile(embeddedDir + "/" + name)
		if err != nil {
			return created, errors.Wrap(errors.EInternal, "failed to read built-in template", err)
		}
		if err := fsys.WriteFile(path, data, 0o644); err != nil {
			return created, errors.WrapWithDetails(errors.EPersistFailed, "failed to write template", err,
				map[string]string{"template": path})
		}
		created = append(created, path)
	}
	return created, nil
}
