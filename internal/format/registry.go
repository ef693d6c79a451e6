// Package format opens password database files into models.Group trees.
package format

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/rolledback/safediff/internal/models"
)

var (
	ErrUnknownFormat      = errors.New("unknown database format")
	ErrKeyFileUnsupported = errors.New("key files are not supported by this format")
	ErrNoCredentials      = errors.New("no password or key file given")
)

// RootName names the root group of loaded trees that have no named root.
const RootName = "Root"

// Credentials unlock one database. A nil Password means no password, which
// is different from an empty one.
type Credentials struct {
	Password *string
	KeyFile  string
}

// Opener reads the database at path.
type Opener func(path string, creds Credentials) (*models.Group, error)

// Registry maps file extensions to openers.
type Registry struct {
	openers map[string]Opener
}

func NewRegistry() *Registry {
	return &Registry{
		openers: make(map[string]Opener),
	}
}

// Default returns a registry with every built-in format.
func Default() *Registry {
	r := NewRegistry()
	r.Register(".psafe3", OpenPWSafe)
	r.Register(".kdbx", OpenKeePass)
	return r
}

// Register adds an opener for ext. The extension is matched case-insensitively.
func (r *Registry) Register(ext string, opener Opener) {
	r.openers[normalizeExt(ext)] = opener
}

// Extensions lists the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.openers))
	for ext := range r.openers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Lookup returns the opener for path's extension.
func (r *Registry) Lookup(path string) (Opener, error) {
	ext := normalizeExt(filepath.Ext(path))
	opener, ok := r.openers[ext]
	if !ok {
		return nil, errors.WithHint(
			errors.Wrapf(ErrUnknownFormat, "%s", path),
			"supported extensions: "+strings.Join(r.Extensions(), ", "),
		)
	}
	return opener, nil
}

// Check reports whether path can be handed to an opener: its format is
// known, and it and the key file, if any, exist.
func (r *Registry) Check(path, keyFile string) error {
	if _, err := r.Lookup(path); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.WithHint(
				errors.Newf("database file not found: %s", path),
				"check the path and try again",
			)
		}
		return errors.Wrapf(err, "failed to stat %s", path)
	}
	if keyFile != "" {
		if _, err := os.Stat(keyFile); err != nil {
			return errors.Wrapf(err, "key file %s", keyFile)
		}
	}
	return nil
}

// Open checks path and hands it to the matching opener.
func (r *Registry) Open(path string, creds Credentials) (*models.Group, error) {
	if err := r.Check(path, creds.KeyFile); err != nil {
		return nil, err
	}
	opener, err := r.Lookup(path)
	if err != nil {
		return nil, err
	}
	return opener(path, creds)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
