// Package mock provides an in-memory format.Opener for tests.
package mock

import (
	"github.com/cockroachdb/errors"

	"github.com/rolledback/safediff/internal/format"
	"github.com/rolledback/safediff/internal/models"
)

var ErrWrongPassword = errors.New("mock: wrong password")

// Call records one Open invocation.
type Call struct {
	Path  string
	Creds format.Credentials
}

type database struct {
	tree     *models.Group
	password *string
	keyFile  string
}

// Opener serves trees registered with SetDatabase.
type Opener struct {
	databases map[string]database

	// Error simulation
	OpenError error

	// Call tracking
	Calls []Call
}

func NewOpener() *Opener {
	return &Opener{
		databases: make(map[string]database),
	}
}

// SetDatabase registers tree under path, unlocked by exactly password and
// keyFile. A nil password means the database has none.
func (o *Opener) SetDatabase(path string, tree *models.Group, password *string, keyFile string) {
	o.databases[path] = database{tree: tree, password: password, keyFile: keyFile}
}

// Open implements format.Opener. It returns a clone so callers cannot alter
// the registered tree.
func (o *Opener) Open(path string, creds format.Credentials) (*models.Group, error) {
	o.Calls = append(o.Calls, Call{Path: path, Creds: creds})
	if o.OpenError != nil {
		return nil, o.OpenError
	}

	db, ok := o.databases[path]
	if !ok {
		return nil, errors.Newf("mock: no database at %s", path)
	}
	if !samePassword(db.password, creds.Password) || db.keyFile != creds.KeyFile {
		return nil, errors.Mark(errors.Wrapf(ErrWrongPassword, "%s", path), format.ErrWrongCredentials)
	}
	return db.tree.Clone(), nil
}

// Attempts counts the Open calls made for path.
func (o *Opener) Attempts(path string) int {
	n := 0
	for _, c := range o.Calls {
		if c.Path == path {
			n++
		}
	}
	return n
}

func samePassword(want, got *string) bool {
	if want == nil || got == nil {
		return want == nil && got == nil
	}
	return *want == *got
}
