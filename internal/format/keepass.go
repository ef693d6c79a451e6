package format

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/tobischo/gokeepasslib/v3"

	"github.com/rolledback/safediff/internal/models"
)

// keepassFieldNames maps the standard KeePass value keys onto the model's
// field names. Custom keys are kept as they are.
var keepassFieldNames = map[string]string{
	"Title":    models.FieldTitle,
	"UserName": models.FieldUsername,
	"Password": models.FieldPassword,
	"URL":      models.FieldURL,
	"Notes":    models.FieldNotes,
}

// OpenKeePass reads a KeePass KDBX file unlocked by a password, a key file, or
// both.
func OpenKeePass(path string, creds Credentials) (*models.Group, error) {
	dbCreds, err := keepassCredentials(creds)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	head, err := readSignature(file, path, keepassSignature, "KeePass")
	if err != nil {
		return nil, err
	}

	db := gokeepasslib.NewDatabase()
	db.Credentials = dbCreds
	if err := gokeepasslib.NewDecoder(io.MultiReader(bytes.NewReader(head), file)).Decode(db); err != nil {
		return nil, errors.WithHint(
			wrongCredentials(errors.Wrapf(err, "failed to unlock %s", path)),
			"check the password and key file",
		)
	}
	if err := db.UnlockProtectedEntries(); err != nil {
		return nil, errors.Wrapf(err, "failed to decrypt protected values in %s", path)
	}
	if db.Content == nil || db.Content.Root == nil {
		return nil, errors.Newf("%s has no content", path)
	}
	return keepassTree(db.Content.Root.Groups), nil
}

func keepassCredentials(creds Credentials) (*gokeepasslib.DBCredentials, error) {
	switch {
	case creds.Password != nil && creds.KeyFile != "":
		return gokeepasslib.NewPasswordAndKeyCredentials(*creds.Password, creds.KeyFile)
	case creds.KeyFile != "":
		return gokeepasslib.NewKeyCredentials(creds.KeyFile)
	case creds.Password != nil:
		return gokeepasslib.NewPasswordCredentials(*creds.Password), nil
	default:
		return nil, errors.WithHint(ErrNoCredentials, "pass a password or a key file")
	}
}

// keepassTree uses the single top-level group as the root, or wraps several
// in a synthetic one.
func keepassTree(groups []gokeepasslib.Group) *models.Group {
	if len(groups) == 1 {
		return keepassGroup(&groups[0])
	}
	root := &models.Group{Name: RootName, Entries: []models.Entry{}, Groups: make([]*models.Group, 0, len(groups))}
	for i := range groups {
		root.Groups = append(root.Groups, keepassGroup(&groups[i]))
	}
	return root
}

func keepassGroup(g *gokeepasslib.Group) *models.Group {
	group := &models.Group{
		ID:      uuid.UUID(g.UUID).String(),
		Name:    g.Name,
		Entries: make([]models.Entry, 0, len(g.Entries)),
		Groups:  make([]*models.Group, 0, len(g.Groups)),
	}
	for i := range g.Entries {
		group.Entries = append(group.Entries, keepassEntry(&g.Entries[i]))
	}
	for i := range g.Groups {
		group.Groups = append(group.Groups, keepassGroup(&g.Groups[i]))
	}
	return group
}

func keepassEntry(e *gokeepasslib.Entry) models.Entry {
	entry := models.Entry{
		ID:     uuid.UUID(e.UUID).String(),
		Fields: keepassFields(e.Values),
	}
	for _, h := range e.Histories {
		for i := range h.Entries {
			prev := &h.Entries[i]
			entry.History = append(entry.History, models.HistoryEntry{
				Fields:     keepassFields(prev.Values),
				ModifiedAt: keepassModified(prev),
			})
		}
	}
	return entry
}

// keepassFields maps standard keys onto model field names. When an entry also
// has a custom field already named like the target (e.g. "password"), the
// standard key keeps its KeePass spelling so neither value is lost.
func keepassFields(values []gokeepasslib.ValueData) models.Fields {
	present := make(map[string]struct{}, len(values))
	for _, v := range values {
		present[v.Key] = struct{}{}
	}

	var fields models.Fields
	for _, v := range values {
		name := v.Key
		if mapped, ok := keepassFieldNames[v.Key]; ok {
			if _, taken := present[mapped]; !taken {
				name = mapped
			}
		}
		fields.Set(name, v.Value.Content)
	}
	return fields
}

func keepassModified(e *gokeepasslib.Entry) (t time.Time) {
	if e.Times.LastModificationTime != nil {
		t = e.Times.LastModificationTime.Time.UTC()
	}
	return t
}
