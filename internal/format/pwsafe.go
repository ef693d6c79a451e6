package format

import (
	"cmp"
	"encoding/hex"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/tkuhlman/gopwsafe/pwsafe"

	"github.com/rolledback/safediff/internal/models"
)

// pwsafeGroupSeparator splits Password Safe group paths such as "Work.Servers".
const pwsafeGroupSeparator = "."

// OpenPWSafe reads a Password Safe v3 file. Password Safe has no key files and
// keeps no per-entry history, so loaded entries never carry History.
func OpenPWSafe(path string, creds Credentials) (*models.Group, error) {
	if creds.KeyFile != "" {
		return nil, errors.WithHint(
			errors.Wrapf(ErrKeyFileUnsupported, "%s", path),
			"Password Safe files are unlocked by password only",
		)
	}
	if err := checkPWSafeSignature(path); err != nil {
		return nil, err
	}
	if creds.Password == nil {
		return nil, errors.Wrapf(ErrNoCredentials, "%s", path)
	}

	db, err := pwsafe.OpenPWSafeFile(path, *creds.Password)
	if err != nil {
		return nil, errors.WithHint(
			wrongCredentials(errors.Wrapf(err, "failed to unlock %s", path)),
			"check the password",
		)
	}
	return buildPWSafeTree(db), nil
}

func checkPWSafeSignature(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()
	_, err = readSignature(file, path, pwsafeSignature, "Password Safe v3")
	return err
}

type pwsafeRecord struct {
	id    string
	group string
	title string
	entry models.Entry
}

func buildPWSafeTree(db *pwsafe.V3) *models.Group {
	records := make([]pwsafeRecord, 0, len(db.Records))
	for _, record := range db.Records {
		id := pwsafeID(record.UUID[:])
		records = append(records, pwsafeRecord{
			id:    id,
			group: record.Group,
			title: record.Title,
			entry: models.Entry{
				ID: id,
				Fields: models.NewFields(
					models.FieldTitle, record.Title,
					models.FieldUsername, record.Username,
					models.FieldPassword, record.Password,
					models.FieldURL, record.URL,
					models.FieldNotes, record.Notes,
				),
			},
		})
	}
	// Record iteration order is not stable between runs.
	slices.SortFunc(records, func(a, b pwsafeRecord) int {
		return cmp.Or(
			cmp.Compare(a.group, b.group),
			cmp.Compare(a.title, b.title),
			cmp.Compare(a.id, b.id),
		)
	})

	root := &models.Group{Name: RootName, Entries: []models.Entry{}, Groups: []*models.Group{}}
	for _, r := range records {
		parent := root
		if r.group != "" {
			var groupPath string
			for _, part := range strings.Split(r.group, pwsafeGroupSeparator) {
				if groupPath == "" {
					groupPath = part
				} else {
					groupPath = groupPath + pwsafeGroupSeparator + part
				}
				parent = parent.Subgroup(groupPath, part)
			}
		}
		parent.Entries = append(parent.Entries, r.entry)
	}
	return root
}

func pwsafeID(raw []byte) string {
	id, err := uuid.FromBytes(raw)
	if err != nil {
		// Not 16 bytes; keep the raw hex so the record stays addressable.
		return hex.EncodeToString(raw)
	}
	return id.String()
}
