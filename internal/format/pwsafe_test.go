package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkuhlman/gopwsafe/pwsafe"

	"github.com/rolledback/safediff/internal/models"
)

func ptr(s string) *string { return &s }

var (
	bankID  = uuid.MustParse("c4dcfb52-b944-f141-af96-b746f184afe2")
	vpnID   = uuid.MustParse("6f1738b6-4a22-314a-8bbf-5c3507f0d489")
	sshID   = uuid.MustParse("0b0e7c1f-9a43-4d3c-8f57-1a2b3c4d5e6f")
	looseID = uuid.MustParse("9e1f7a52-0c11-4b7e-a2d4-77c0de5e1f00")
)

func writeSafe(t *testing.T, password string) string {
	t.Helper()
	db := pwsafe.NewV3("test", password)
	db.SetRecord(pwsafe.Record{UUID: bankID, Title: "Bank", Group: "Personal", Username: "me", Password: "hunter2", URL: "https://bank.example"})
	db.SetRecord(pwsafe.Record{UUID: vpnID, Title: "VPN", Group: "Work", Password: "vpn-pw"})
	db.SetRecord(pwsafe.Record{UUID: sshID, Title: "SSH", Group: "Work.Servers", Username: "root", Password: "ssh-pw"})
	db.SetRecord(pwsafe.Record{UUID: looseID, Title: "Loose", Password: "x"})

	path := filepath.Join(t.TempDir(), "test.psafe3")
	require.NoError(t, pwsafe.WritePWSafeFile(db, path))
	return path
}

func TestOpenPWSafe(t *testing.T) {
	path := writeSafe(t, "three3#;")

	root, err := OpenPWSafe(path, Credentials{Password: ptr("three3#;")})
	require.NoError(t, err)

	assert.Equal(t, RootName, root.Name)
	require.Len(t, root.Entries, 1)
	assert.Equal(t, "Loose", root.Entries[0].Name())

	require.Len(t, root.Groups, 2)
	personal, work := root.Groups[0], root.Groups[1]
	assert.Equal(t, "Personal", personal.Name)
	assert.Equal(t, "Work", work.Name)

	bank := personal.Entries[0]
	assert.Equal(t, bankID.String(), bank.ID)
	assert.Equal(t, []string{"title", "username", "password", "url", "notes"}, bank.Fields.Keys())
	pw, _ := bank.Fields.Get(models.FieldPassword)
	assert.Equal(t, "hunter2", pw)
	assert.Empty(t, bank.History)

	require.Len(t, work.Groups, 1)
	servers := work.Groups[0]
	assert.Equal(t, "Work.Servers", servers.ID)
	assert.Equal(t, "Servers", servers.Name)
	assert.Equal(t, sshID.String(), servers.Entries[0].ID)
}

func TestOpenPWSafe_StableOrder(t *testing.T) {
	path := writeSafe(t, "pw")
	first, err := OpenPWSafe(path, Credentials{Password: ptr("pw")})
	require.NoError(t, err)
	for range 5 {
		again, err := OpenPWSafe(path, Credentials{Password: ptr("pw")})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestOpenPWSafe_WrongPassword(t *testing.T) {
	path := writeSafe(t, "pw")
	_, err := OpenPWSafe(path, Credentials{Password: ptr("wrong")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrongCredentials))
}

func TestOpenPWSafe_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.psafe3")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o600))

	_, err := OpenPWSafe(path, Credentials{Password: ptr("pw")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotDatabase))
	assert.False(t, errors.Is(err, ErrWrongCredentials), "no password can open a file that is not a safe")
}

func TestOpenPWSafe_Credentials(t *testing.T) {
	_, err := OpenPWSafe("x.psafe3", Credentials{Password: ptr("pw"), KeyFile: "k"})
	assert.ErrorIs(t, err, ErrKeyFileUnsupported)

	_, err = OpenPWSafe(writeSafe(t, "pw"), Credentials{})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestPWSafeID_ShortInput(t *testing.T) {
	assert.Equal(t, "0102", pwsafeID([]byte{1, 2}))
}
