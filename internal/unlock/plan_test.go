package unlock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rolledback/safediff/internal/config"
)

func ptr(s string) *string { return &s }

func TestResolvePlans(t *testing.T) {
	tests := []struct {
		name  string
		creds config.Credentials
		wantA Plan
		wantB Plan
	}{
		{
			name:  "prompt for each file by default",
			wantA: Plan{Path: "a.kdbx", Source: SourcePrompt, PromptLabel: "Password for file a.kdbx: "},
			wantB: Plan{Path: "b.kdbx", Source: SourcePrompt, PromptLabel: "Password for file b.kdbx: "},
		},
		{
			name:  "own password beats shared passwords",
			creds: config.Credentials{PasswordA: ptr("pa"), Passwords: ptr("both")},
			wantA: Plan{Path: "a.kdbx", Source: SourceExplicit, Password: ptr("pa")},
			wantB: Plan{Path: "b.kdbx", Source: SourceExplicit, Password: ptr("both")},
		},
		{
			name:  "passwords beats same-password",
			creds: config.Credentials{Passwords: ptr("both"), SamePassword: true},
			wantA: Plan{Path: "a.kdbx", Source: SourceExplicit, Password: ptr("both")},
			wantB: Plan{Path: "b.kdbx", Source: SourceExplicit, Password: ptr("both")},
		},
		{
			name:  "same-password prompts once",
			creds: config.Credentials{SamePassword: true, NoPasswordB: true},
			wantA: Plan{Path: "a.kdbx", Source: SourcePrompt, PromptLabel: "Password for both files: "},
			wantB: Plan{Path: "b.kdbx", Source: SourceShared},
		},
		{
			name:  "same-password shares an explicit first password",
			creds: config.Credentials{PasswordA: ptr("pa"), SamePassword: true},
			wantA: Plan{Path: "a.kdbx", Source: SourceExplicit, Password: ptr("pa")},
			wantB: Plan{Path: "b.kdbx", Source: SourceShared},
		},
		{
			name:  "no-password for one file",
			creds: config.Credentials{NoPasswordA: true},
			wantA: Plan{Path: "a.kdbx", Source: SourceNone},
			wantB: Plan{Path: "b.kdbx", Source: SourcePrompt, PromptLabel: "Password for file b.kdbx: "},
		},
		{
			name:  "no-passwords loses to an own password",
			creds: config.Credentials{NoPasswords: true, PasswordB: ptr("")},
			wantA: Plan{Path: "a.kdbx", Source: SourceNone},
			wantB: Plan{Path: "b.kdbx", Source: SourceExplicit, Password: ptr("")},
		},
		{
			name:  "own key file beats shared key file",
			creds: config.Credentials{NoPasswords: true, KeyFileA: "a.key", KeyFiles: "both.key"},
			wantA: Plan{Path: "a.kdbx", Source: SourceNone, KeyFile: "a.key"},
			wantB: Plan{Path: "b.kdbx", Source: SourceNone, KeyFile: "both.key"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := ResolvePlans(tt.creds, "a.kdbx", "b.kdbx")
			assert.Equal(t, tt.wantA, a)
			assert.Equal(t, tt.wantB, b)
		})
	}
}

func TestPlan_Credentials(t *testing.T) {
	p := Plan{Path: "a.kdbx", KeyFile: "k"}
	c := p.Credentials(ptr("pw"))
	assert.Equal(t, "k", c.KeyFile)
	assert.Equal(t, "pw", *c.Password)
	assert.Nil(t, p.Credentials(nil).Password)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "shared", SourceShared.String())
	assert.Equal(t, "unknown", Source(42).String())
}
