// Package unlock decides how each input database is unlocked and opens it,
// prompting on the terminal when no password was given.
package unlock

import (
	"fmt"

	"github.com/rolledback/safediff/internal/config"
	"github.com/rolledback/safediff/internal/format"
)

// Source says where a plan's password comes from.
type Source int

const (
	// SourceNone opens the database without a password.
	SourceNone Source = iota
	// SourceExplicit uses Plan.Password as given.
	SourceExplicit
	// SourcePrompt asks on the terminal.
	SourcePrompt
	// SourceShared reuses the password that unlocked the other file.
	SourceShared
)

func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceExplicit:
		return "explicit"
	case SourcePrompt:
		return "prompt"
	case SourceShared:
		return "shared"
	default:
		return "unknown"
	}
}

const (
	sharedPromptLabel = "Password for both files: "
	filePromptFormat  = "Password for file %s: "
)

// Plan is how one input is unlocked.
type Plan struct {
	Path        string
	KeyFile     string
	Source      Source
	Password    *string
	PromptLabel string
}

// Credentials returns the credentials for password.
func (p Plan) Credentials(password *string) format.Credentials {
	return format.Credentials{Password: password, KeyFile: p.KeyFile}
}

// ResolvePlans applies the credential options to both inputs. For each file
// the first match wins: its own password, the shared --passwords value,
// --same-password, its own no-password flag, --no-passwords, and finally an
// interactive prompt. With --same-password the first file prompts once for
// both and the second reuses whatever unlocked the first.
func ResolvePlans(c config.Credentials, inputA, inputB string) (Plan, Plan) {
	a := Plan{Path: inputA, KeyFile: keyFile(c.KeyFileA, c.KeyFiles)}
	switch {
	case c.PasswordA != nil:
		a.Source, a.Password = SourceExplicit, c.PasswordA
	case c.Passwords != nil:
		a.Source, a.Password = SourceExplicit, c.Passwords
	case c.SamePassword:
		a.Source, a.PromptLabel = SourcePrompt, sharedPromptLabel
	case c.NoPasswordA, c.NoPasswords:
		a.Source = SourceNone
	default:
		a.Source, a.PromptLabel = SourcePrompt, promptLabel(inputA)
	}

	b := Plan{Path: inputB, KeyFile: keyFile(c.KeyFileB, c.KeyFiles)}
	switch {
	case c.PasswordB != nil:
		b.Source, b.Password = SourceExplicit, c.PasswordB
	case c.Passwords != nil:
		b.Source, b.Password = SourceExplicit, c.Passwords
	case c.SamePassword:
		b.Source = SourceShared
	case c.NoPasswordB, c.NoPasswords:
		b.Source = SourceNone
	default:
		b.Source, b.PromptLabel = SourcePrompt, promptLabel(inputB)
	}
	return a, b
}

func keyFile(own, shared string) string {
	if own != "" {
		return own
	}
	return shared
}

func promptLabel(path string) string {
	return fmt.Sprintf(filePromptFormat, path)
}
