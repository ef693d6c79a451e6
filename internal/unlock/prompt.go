package unlock

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Prompter asks the user for a password. A nil result means the user gave
// none.
type Prompter interface {
	Prompt(label string) (*string, error)
}

// TerminalPrompter reads passwords from the terminal without echo, writing
// the label to out.
type TerminalPrompter struct {
	out io.Writer
	fd  int
}

func NewTerminalPrompter(out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{out: out, fd: int(os.Stdin.Fd())}
}

// Prompt prints label and reads one password. An empty answer means no
// password.
func (p *TerminalPrompter) Prompt(label string) (*string, error) {
	if _, err := fmt.Fprint(p.out, label); err != nil {
		return nil, errors.Wrap(err, "failed to write prompt")
	}
	pw, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "failed to read password"),
			"pass --password-a/--password-b or --no-passwords when stdin is not a terminal",
		)
	}
	if len(pw) == 0 {
		return nil, nil
	}
	s := string(pw)
	return &s, nil
}
