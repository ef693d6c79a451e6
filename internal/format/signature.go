package format

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
)

var (
	// ErrWrongCredentials marks open failures that other credentials could
	// fix. Once a file's signature has been recognised, any decryption or
	// decoding failure is treated as one.
	ErrWrongCredentials = errors.New("wrong password or key file")
	ErrNotDatabase      = errors.New("file is not a database of this format")
)

var (
	keepassSignature = []byte{0x03, 0xd9, 0xa2, 0x9a, 0x67, 0xfb, 0x4b, 0xb5}
	pwsafeSignature  = []byte("PWS3")
)

// readSignature reads len(signature) bytes from r and checks them. It
// returns the bytes read so callers can replay them to a decoder.
func readSignature(r io.Reader, path string, signature []byte, kind string) ([]byte, error) {
	head := make([]byte, len(signature))
	if _, err := io.ReadFull(r, head); err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
	}
	if !bytes.Equal(head, signature) {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNotDatabase, "%s", path),
			"the file does not look like a "+kind+" file",
		)
	}
	return head, nil
}

func wrongCredentials(err error) error {
	return errors.Mark(err, ErrWrongCredentials)
}
