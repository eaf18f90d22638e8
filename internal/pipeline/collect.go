package pipeline

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Collect reads r to end of stream and decodes it as text.
//
// A UTF-8 byte order mark is dropped, a UTF-16 one switches decoding to
// UTF-16, and invalid UTF-8 becomes U+FFFD. NUL bytes and line breaks are
// kept as they are.
func Collect(r io.Reader) (string, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	b, err := io.ReadAll(dec)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(b), nil
}

// Emit writes s and a trailing newline to w in a single write.
func Emit(w io.Writer, s string) error {
	buf := s + "\n"
	n, err := io.WriteString(w, buf)
	if err != nil {
		return errors.WithStack(err)
	}
	if n < len(buf) {
		return errors.WithStack(io.ErrShortWrite)
	}
	return nil
}
