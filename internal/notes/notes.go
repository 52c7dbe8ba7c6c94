// Package notes builds and writes new zettel files.
package notes

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/starford/zk/internal/apperr"
	"github.com/starford/zk/internal/frontmatter"
	"github.com/starford/zk/internal/storage"
)

// DefaultTitle is used when no title is supplied.
const DefaultTitle = "my note"

// DateLayout is the date prefix of every zettel file name.
const DateLayout = "2006-01-02"

// whitespaceRe matches runs of anything unicode.IsSpace accepts, plus the
// other Unicode separators (U+2028, U+2029).
var whitespaceRe = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

// Slug replaces every whitespace run in title with a single hyphen. Nothing
// else is changed: no case folding, no punctuation stripping.
func Slug(title string) string {
	return whitespaceRe.ReplaceAllString(title, "-")
}

// FileName returns `<date>-<slug(title)>.md`.
func FileName(date time.Time, title string) string {
	return date.Format(DateLayout) + "-" + Slug(title) + ".md"
}

// Render returns the file content for a new zettel: the frontmatter block,
// a blank line and an empty body.
func Render(id, title string) []byte {
	var b strings.Builder
	b.WriteString(frontmatter.Delimiter + "\n")
	b.WriteString("uuid: " + strconv.Quote(id) + "\n")
	b.WriteString("title: " + strconv.Quote(title) + "\n")
	b.WriteString(frontmatter.Delimiter + "\n\n")
	return []byte(b.String())
}

// Writer creates zettel files in a vault.
type Writer struct {
	fs storage.Provider
}

// NewWriter creates a Writer over fs.
func NewWriter(fs storage.Provider) *Writer {
	return &Writer{fs: fs}
}

// Create writes a new zettel dated now and returns its file name. It fails
// with apperr.ErrNoteAlreadyExists rather than overwrite or rename.
func (w *Writer) Create(title string, now time.Time, id string) (string, error) {
	if title == "" {
		title = DefaultTitle
	}
	name := FileName(now, title)
	if err := w.fs.Create(name, Render(id, title)); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", apperr.ErrNoteAlreadyExists, name)
		}
		return "", fmt.Errorf("notes: create: %w", err)
	}
	return name, nil
}
