// Package frontmatter extracts the identity block from a zettel's leading
// `---` delimited YAML frontmatter.
package frontmatter

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/zk/internal/apperr"
)

// Delimiter bounds the frontmatter block.
const Delimiter = "---"

// Frontmatter holds the fields zk reads from a note.
type Frontmatter struct {
	UUID  string `yaml:"uuid"`
	Title string `yaml:"title"`
}

// Parse locates the first two delimiter lines in data and decodes the block
// between them. Anything after the closing delimiter is ignored.
func Parse(data []byte) (*Frontmatter, error) {
	block, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var fm Frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMalformedFrontmatter, err)
	}
	if fm.UUID == "" {
		return nil, fmt.Errorf("%w: missing uuid", apperr.ErrMalformedFrontmatter)
	}
	return &fm, nil
}

// splitFrontmatter returns the raw text between the first line consisting
// solely of the delimiter and the first subsequent one.
func splitFrontmatter(data []byte) ([]byte, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	var block bytes.Buffer
	found := 0
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == Delimiter {
			found++
			if found == 2 {
				return block.Bytes(), nil
			}
			continue
		}
		if found == 1 {
			block.WriteString(line)
			block.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("frontmatter: scan: %w", err)
	}
	return nil, fmt.Errorf("%w: found %d of 2 %q delimiters", apperr.ErrMalformedFrontmatter, found, Delimiter)
}
