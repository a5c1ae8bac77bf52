package markdown

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML block at the top of a document.
type Frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Tags        Tags   `yaml:"tags"`

	// EndLine is the 1-based line of the closing delimiter; the body starts
	// on the next line.
	EndLine int `yaml:"-"`
}

// Tags accepts either a YAML list or a comma separated string.
type Tags []string

func (t *Tags) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*t = cleanTags(list)
	case yaml.ScalarNode:
		*t = cleanTags(strings.Split(strings.Trim(value.Value, "[]"), ","))
	default:
		return fmt.Errorf("tags: unsupported yaml node kind %d", value.Kind)
	}
	return nil
}

func cleanTags(in []string) Tags {
	var out Tags
	for _, tag := range in {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// ExtractFrontmatter parses a --- delimited YAML block. It returns nil when
// the document has no closed block. A block that is not valid YAML still
// reports EndLine so the body can be separated, together with the error.
func ExtractFrontmatter(content []byte) (*Frontmatter, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return nil, nil
	}

	var raw bytes.Buffer
	line := 1
	end := 0
	for scanner.Scan() {
		line++
		if strings.TrimSpace(scanner.Text()) == "---" {
			end = line
			break
		}
		raw.Write(scanner.Bytes())
		raw.WriteByte('\n')
	}
	if end == 0 {
		return nil, nil
	}

	fm := &Frontmatter{}
	if err := yaml.Unmarshal(raw.Bytes(), fm); err != nil {
		return &Frontmatter{EndLine: end}, fmt.Errorf("parse frontmatter: %w", err)
	}
	fm.EndLine = end
	return fm, nil
}

// splitBody returns the content after the frontmatter block.
func splitBody(content []byte, endLine int) []byte {
	if endLine <= 0 {
		return content
	}
	rest := content
	for range endLine {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			return nil
		}
		rest = rest[i+1:]
	}
	return rest
}
