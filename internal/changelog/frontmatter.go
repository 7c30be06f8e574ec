package changelog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter keys owned by the generator.
const (
	KeyLastHash = "last-hash"
	KeyLastTag  = "last-tag"
)

// Frontmatter is the YAML metadata block at the top of the changelog. Keys
// other than last-hash and last-tag are carried through untouched.
type Frontmatter struct {
	LastHash string
	LastTag  string

	raw      string
	origHash string
	origTag  string
}

// ParseFrontmatter decodes the text between the "---" delimiters. An empty
// block is valid; anything other than a mapping is not.
func ParseFrontmatter(raw string) (Frontmatter, error) {
	fm := Frontmatter{raw: raw}

	root, err := decodeMapping(raw)
	if err != nil {
		return Frontmatter{}, err
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
			continue
		}
		switch key.Value {
		case KeyLastHash:
			fm.LastHash = value.Value
		case KeyLastTag:
			fm.LastTag = value.Value
		}
	}

	fm.origHash, fm.origTag = fm.LastHash, fm.LastTag
	return fm, nil
}

// With returns a copy of f carrying the given hash and tag.
func (f Frontmatter) With(hash, tag string) Frontmatter {
	f.LastHash = hash
	f.LastTag = tag
	return f
}

// Changed reports whether the tracked values differ from the parsed ones.
func (f Frontmatter) Changed() bool {
	return f.LastHash != f.origHash || f.LastTag != f.origTag
}

// Encode returns the YAML text for the block. When neither tracked value has
// changed the original text is returned byte for byte.
func (f Frontmatter) Encode() (string, error) {
	if !f.Changed() {
		return f.raw, nil
	}

	root, err := decodeMapping(f.raw)
	if err != nil {
		return "", err
	}
	setScalar(root, KeyLastHash, f.LastHash)
	setScalar(root, KeyLastTag, f.LastTag)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	return buf.String(), nil
}

// decodeMapping parses raw into a mapping node, creating an empty one for
// blank input.
func decodeMapping(raw string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &FrontmatterError{Reason: err.Error()}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &FrontmatterError{Reason: "frontmatter is not a mapping"}
	}
	return root, nil
}

func setScalar(mapping *yaml.Node, key, value string) {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = node
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		node,
	)
}
