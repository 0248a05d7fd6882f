package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Split separates a notes document into its YAML front-matter block and body.
// When no front matter is present, the block is empty and body is the input.
func Split(text string) (block string, body string) {
	if !strings.HasPrefix(text, delimiter+"\n") && text != delimiter {
		return "", text
	}
	rest := strings.TrimPrefix(text, delimiter+"\n")
	end := strings.Index(rest, "\n"+delimiter)
	if end < 0 {
		return "", text
	}
	block = rest[:end]
	body = rest[end+len("\n"+delimiter):]
	body = strings.TrimPrefix(body, "\n")
	return block, body
}

// Join reattaches a front-matter block to a body.
func Join(block, body string) string {
	if strings.TrimSpace(block) == "" {
		return body
	}
	return delimiter + "\n" + strings.TrimRight(block, "\n") + "\n" + delimiter + "\n" + body
}

// Get reads one scalar key from a document's front matter. Missing front
// matter or missing keys report ok=false.
func Get(text, key string) (value string, ok bool, err error) {
	block, _ := Split(text)
	return GetKey(block, key)
}

// GetKey reads one scalar key from a bare front-matter block, without the
// surrounding delimiters.
func GetKey(block, key string) (value string, ok bool, err error) {
	if strings.TrimSpace(block) == "" {
		return "", false, nil
	}
	mapping, err := parseMapping(block)
	if err != nil {
		return "", false, err
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1].Value, true, nil
		}
	}
	return "", false, nil
}

// Set writes one scalar key into a document's front matter, creating the
// block when absent. Unknown keys and their order are preserved; the store
// treats the block as opaque, only this package interprets it.
func Set(text, key, value string) (string, error) {
	block, body := Split(text)
	updated, err := SetKey(block, key, value)
	if err != nil {
		return "", err
	}
	return Join(updated, body), nil
}

// SetKey writes one scalar key into a bare front-matter block and returns the
// updated block.
func SetKey(block, key, value string) (string, error) {
	var mapping *yaml.Node
	if strings.TrimSpace(block) == "" {
		mapping = &yaml.Node{Kind: yaml.MappingNode}
	} else {
		parsed, err := parseMapping(block)
		if err != nil {
			return "", err
		}
		mapping = parsed
	}

	updated := false
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = scalarNode(value)
			updated = true
			break
		}
	}
	if !updated {
		mapping.Content = append(mapping.Content, scalarNode(key), scalarNode(value))
	}

	encoded, err := yaml.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	return strings.TrimRight(string(encoded), "\n"), nil
}

func parseMapping(block string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse front matter: expected a key-value mapping")
	}
	return root, nil
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}
