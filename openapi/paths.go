package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Paths holds the relative paths to individual endpoints and their
// operations, preserving insertion order. Plain Go maps serialize in an
// order the caller cannot control; Paths keeps an explicit key list so the
// generator can sort paths once and both JSON and YAML emission reproduce
// that exact order.
//
// See: https://spec.openapis.org/oas/v3.0.2#paths-object
type Paths struct {
	keys  []string
	items map[string]*PathItem
}

// NewPaths creates an empty ordered paths collection.
func NewPaths() *Paths {
	return &Paths{items: make(map[string]*PathItem)}
}

// Len returns the number of paths.
func (p *Paths) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Get returns the path item for the given path, or nil when absent.
func (p *Paths) Get(path string) *PathItem {
	if p == nil {
		return nil
	}
	return p.items[path]
}

// Set stores the path item under the given path. Setting an existing path
// replaces the item in place without changing its position.
func (p *Paths) Set(path string, item *PathItem) {
	if p.items == nil {
		p.items = make(map[string]*PathItem)
	}
	if _, ok := p.items[path]; !ok {
		p.keys = append(p.keys, path)
	}
	p.items[path] = item
}

// Keys returns the paths in their current order. The returned slice is a
// copy and can be modified freely.
func (p *Paths) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Sort orders the paths lexicographically. The generator calls this before
// emitting a document so repeated builds produce byte-identical output.
func (p *Paths) Sort() {
	if p == nil {
		return
	}
	sort.Strings(p.keys)
}

// MarshalJSON encodes the paths as a JSON object in key order.
//
// See: https://spec.openapis.org/oas/v3.0.2#paths-object
func (p *Paths) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(p.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the paths collection,
// preserving the key order of the input document.
func (p *Paths) UnmarshalJSON(data []byte) error {
	p.keys = nil
	p.items = make(map[string]*PathItem)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("paths: expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("paths: expected string key, got %v", tok)
		}
		item := &PathItem{}
		if err := dec.Decode(item); err != nil {
			return err
		}
		p.Set(key, item)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalYAML encodes the paths as a YAML mapping in key order.
//
// See: https://spec.openapis.org/oas/v3.0.2#paths-object
func (p *Paths) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range p.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(p.items[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping into the paths collection,
// preserving the key order of the input document.
func (p *Paths) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("paths: expected YAML mapping, got kind %d", node.Kind)
	}
	p.keys = nil
	p.items = make(map[string]*PathItem)

	for i := 0; i+1 < len(node.Content); i += 2 {
		item := &PathItem{}
		if err := node.Content[i+1].Decode(item); err != nil {
			return err
		}
		p.Set(node.Content[i].Value, item)
	}
	return nil
}
