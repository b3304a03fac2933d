package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Section keys, highest precedence first. The first non-empty key wins; the
// others are ignored, never merged.
var (
	scriptKeys   = []string{"rav", "scripts", "commands"}
	variableKeys = []string{"vars", "variables"}
)

// groupKeys mark a mapping as a group definition.
var groupKeys = []string{"prefix", "working_dir", "cmd"}

// ParseProject decodes YAML project text into a Project.
func ParseProject(data []byte, path string) (*Project, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	p := &Project{Path: path, Scripts: &Scripts{}, Vars: map[string]string{}}

	// An empty file decodes to a zero node.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return p, nil
	}
	root := deref(doc.Content[0])
	if isNull(root) {
		return p, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: top level must be a mapping, got %s", path, kindName(root))
	}

	if n, ok := lookup(root, "name"); ok && n.Kind == yaml.ScalarNode && !isNull(n) {
		p.Name = n.Value
	}

	if key, n, ok := firstPresent(root, scriptKeys); ok {
		if n.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s: %q must be a mapping of script names, got %s", path, key, kindName(n))
		}
		p.Scripts = decodeScripts(n)
	}

	if key, n, ok := firstPresent(root, variableKeys); ok {
		if n.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s: %q must be a mapping, got %s", path, key, kindName(n))
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			p.Vars[n.Content[i].Value] = stringify(deref(n.Content[i+1]))
		}
	}

	// Download errors are kept on the project and only surface when a
	// download is run, so scripts stay usable.
	if n, ok := lookup(root, "downloads"); ok && !isFalsy(n) {
		if n.Kind != yaml.MappingNode {
			p.DownloadsErr = fmt.Errorf("%s: \"downloads\" must be a mapping, got %s", path, kindName(n))
		} else {
			for i := 0; i+1 < len(n.Content); i += 2 {
				name := n.Content[i].Value
				var spec DownloadSpec
				if err := deref(n.Content[i+1]).Decode(&spec); err != nil {
					spec = DownloadSpec{Err: fmt.Errorf("%s: download %q: %w", path, name, err)}
				}
				spec.Name = name
				p.Downloads = append(p.Downloads, spec)
			}
		}
	}

	return p, nil
}

func decodeScripts(n *yaml.Node) *Scripts {
	s := &Scripts{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		s.Set(n.Content[i].Value, DecodeEntry(n.Content[i+1]))
	}
	return s
}

// DecodeEntry classifies a scripts value node. The decision is made here,
// once, so resolution never inspects raw YAML.
func DecodeEntry(node *yaml.Node) Entry {
	n := deref(node)
	e := Entry{Empty: isFalsy(n)}

	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			e.Kind = KindPlain
			e.Text = n.Value
			return e
		}
		e.Kind = KindOther
		if !isNull(n) {
			e.Text = n.Value
		}
		return e

	case yaml.SequenceNode:
		e.Kind = KindSequence
		for _, item := range n.Content {
			if step, ok := decodeStep(deref(item)); ok {
				e.Steps = append(e.Steps, step)
			}
		}
		return e

	case yaml.MappingNode:
		if !hasAny(n, groupKeys) {
			e.Kind = KindOther
			e.Text = inline(n)
			return e
		}
		e.Kind = KindGroup
		if v, ok := lookup(n, "prefix"); ok {
			s := optional(v)
			e.Prefix = &s
		}
		if v, ok := lookup(n, "working_dir"); ok {
			s := optional(v)
			e.WorkingDir = &s
		}
		if v, ok := lookup(n, "cmd"); ok {
			e.HasCmd = true
			switch v.Kind {
			case yaml.ScalarNode:
				if v.ShortTag() == "!!str" {
					e.Cmd = []string{v.Value}
				}
			case yaml.SequenceNode:
				e.Cmd = scalarList(v)
			}
		}
		return e
	}

	e.Kind = KindOther
	return e
}

// decodeStep turns one sequence item into a Step. Null items and nested
// sequences contribute nothing and are dropped.
func decodeStep(n *yaml.Node) (Step, bool) {
	switch n.Kind {
	case yaml.ScalarNode:
		if isNull(n) {
			return Step{}, false
		}
		return Step{Commands: []string{n.Value}}, true
	case yaml.MappingNode:
		st := Step{Mapping: true}
		v, ok := lookup(n, "cmd")
		if !ok {
			st.Raw = inline(n)
			return st, true
		}
		st.HasCmd = true
		switch v.Kind {
		case yaml.SequenceNode:
			st.Commands = scalarList(v)
		case yaml.ScalarNode:
			if !isFalsy(v) {
				st.Commands = []string{v.Value}
			}
		}
		return st, true
	}
	return Step{}, false
}

// lookup returns the (dereferenced) value stored under key in a mapping node.
func lookup(m *yaml.Node, key string) (*yaml.Node, bool) {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return deref(m.Content[i+1]), true
		}
	}
	return nil, false
}

func hasAny(m *yaml.Node, keys []string) bool {
	for _, k := range keys {
		if _, ok := lookup(m, k); ok {
			return true
		}
	}
	return false
}

// firstPresent returns the first key whose value is not falsy.
func firstPresent(m *yaml.Node, keys []string) (string, *yaml.Node, bool) {
	for _, k := range keys {
		if v, ok := lookup(m, k); ok && !isFalsy(v) {
			return k, v, true
		}
	}
	return "", nil, false
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// isFalsy mirrors YAML-value truthiness: null, "", 0, false, {} and [].
func isFalsy(n *yaml.Node) bool {
	n = deref(n)
	if n == nil {
		return true
	}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return true
		case "!!str":
			return n.Value == ""
		case "!!bool":
			var b bool
			return n.Decode(&b) == nil && !b
		case "!!int", "!!float":
			var f float64
			return n.Decode(&f) == nil && f == 0
		}
		return false
	case yaml.MappingNode, yaml.SequenceNode:
		return len(n.Content) == 0
	}
	return false
}

// optional reads a prefix/working_dir value: falsy means "none" ("").
func optional(n *yaml.Node) string {
	if isFalsy(n) {
		return ""
	}
	return stringify(n)
}

// stringify renders a value as text: scalars keep their YAML literal
// spelling (true, 0x10, 1e3 stay as written), null is "", collections
// render in inline flow form.
func stringify(n *yaml.Node) string {
	if isNull(n) {
		return ""
	}
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return inline(n)
}

func scalarList(n *yaml.Node) []string {
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = deref(item)
		if item.Kind == yaml.ScalarNode && !isNull(item) {
			out = append(out, item.Value)
		}
	}
	return out
}

// inline renders a collection node in YAML flow style on a single line.
func inline(n *yaml.Node) string {
	c := *n
	setFlow(&c)
	out, err := yaml.Marshal(&c)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func setFlow(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style |= yaml.FlowStyle
	}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return "scalar " + strings.TrimPrefix(n.ShortTag(), "!!")
	default:
		return "unknown node"
	}
}
