// Package persona loads persona definitions and tracks which persona each
// user has selected.
package persona

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/easeaico/her-line/internal/types"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

var (
	namePattern   = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
	reservedNames = map[string]bool{"debug": true, "set": true, "who": true, "ping": true}
)

// Builtin returns the personas shipped with the binary, sorted by name.
func Builtin() ([]*types.Persona, error) {
	return loadFS(builtinFS, "builtin")
}

// LoadDir reads every .yaml/.yml file in dir, sorted by name.
func LoadDir(dir string) ([]*types.Persona, error) {
	personas, err := loadFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("read persona directory %s: %w", dir, err)
	}
	return personas, nil
}

// LoadFile reads a single persona file.
func LoadFile(filePath string) (*types.Persona, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read persona %s: %w", filePath, err)
	}
	return Parse(data, filePath)
}

func loadFS(fsys fs.FS, dir string) ([]*types.Persona, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var personas []*types.Persona
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		source := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, source)
		if err != nil {
			return nil, fmt.Errorf("read persona %s: %w", source, err)
		}
		p, err := Parse(data, source)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("persona %q defined in both %s and %s", p.Name, prev, source)
		}
		seen[p.Name] = source
		personas = append(personas, p)
	}

	if len(personas) == 0 {
		return nil, fmt.Errorf("no persona files found")
	}
	sort.Slice(personas, func(i, j int) bool { return personas[i].Name < personas[j].Name })
	return personas, nil
}

// Parse decodes one YAML persona document, checks it against the persona
// JSON schema, then applies the semantic checks of Validate.
func Parse(data []byte, source string) (*types.Persona, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse persona %s: %w", source, err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("validate persona %s: %w", source, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p types.Persona
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse persona %s: %w", source, err)
	}

	if err := Validate(&p); err != nil {
		return nil, fmt.Errorf("validate persona %s: %w", source, err)
	}
	return &p, nil
}

// Validate checks the parts of a persona the schema cannot express.
func Validate(p *types.Persona) error {
	if p == nil {
		return fmt.Errorf("persona is nil")
	}
	if !namePattern.MatchString(p.Name) {
		return fmt.Errorf("invalid name %q: must match %s", p.Name, namePattern)
	}
	if reservedNames[p.Name] {
		return fmt.Errorf("name %q collides with a command", p.Name)
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("display_name is required")
	}
	for key := range p.Endings {
		if key != types.EndingDefault && !types.Intent(key).Valid() {
			return fmt.Errorf("endings: unknown intent %q", key)
		}
	}
	if len(p.Replies) == 0 {
		return fmt.Errorf("replies: at least one bucket is required")
	}
	for key, bucket := range p.Replies {
		if !types.Intent(key).Valid() {
			return fmt.Errorf("replies: unknown intent %q", key)
		}
		if len(bucket) == 0 {
			return fmt.Errorf("replies.%s: bucket is empty", key)
		}
		for i, tpl := range bucket {
			if strings.TrimSpace(tpl) == "" {
				return fmt.Errorf("replies.%s[%d]: template is empty", key, i)
			}
		}
	}
	return nil
}

// normalizeJSON converts YAML-decoded values into the plain JSON value
// shapes the schema validator expects.
func normalizeJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
