package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/log"
)

// SaveDesign replaces the design section of the config file with cfg.
// Comments and formatting in other sections are preserved by editing the
// document as a yaml.Node. A missing file is created.
func SaveDesign(configPath string, cfg design.Config) error {
	node, err := buildDesignNode(cfg)
	if err != nil {
		return fmt.Errorf("building design node: %w", err)
	}
	if err := saveSection(configPath, "design", node); err != nil {
		return err
	}
	log.Info(log.CatConfig, "Saved design selection", "path", configPath, "style", cfg.StyleName())
	return nil
}

// buildDesignNode encodes cfg as a mapping node, omitting empty fields.
func buildDesignNode(cfg design.Config) (*yaml.Node, error) {
	fields := []struct{ key, value string }{
		{"base", cfg.Base},
		{"style", cfg.Style},
		{"icon_library", cfg.IconLibrary},
		{"base_color", cfg.BaseColor},
		{"theme", cfg.Theme},
		{"font", cfg.Font},
		{"menu_accent", cfg.MenuAccent},
		{"menu_color", cfg.MenuColor},
		{"radius", cfg.Radius},
		{"template", cfg.Template},
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		var value yaml.Node
		if err := value.Encode(f.value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.key},
			&value,
		)
	}
	return node, nil
}

// saveSection sets the top-level key to value and writes the file atomically.
func saveSection(configPath, key string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		// Empty or new file
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	found := false
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			// Keep comments attached to the old value.
			value.HeadComment = root.Content[i+1].HeadComment
			value.LineComment = root.Content[i+1].LineComment
			root.Content[i+1] = value
			found = true
			break
		}
	}
	if !found {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			value,
		)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// writeAtomic writes to a temp file in the target directory, then renames.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".design-registry.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
