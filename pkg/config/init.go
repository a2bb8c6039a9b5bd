package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const configHeader = `# SandboxFS Configuration File
#
# Every key can be overridden with an environment variable using the
# SANDBOXFS_ prefix and underscores, e.g. SANDBOXFS_ADAPTERS_HTTP_PORT=8080.
`

var sectionComments = []struct {
	key     string
	comment string
}{
	{"logging", "# Logging: level (DEBUG, INFO, WARN, ERROR), format (text, json),\n# output (stdout, stderr or a file path)"},
	{"server", "# Server-wide settings and the optional Prometheus endpoint"},
	{"store", "# Where managed files live. type: filesystem or memory.\n# The memory store loses everything on restart."},
	{"files", "# File service behaviour. strict_extensions also applies the text\n# extension allowlist to create and update."},
	{"adapters", "# Protocol adapters. The MCP adapter speaks over stdin/stdout and is\n# usually started with `sandboxfs mcp` instead."},
}

// InitConfig writes a sample configuration file to the default location.
//
// Returns the path of the written file. Fails if the file exists and force
// is false.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration file to path, creating
// parent directories as needed.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
	}

	content, err := generateYAMLWithComments(GetDefaultConfig())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateYAMLWithComments renders cfg as YAML keyed by the same names viper
// reads, with a comment above each top-level section.
func generateYAMLWithComments(cfg *Config) (string, error) {
	var sections map[string]any
	if err := mapstructure.Decode(cfg, &sections); err != nil {
		return "", fmt.Errorf("failed to flatten config: %w", err)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range sectionComments {
		value, err := toNode(sections[s.key])
		if err != nil {
			return "", fmt.Errorf("failed to encode %s: %w", s.key, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: s.key, HeadComment: s.comment}
		root.Content = append(root.Content, key, value)
	}

	out, err := yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	return configHeader + "\n" + string(out), nil
}

// toNode builds a YAML node with sorted keys and durations in their string
// form, which is what viper's decode hook expects back.
func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			child, err := toNode(val[k])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, child)
		}
		return node, nil
	case time.Duration:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: val.String()}, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, err
		}
		return node, nil
	}
}
