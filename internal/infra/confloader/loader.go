package confloader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "KVPLAY_"

// Source names, lowest priority first.
const (
	SourceFile  = "file"
	SourceEnv   = "env"
	SourceFlags = "flags"
)

// Setting is one key set by a source layered over the defaults.
type Setting struct {
	Key    string `json:"key" yaml:"key"`
	Value  any    `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

// Loader merges configuration layers into a struct.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	flags     map[string]any
	strict    bool
	origins   map[string]string
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the YAML file layer.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithFlags sets values that override every other source. Keys use the
// dotted form, e.g. "log.level".
func WithFlags(flags map[string]any) Option {
	return func(l *Loader) {
		l.flags = flags
	}
}

// WithStrict makes Unmarshal reject keys the target does not declare.
func WithStrict() Option {
	return func(l *Loader) {
		l.strict = true
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		origins:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load merges file, environment and flags, in that order, and unmarshals
// the result into target. Fields no layer sets keep their current values,
// so the caller passes a struct already filled with defaults.
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return err
		}
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if len(l.flags) > 0 {
		if err := l.LoadMap(l.flags); err != nil {
			return err
		}
	}
	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile merges a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.merge(SourceFile, file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load config file %s: %w", path, err)
	}
	return nil
}

// LoadEnv merges environment variables named PREFIX_SECTION_KEY. The first
// underscore after the prefix separates the section and the rest belongs to
// the key, so KVPLAY_CONSOLE_HISTORY_FILE sets console.history_file.
// Variables without a section, such as KVPLAY_CONFIG, are ignored.
func (l *Loader) LoadEnv() error {
	p := env.Provider(l.envPrefix, ".", func(s string) string {
		return envKey(l.envPrefix, s)
	})
	if err := l.merge(SourceEnv, p, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadMap merges a map with dotted keys as the flags layer.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.merge(SourceFlags, mapProvider(data), nil); err != nil {
		return fmt.Errorf("load flags: %w", err)
	}
	return nil
}

// merge loads one source on its own so its keys can be attributed, then
// folds it into the accumulated configuration.
func (l *Loader) merge(source string, p koanf.Provider, pa koanf.Parser) error {
	layer := koanf.New(".")
	if err := layer.Load(p, pa); err != nil {
		return err
	}
	for _, key := range layer.Keys() {
		l.origins[key] = source
	}
	return l.k.Merge(layer)
}

// Unmarshal decodes the merged layers into target using koanf tags.
func (l *Loader) Unmarshal(target any) error {
	if !l.strict {
		return l.k.Unmarshal("", target)
	}
	return l.k.UnmarshalWithConf("", target, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           target,
		},
	})
}

// Settings lists every key set by a layer, sorted by key, with the layer
// that set it last.
func (l *Loader) Settings() []Setting {
	keys := l.k.Keys()
	sort.Strings(keys)
	out := make([]Setting, 0, len(keys))
	for _, key := range keys {
		out = append(out, Setting{Key: key, Value: l.k.Get(key), Source: l.origins[key]})
	}
	return out
}

// envKey maps an environment variable name to a dotted config key, or ""
// when the name has no section.
func envKey(prefix, name string) string {
	s := strings.ToLower(strings.TrimPrefix(name, prefix))
	if !strings.Contains(s, "_") {
		return ""
	}
	return strings.Replace(s, "_", ".", 1)
}
