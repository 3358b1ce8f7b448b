package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/zstd"

	"github.com/odvcencio/ugit/pkg/diff3"
	"github.com/odvcencio/ugit/pkg/object"
)

const configFile = "config.toml"

// Config is the repository-local configuration stored in
// .ugit/config.toml:
//
//	[core]
//	compression = "zstd"
//	compression_level = 3
//
//	[merge]
//	ours_label = "HEAD"
//	theirs_label = "MERGE_HEAD"
//
//	[remote.origin]
//	path = "/srv/repos/project"
type Config struct {
	Core    CoreConfig              `toml:"core"`
	Merge   MergeConfig             `toml:"merge"`
	Remotes map[string]RemoteConfig `toml:"remote,omitempty"`
}

// CoreConfig controls how objects are written.
type CoreConfig struct {
	// Compression is "" or "none" for raw object files, or "zstd".
	Compression string `toml:"compression"`
	// CompressionLevel is a zstd level (1-22); 0 selects the default.
	CompressionLevel int `toml:"compression_level,omitempty"`
}

// MergeConfig names the sides in conflict markers.
type MergeConfig struct {
	OursLabel   string `toml:"ours_label"`
	TheirsLabel string `toml:"theirs_label"`
}

// RemoteConfig locates a remote repository on the filesystem.
type RemoteConfig struct {
	Path string `toml:"path"`
}

// DefaultConfig returns the configuration written by Init.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{Compression: "none"},
		Merge: MergeConfig{
			OursLabel:   diff3.DefaultLabels.Ours,
			TheirsLabel: diff3.DefaultLabels.Theirs,
		},
		Remotes: make(map[string]RemoteConfig),
	}
}

// Labels returns the conflict marker labels, falling back to the defaults
// for unset values.
func (c *Config) Labels() diff3.Labels {
	labels := diff3.DefaultLabels
	if c == nil {
		return labels
	}
	if s := strings.TrimSpace(c.Merge.OursLabel); s != "" {
		labels.Ours = s
	}
	if s := strings.TrimSpace(c.Merge.TheirsLabel); s != "" {
		labels.Theirs = s
	}
	return labels
}

// StoreOptions translates the core section into object store options.
func (c *Config) StoreOptions() ([]object.StoreOption, error) {
	switch strings.ToLower(strings.TrimSpace(c.Core.Compression)) {
	case "", "none":
		return nil, nil
	case "zstd":
		level := zstd.SpeedDefault
		if c.Core.CompressionLevel != 0 {
			level = zstd.EncoderLevelFromZstd(c.Core.CompressionLevel)
		}
		return []object.StoreOption{object.WithCompression(level)}, nil
	default:
		return nil, fmt.Errorf("config: unknown core.compression %q", c.Core.Compression)
	}
}

// ReadConfig decodes the config file in ugitDir. A missing file yields
// DefaultConfig.
func ReadConfig(ugitDir string) (*Config, error) {
	cfg := DefaultConfig()
	_, err := toml.DecodeFile(filepath.Join(ugitDir, configFile), cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Remotes == nil {
		cfg.Remotes = make(map[string]RemoteConfig)
	}
	return cfg, nil
}

// WriteConfig atomically replaces the config file in ugitDir.
func WriteConfig(ugitDir string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(ugitDir, ".config-tmp-*")
	if err != nil {
		return object.IOError("write config: tmpfile", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return object.IOError("write config", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return object.IOError("write config: close", err)
	}
	if err := os.Rename(tmpName, filepath.Join(ugitDir, configFile)); err != nil {
		os.Remove(tmpName)
		return object.IOError("write config: rename", err)
	}
	return nil
}

// SaveConfig writes r.Config back to disk.
func (r *Repo) SaveConfig() error {
	return WriteConfig(r.UgitDir, r.Config)
}

// SetRemote stores or replaces a named remote path.
func (r *Repo) SetRemote(name, path string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("set remote: remote name is required")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("set remote: remote path is required")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.RootDir, path)
	}
	r.Config.Remotes[name] = RemoteConfig{Path: filepath.Clean(path)}
	return r.SaveConfig()
}

// RemotePath returns the configured path of a named remote.
func (r *Repo) RemotePath(name string) (string, error) {
	remote, ok := r.Config.Remotes[strings.TrimSpace(name)]
	if !ok || strings.TrimSpace(remote.Path) == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownRemote, name)
	}
	return remote.Path, nil
}

// RemoteNames returns the configured remote names, sorted.
func (r *Repo) RemoteNames() []string {
	names := make([]string, 0, len(r.Config.Remotes))
	for name := range r.Config.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
