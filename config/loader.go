package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem is the file access LoadConfig needs; tests substitute it.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem reads the real filesystem. LoadEnv never overrides a
// variable that is already set in the process environment.
type OSFileSystem struct{}

// Exists reports whether path can be stat'ed.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv adds the variables in a dotenv file to the process environment.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Sources are the files a load reads. Either may be empty.
type Sources struct {
	ConfigFile string
	EnvFile    string
}

// Resolver picks the config and dotenv files for a service.
type Resolver struct {
	FS FileSystem
}

// Resolve returns the explicit paths from opts, falling back to the first
// existing candidate of each kind.
func (r *Resolver) Resolve(service string, opts LoaderConfig) Sources {
	src := Sources{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if src.ConfigFile == "" {
		src.ConfigFile = r.first(configCandidates(service))
	}
	if src.EnvFile == "" {
		src.EnvFile = r.first(envCandidates(service))
	}
	return src
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FS.Exists(p) {
			return p
		}
	}
	return ""
}

// configCandidates lists config.yml locations from the service's cmd
// directory outwards, so the binary finds its file when run from the repo
// root or from a package directory under test.
func configCandidates(service string) []string {
	return []string{
		"./cmd/" + service + "/config.yml",
		"../cmd/" + service + "/config.yml",
		"../../cmd/" + service + "/config.yml",
		"./config/config.yml",
		"./config.yml",
	}
}

func envCandidates(service string) []string {
	return []string{
		"./cmd/" + service + "/.env",
		"./.env." + service,
		"./.env",
		"../.env",
		"../../.env",
	}
}

// LoaderConfig collects LoadConfig options.
type LoaderConfig struct {
	FS         FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix is prepended to every derived variable name, e.g. "DECKURL_".
	EnvPrefix string
	Warn      func(format string, args ...any)
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FS = fs }
}

// WithConfigFile names the YAML file. A named file that fails to parse is
// an error; a missing one is a warning.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile names the dotenv file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the prefix of the environment variables LoadConfig binds.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithWarnFunc receives non-fatal problems. The default writes to stderr.
func WithWarnFunc(fn func(format string, args ...any)) LoaderOption {
	return func(lc *LoaderConfig) { lc.Warn = fn }
}

// LoadConfig fills cfg, a pointer to a struct with mapstructure tags, from
// the YAML file, then the dotenv file, then the process environment. Every
// leaf field is bound to one variable: its dotted key upper-cased with dots
// turned into underscores and EnvPrefix in front, so deckcache.durable_first
// reads DECKURL_DECKCACHE_DURABLE_FIRST under prefix "DECKURL_".
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FS: OSFileSystem{}, Warn: warnStderr}
	for _, opt := range opts {
		opt(&lc)
	}

	src := (&Resolver{FS: lc.FS}).Resolve(service, lc)
	v := viper.New()

	switch {
	case src.ConfigFile != "" && lc.FS.Exists(src.ConfigFile):
		v.SetConfigFile(src.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			if lc.ConfigFile != "" {
				return fmt.Errorf("read config file %s: %w", src.ConfigFile, err)
			}
			lc.Warn("skipping unreadable config file %s: %v", src.ConfigFile, err)
		}
	case lc.ConfigFile != "":
		lc.Warn("config file %s not found, using defaults", lc.ConfigFile)
	}

	if src.EnvFile != "" && lc.FS.Exists(src.EnvFile) {
		if err := lc.FS.LoadEnv(src.EnvFile); err != nil {
			lc.Warn("skipping env file %s: %v", src.EnvFile, err)
		}
	}

	for _, key := range Keys(cfg) {
		if err := v.BindEnv(key, EnvName(lc.EnvPrefix, key)); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode %s config: %w", service, err)
	}
	return nil
}

func warnStderr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[config] warning: "+format+"\n", args...)
}

// EnvName is the environment variable bound to a dotted config key.
func EnvName(prefix, key string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Keys lists the dotted keys of every leaf field in cfg, following
// mapstructure tags. Squashed embeds contribute their fields at the
// embedding level; fields tagged "-" are skipped.
func Keys(cfg any) []string {
	t := reflect.TypeOf(cfg)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	collectKeys(t, "", &keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, squash := fieldTag(f)
		if name == "-" {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if squash && ft.Kind() == reflect.Struct {
			collectKeys(ft, prefix, keys)
			continue
		}

		key := prefix + name
		if ft.Kind() == reflect.Struct && ft.NumField() > 0 && ft.PkgPath() != "time" {
			collectKeys(ft, key+".", keys)
			continue
		}
		*keys = append(*keys, key)
	}
}

// fieldTag returns the mapstructure key of f and whether it is squashed.
// Untagged fields use the lower-cased field name.
func fieldTag(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("mapstructure")
	name, rest, _ := strings.Cut(tag, ",")
	squash := strings.Contains(rest, "squash")
	if name == "" {
		name = strings.ToLower(f.Name)
	}
	return name, squash
}
