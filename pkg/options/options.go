// Package options reads runtime options. A value comes from the environment
// variable HYACI_<KEY> first, then from the option store, then from the
// caller's default.
package options

import (
	"errors"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	pkgerrors "github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/store"
)

// EnvPrefix prefixes option environment variables.
const EnvPrefix = "HYACI_"

// Known option keys.
const (
	DownloadsTries      = "downloads.tries"
	DownloadsPoolSize   = "downloads.poolSize"
	DownloadsValidation = "downloads.validation"
	JRELZMA             = "installer.jre.lzma"
	StrictInheritance   = "profile.strictInheritance"
)

type knownOption struct {
	def   string
	check func(string) bool
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func isBool(s string) bool {
	_, err := strconv.ParseBool(s)
	return err == nil
}

var known = map[string]knownOption{
	DownloadsTries:    {def: "3", check: isInt},
	DownloadsPoolSize: {def: "32", check: isInt},
	DownloadsValidation: {def: "checksum", check: func(s string) bool {
		switch s {
		case "checksum", "size", "none":
			return true
		}
		return false
	}},
	JRELZMA:           {def: "false", check: isBool},
	StrictInheritance: {def: "false", check: isBool},
}

// Keys returns the known option keys in order.
func Keys() []string {
	keys := make([]string, 0, len(known))
	for k := range known {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the built-in default for a known key.
func Default(key string) (string, bool) {
	s, ok := known[key]
	return s.def, ok
}

// EnvName returns the environment variable overriding key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Backend is the persistent part of the option store.
type Backend interface {
	GetOption(key string) (string, error)
	SetOption(key, value string) error
	DeleteOption(key string) error
	ListOptions() ([]store.Option, error)
}

// Options resolves option values. A nil backend reads the environment and
// defaults only.
type Options struct {
	backend Backend
	lookup  func(string) (string, bool)
}

// New creates Options over backend.
func New(backend Backend) *Options {
	return &Options{backend: backend, lookup: os.LookupEnv}
}

// Lookup returns the raw value for key and whether any source set it.
func (o *Options) Lookup(key string) (string, bool) {
	if v, ok := o.lookup(EnvName(key)); ok {
		return v, true
	}
	if o.backend != nil {
		v, err := o.backend.GetOption(key)
		if err == nil {
			return v, true
		}
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("Failed to read option", logger.Fields{"key": key, "error": err.Error()})
		}
	}
	return "", false
}

// GetString returns the value for key or def.
func (o *Options) GetString(key, def string) string {
	if v, ok := o.Lookup(key); ok {
		return v
	}
	return def
}

// GetInt returns the integer value for key, or def when unset or malformed.
func (o *Options) GetInt(key string, def int) int {
	v, ok := o.Lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		logger.Warn("Option is not an integer, using default", logger.Fields{"key": key, "value": v})
		return def
	}
	return n
}

// GetBool returns the boolean value for key, or def when unset or malformed.
func (o *Options) GetBool(key string, def bool) bool {
	v, ok := o.Lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		logger.Warn("Option is not a boolean, using default", logger.Fields{"key": key, "value": v})
		return def
	}
	return b
}

// Set stores value for key. Values of known keys are checked.
func (o *Options) Set(key, value string) error {
	if o.backend == nil {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidOption, "no option store")
	}
	if s, ok := known[key]; ok && !s.check(value) {
		return pkgerrors.Wrapf(pkgerrors.ErrInvalidOption, "%s=%q", key, value)
	}
	return o.backend.SetOption(key, value)
}

// Unset removes the stored value for key.
func (o *Options) Unset(key string) error {
	if o.backend == nil {
		return nil
	}
	return o.backend.DeleteOption(key)
}

// Entry is a resolved option and where its value came from.
type Entry struct {
	Key    string
	Value  string
	Source string // env, store or default
}

// List resolves every known key plus any unknown stored keys.
func (o *Options) List() ([]Entry, error) {
	stored := map[string]string{}
	if o.backend != nil {
		opts, err := o.backend.ListOptions()
		if err != nil {
			return nil, err
		}
		for _, opt := range opts {
			stored[opt.Key] = opt.Value
		}
	}
	keys := Keys()
	for k := range stored {
		if _, ok := known[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		e := Entry{Key: k}
		if v, ok := o.lookup(EnvName(k)); ok {
			e.Value, e.Source = v, "env"
		} else if v, ok := stored[k]; ok {
			e.Value, e.Source = v, "store"
		} else {
			e.Value, e.Source = known[k].def, "default"
		}
		out = append(out, e)
	}
	return out, nil
}
