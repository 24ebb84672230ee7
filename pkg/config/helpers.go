package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// SetValue sets a configuration value by its YAML key. The result is
// validated, and the change is undone when validation fails.
func (c *Config) SetValue(key, value string) error {
	field, ok := c.field(key)
	if !ok {
		return errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	old := reflect.ValueOf(field.Interface())

	switch field.Interface().(type) {
	case time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		field.SetInt(int64(d))
	case string:
		field.SetString(value)
	}

	if err := c.Validate(); err != nil {
		field.Set(old)
		return err
	}
	return nil
}

// GetValue returns the value of a configuration key as a string.
func (c *Config) GetValue(key string) (string, error) {
	field, ok := c.field(key)
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return format(field), nil
}

// ToMap returns every setting keyed by its YAML name.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)
	settingsValue := reflect.ValueOf(&c.Settings).Elem()
	for i := 0; i < settingsValue.NumField(); i++ {
		if key := yamlKey(settingsValue.Type().Field(i)); key != "" {
			result[key] = format(settingsValue.Field(i))
		}
	}
	return result
}

func (c *Config) field(key string) (reflect.Value, bool) {
	settingsValue := reflect.ValueOf(&c.Settings).Elem()
	for i := 0; i < settingsValue.NumField(); i++ {
		if yamlKey(settingsValue.Type().Field(i)) == key {
			return settingsValue.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// yamlKey handles yaml tags with options (e.g., "data_dir,omitempty").
func yamlKey(f reflect.StructField) string {
	tag := f.Tag.Get("yaml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func format(v reflect.Value) string {
	switch x := v.Interface().(type) {
	case time.Duration:
		return x.String()
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
