// Package cli holds the command scaffolding shared by the darts binaries.
package cli

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/ghodss/yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KunlinY/darts/internal/options"
	"github.com/KunlinY/darts/pkg/schemas"
)

// Registry binds command-line flags to the keys of an option set. Values resolve with the
// precedence flag > environment > config file > default.
type Registry struct {
	v     *viper.Viper
	flags *pflag.FlagSet
}

// NewRegistry returns a Registry declaring its flags on flags.
func NewRegistry(flags *pflag.FlagSet) *Registry {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	return &Registry{v: v, flags: flags}
}

func (r *Registry) bind(name string, value interface{}) {
	_ = r.v.BindPFlag(name, r.flags.Lookup(name))
	if value != nil {
		r.v.SetDefault(name, value)
	}
}

// String registers a string option.
func (r *Registry) String(name string, value string, usage string) {
	r.flags.String(name, value, usage)
	r.bind(name, value)
}

// Int registers an integer option.
func (r *Registry) Int(name string, value int, usage string) {
	r.flags.Int(name, value, usage)
	r.bind(name, value)
}

// Float64 registers a floating point option.
func (r *Registry) Float64(name string, value float64, usage string) {
	r.flags.Float64(name, value, usage)
	r.bind(name, value)
}

// Bool registers a boolean option.
func (r *Registry) Bool(name string, value bool, usage string) {
	r.flags.Bool(name, value, usage)
	r.bind(name, value)
}

// OptionalInt registers an integer option without a default.
func (r *Registry) OptionalInt(name string, usage string) {
	r.flags.Var(&optionalIntValue{}, name, usage)
	r.bind(name, nil)
}

// Load merges the YAML file at configFile, if any, after validating it against the schema at
// schemaURL, and decodes the resolved options into out.
func (r *Registry) Load(configFile string, schemaURL string, out interface{}) error {
	bs, err := readConfigFile(configFile)
	if err != nil {
		return err
	}
	if bs != nil {
		if err := r.mergeConfig(bs, schemaURL); err != nil {
			return errors.Wrapf(err, "invalid configuration file %s", configFile)
		}
	}

	// Settings are typed by their defaults, so JSON is a lossless intermediate.
	bs, err = json.Marshal(r.v.AllSettings())
	if err != nil {
		return errors.Wrap(err, "cannot marshal configuration map into json bytes")
	}
	decoder := json.NewDecoder(bytes.NewReader(bs))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return errors.Wrap(err, "cannot unmarshal configuration")
	}
	return nil
}

func (r *Registry) mergeConfig(bs []byte, schemaURL string) error {
	if errs := schemas.ValidateYAML(schemaURL, bs); len(errs) > 0 {
		return multierror.Append(nil, errs...)
	}

	var configMap map[string]interface{}
	if err := yaml.Unmarshal(bs, &configMap); err != nil {
		return errors.Wrap(err, "cannot unmarshal yaml configuration file")
	}
	if err := r.v.MergeConfigMap(configMap); err != nil {
		return errors.Wrap(err, "can't merge configuration to viper")
	}
	return nil
}

func readConfigFile(configPath string) ([]byte, error) {
	if configPath == "" {
		return nil, nil
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, errors.Wrap(err, "error finding configuration file")
	}
	bs, err := os.ReadFile(configPath) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "error reading configuration file")
	}
	return bs, nil
}

// optionalIntValue is the flag form of options.OptionalInt. It prints as the empty string when
// unset so that the resolved setting decodes back to an unset value.
type optionalIntValue struct {
	options.OptionalInt
}

func (o *optionalIntValue) String() string {
	if !o.IsSet() {
		return ""
	}
	return o.OptionalInt.String()
}

func (o *optionalIntValue) Type() string {
	return "optional-int"
}
