// Package config loads doccheck settings from defaults, a YAML file,
// DOCCHECK_ environment variables and command-line flags, in that order of
// precedence, and validates the result.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/corey/doccheck/internal/domain/docstring"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// MaxJobs bounds the jobs setting.
const MaxJobs = 256

// Config is the effective configuration for a run.
type Config struct {
	ExtraChecks bool     `koanf:"extra_checks" json:"extra_checks"`
	Verbose     bool     `koanf:"verbose" json:"verbose"`
	Jobs        int      `koanf:"jobs" json:"jobs" validate:"jobs"`
	Ignore      []string `koanf:"ignore" json:"ignore" validate:"dive,required,glob"`
	Disable     []string `koanf:"disable" json:"disable" validate:"dive,ruleid"`

	// File is the config file that was read, empty when none was found.
	File string `koanf:"-" json:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ruleid", func(fl validator.FieldLevel) bool {
		return docstring.IsRuleID(fl.Field().String())
	})
	_ = v.RegisterValidation("jobs", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n >= 0 && n <= MaxJobs
	})
	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		_, err := filepath.Match(fl.Field().String(), "")
		return err == nil
	})
	return v
}

// Validate checks the configuration and returns an error wrapping ErrInvalid
// that names every offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fieldKey(fe.Namespace())
	switch fe.Tag() {
	case "ruleid":
		return fmt.Sprintf("%s: unknown rule %q", field, fe.Value())
	case "glob":
		return fmt.Sprintf("%s: malformed pattern %q", field, fe.Value())
	case "required":
		return fmt.Sprintf("%s: empty pattern", field)
	case "jobs":
		return fmt.Sprintf("%s: %v is out of range 0..%d", field, fe.Value(), MaxJobs)
	}
	return fmt.Sprintf("%s: failed %q", field, fe.Tag())
}

// fieldKey turns "Config.Disable[1]" into "disable[1]".
func fieldKey(ns string) string {
	_, field, _ := strings.Cut(ns, ".")
	name, index, _ := strings.Cut(field, "[")
	key := map[string]string{
		"ExtraChecks": "extra_checks",
		"Verbose":     "verbose",
		"Jobs":        "jobs",
		"Ignore":      "ignore",
		"Disable":     "disable",
	}[name]
	if key == "" {
		key = name
	}
	if index != "" {
		key += "[" + index
	}
	return key
}

// Checker returns the rule selection used by the checker.
func (c *Config) Checker() docstring.Config {
	var disabled map[string]bool
	if len(c.Disable) > 0 {
		disabled = make(map[string]bool, len(c.Disable))
		for _, id := range c.Disable {
			disabled[id] = true
		}
	}
	return docstring.Config{ExtraChecks: c.ExtraChecks, Disabled: disabled}
}

// Entry is one key of the effective configuration, for display.
type Entry struct {
	Key   string
	Value string
}

// Entries lists the configuration keys in a stable order.
func (c *Config) Entries() []Entry {
	jobs := fmt.Sprint(c.Jobs)
	if c.Jobs == 0 {
		jobs = "0 (one per CPU)"
	}
	return []Entry{
		{"extra_checks", fmt.Sprint(c.ExtraChecks)},
		{"verbose", fmt.Sprint(c.Verbose)},
		{"jobs", jobs},
		{"ignore", strings.Join(c.Ignore, ", ")},
		{"disable", strings.Join(c.Disable, ", ")},
	}
}
