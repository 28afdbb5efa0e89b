package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// expandSettings expands ${ENV_VAR} references in provider setting values
// and points credential_file at the base directory when it is not set.
func (c *Config) expandSettings() {
	if c.Settings == nil {
		c.Settings = make(map[string]string)
	}
	for k, v := range c.Settings {
		c.Settings[k] = os.ExpandEnv(v)
	}
	if c.Settings["credential_file"] == "" && c.BaseDir != "" {
		c.Settings["credential_file"] = c.CredentialFile()
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseDir == "" {
		errs = append(errs, errors.New("missing required field 'base_dir'"))
	}
	if c.Provider == "" {
		errs = append(errs, errors.New("missing required field 'provider'"))
	}
	if c.ContactEmail == "" {
		errs = append(errs, errors.New("missing required field 'contact_email'"))
	} else if strings.Count(c.ContactEmail, "@") > 1 {
		errs = append(errs, fmt.Errorf("contact_email %q has more than one '@'", c.ContactEmail))
	}
	if strings.ContainsAny(c.PrimaryNS, " \t") {
		errs = append(errs, fmt.Errorf("primary_ns %q contains whitespace", c.PrimaryNS))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	return utilerrors.NewAggregate(errs)
}
