// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/vmunix/arrname/pkg/release"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	for _, key := range c.unknown {
		errs = append(errs, fmt.Sprintf("%s: unknown key", key))
	}

	if _, err := release.ParseKind(c.Parser.Kind); err != nil {
		errs = append(errs, fmt.Sprintf("parser.kind: must be one of tv, movie, series; got %q", c.Parser.Kind))
	}

	if c.Scan.Workers < 1 || c.Scan.Workers > 64 {
		errs = append(errs, fmt.Sprintf("scan.workers: must be between 1 and 64, got %d", c.Scan.Workers))
	}
	for _, ext := range c.Scan.Extensions {
		if ext == "" || strings.ContainsAny(ext, `./\`) {
			errs = append(errs, fmt.Sprintf("scan.extensions: %q must be a bare extension such as \"mkv\"", ext))
		}
	}
	if _, ok := release.ParseConfidence(c.Scan.MinAgreement); !ok {
		errs = append(errs, fmt.Sprintf("scan.min_agreement: must be one of none, low, medium, high; got %q", c.Scan.MinAgreement))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format: must be text or json; got %q", c.Log.Format))
	}

	return errs
}
