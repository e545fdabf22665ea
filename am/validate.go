package am

import (
	"math"
	"regexp"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/version"
)

// Validate checks that the configuration is usable by the running binary
func (c *Config) Validate() error {
	// Database path is optional: empty keeps the default from defaults.go
	if c.Database.MaxConnections <= 0 {
		return errors.Newf("database.max_connections must be > 0, got %d", c.Database.MaxConnections)
	}
	if c.Database.AcquireTimeoutMS < 0 {
		return errors.Newf("database.acquire_timeout_ms must be >= 0, got %d", c.Database.AcquireTimeoutMS)
	}

	if c.Server.Port <= 0 || c.Server.Port > math.MaxUint16 {
		return errors.Newf("server.port must be within 1-65535, got %d", c.Server.Port)
	}
	// requests_per_second: 0 disables the limiter, negative is invalid
	if c.Server.RequestsPerSecond < 0 {
		return errors.Newf("server.requests_per_second must be >= 0, got %f", c.Server.RequestsPerSecond)
	}
	if c.Server.RequestsPerSecond > 0 && c.Server.Burst <= 0 {
		return errors.Newf("server.burst must be > 0 when rate limiting is enabled, got %d", c.Server.Burst)
	}

	if c.Query.MaxResolveDepth < 0 || c.Query.MaxResolveDepth > math.MaxUint8 {
		return errors.Newf("query.max_resolve_depth must be within 0-255, got %d", c.Query.MaxResolveDepth)
	}

	if c.Domain.TypeIDPattern != "" {
		if _, err := regexp.Compile(c.Domain.TypeIDPattern); err != nil {
			return errors.Wrap(err, "domain.type_id_pattern is not a valid regular expression")
		}
	}

	if c.MinVersion != "" {
		ok, err := version.Get().Satisfies(c.MinVersion)
		if err != nil {
			return errors.Wrap(err, "min_version is not a valid constraint")
		}
		if !ok {
			return errors.WithHintf(
				errors.Newf("ontograph %s does not satisfy min_version %q", version.Get().Version, c.MinVersion),
				"upgrade ontograph or relax min_version")
		}
	}

	return nil
}
