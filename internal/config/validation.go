package config

import (
	"fmt"
	"slices"
)

// validSSLModes are the sslmode values libpq and pgx accept.
var validSSLModes = []string{
	"disable", "allow", "prefer", "require", "verify-ca", "verify-full",
}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}

	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}

	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	if !slices.Contains(validSSLModes, c.PostgresSSLMode) {
		return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidPostgresSSLMode, c.PostgresSSLMode, validSSLModes)
	}

	if c.PoolMaxConns < 1 {
		return fmt.Errorf("%w: pool_max_conns must be at least 1, got %d", ErrInvalidPoolSize, c.PoolMaxConns)
	}
	if c.PoolMinConns < 0 || c.PoolMinConns > c.PoolMaxConns {
		return fmt.Errorf("%w: pool_min_conns must be between 0 and pool_max_conns, got %d", ErrInvalidPoolSize, c.PoolMinConns)
	}

	if c.TxMaxAttempts < 1 || c.TxMaxAttempts > 10 {
		return fmt.Errorf("%w: tx_max_attempts must be between 1 and 10, got %d", ErrInvalidRetryAttempts, c.TxMaxAttempts)
	}

	return nil
}
