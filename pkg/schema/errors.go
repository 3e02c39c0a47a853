package schema

import "fmt"

// ConfigError reports a structural problem in the config document, naming
// the offending key or field. It is fatal: loading is fail-fast, and a
// session never starts from a partially valid config.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("schema: %v", e.Err)
	}
	return fmt.Sprintf("schema: %q: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErrf(key, format string, args ...any) error {
	return &ConfigError{Key: key, Err: fmt.Errorf(format, args...)}
}
