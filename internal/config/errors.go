package config

import (
	"fmt"
	"strings"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("%s missing: %s", FileName, e.Path)
}

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error { return e.Wrapped }

// InvalidConfigError reports a document which does not satisfy the config schema.
type InvalidConfigError struct {
	Path    string
	Wrapped error
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s does not match the configuration schema: %v", e.Path, e.Wrapped)
}

func (e *InvalidConfigError) Unwrap() error { return e.Wrapped }

type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("%s is missing required property: %s", FileName, e.Property)
}

type InvalidPropertyError struct {
	Property string
	Value    string
	Reason   string
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("%s property %s has invalid value '%s': %s", FileName, e.Property, e.Value, e.Reason)
}

type UnknownProductError struct {
	Product string
	Valid   []string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product '%s'. Valid products are: '%s'", e.Product, strings.Join(e.Valid, "', '"))
}

type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return fmt.Sprintf("%s already exists", e.Path)
}
