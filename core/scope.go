package core

import (
	"fmt"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName checks a single name component against the identifier
// pattern: letters, digits and underscore, not starting with a digit.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// NameScope is a pure naming device: it carries a local name and a parent
// pointer formed by the active scope stack. Scopes hold no other state; only
// their effect (full names baked into variable declarations) outlives them.
type NameScope struct {
	parent *NameScope
	name   string
}

// Name returns the scope's local name.
func (s *NameScope) Name() string {
	return s.name
}

// FullName returns the slash-joined chain of scope names from the root down
// to this scope.
func (s *NameScope) FullName() string {
	if s.parent == nil {
		return s.name
	}
	return s.parent.FullName() + "/" + s.name
}

// Resolve joins the scope chain with the given local name. The local name
// must match the identifier pattern.
func (s *NameScope) Resolve(local string) (string, error) {
	if err := ValidateName(local); err != nil {
		return "", err
	}
	if s == nil {
		return local, nil
	}
	return s.FullName() + "/" + local, nil
}

// SplitName breaks a full name into its scope components and validates each
// one. Useful for callers reconstructing scope chains from persisted names.
func SplitName(full string) ([]string, error) {
	parts := strings.Split(full, "/")
	for _, p := range parts {
		if err := ValidateName(p); err != nil {
			return nil, err
		}
	}
	return parts, nil
}
