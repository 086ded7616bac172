package domain

import (
	"fmt"
	"strings"
)

const (
	ProviderGitHub Provider = "github"
	ProviderGitLab Provider = "gitlab"
)

// Provider identifies one of the source-hosting services repositories can be tracked on.
// The set is closed: every switch over Provider is expected to handle each value explicitly.
type Provider string

// Providers returns every supported provider in a stable order.
func Providers() []Provider {
	return []Provider{ProviderGitHub, ProviderGitLab}
}

// ParseProvider normalizes the given value and returns the matching Provider.
func ParseProvider(value string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(value)))
	if !p.Valid() {
		return "", fmt.Errorf("unsupported provider '%s'", value)
	}

	return p, nil
}

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGitHub, ProviderGitLab:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable provider name used in messages.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGitHub:
		return "GitHub"
	case ProviderGitLab:
		return "GitLab"
	default:
		return string(p)
	}
}

// String implements fmt.Stringer.
func (p Provider) String() string {
	return string(p)
}
