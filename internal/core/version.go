package core

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"depsync/internal/types"
)

// versionCache memoizes parsed version objects to avoid repeated parsing
// during candidate detection and ordering.
type versionCache struct {
	semv map[string]*semver.Version
	deb  map[string]debversion.Version
	pep  map[string]pep440.Version
}

// NewComparator creates an empty scheme-aware version comparator.
func NewComparator() *Comparator {
	return &Comparator{cache: versionCache{
		semv: map[string]*semver.Version{},
		deb:  map[string]debversion.Version{},
		pep:  map[string]pep440.Version{},
	}}
}

// Comparator compares version strings under a manifest entry's declared
// scheme. Parsed versions are cached across calls.
type Comparator struct {
	cache versionCache
}

// semverVersion returns a parsed semantic version, caching the result.
func (c *Comparator) semverVersion(value string) (*semver.Version, error) {
	if parsed, ok := c.cache.semv[value]; ok {
		return parsed, nil
	}
	parsed, err := semver.NewVersion(value)
	if err != nil {
		return nil, err
	}
	c.cache.semv[value] = parsed
	return parsed, nil
}

// debVersion returns a parsed Debian version, caching the result.
func (c *Comparator) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.cache.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.cache.deb[value] = parsed
	return parsed, nil
}

// pepVersion returns a parsed PEP 440 version, caching the result.
func (c *Comparator) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.cache.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.cache.pep[value] = parsed
	return parsed, nil
}

// Compare returns -1, 0, or 1 comparing two version strings under the
// given scheme. Returns an error when either version does not parse;
// callers decide how to treat unparseable pairs.
func (c *Comparator) Compare(scheme types.VersionScheme, a string, b string) (int, error) {
	switch scheme {
	case types.VersionSchemeApt:
		v1, err := c.debVersion(a)
		if err != nil {
			return 0, err
		}
		v2, err := c.debVersion(b)
		if err != nil {
			return 0, err
		}
		return v1.Compare(v2), nil
	case types.VersionSchemePip:
		v1, err := c.pepVersion(a)
		if err != nil {
			return 0, err
		}
		v2, err := c.pepVersion(b)
		if err != nil {
			return 0, err
		}
		return v1.Compare(v2), nil
	case types.VersionSchemeSemver, "":
		v1, err := c.semverVersion(a)
		if err != nil {
			return 0, err
		}
		v2, err := c.semverVersion(b)
		if err != nil {
			return 0, err
		}
		return v1.Compare(v2), nil
	default:
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported version scheme %q", scheme))
	}
}

// IsNewer reports whether latest is strictly newer than current under the
// given scheme. When either version fails to parse, differing strings are
// conservatively treated as newer so the classifier can surface them as
// unknown-kind candidates; identical strings are never newer.
func (c *Comparator) IsNewer(scheme types.VersionScheme, latest string, current string) bool {
	if latest == current {
		return false
	}
	cmp, err := c.Compare(scheme, latest, current)
	if err != nil {
		return true
	}
	return cmp > 0
}
