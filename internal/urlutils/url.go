// Package urlutils provides utilities for handling repository locations.
// It validates the shape of git remote locations and derives the name of
// the local directory a clone is placed in.
package urlutils

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLocation indicates that the provided location is not a recognized git remote
	ErrInvalidLocation = errors.New("invalid repository location")

	// ErrEmptyLocation indicates that an empty location was provided
	ErrEmptyLocation = errors.New("empty repository location")

	// Accepts the common git remote shapes:
	//   git://host/path.git, ssh://host/path.git, http(s)://host/path.git
	//   git@host:path.git
	// An optional trailing slash is allowed after the .git suffix.
	locationRegex = regexp.MustCompile(`^((git|ssh|http(s)?)|(git@[\w\.]+))(:(//)?)([\w\.@\:/\-~]+)(\.git)(/)?$`)
)

// ValidateLocation checks that location looks like a git remote.
// The returned error wraps ErrInvalidLocation (or ErrEmptyLocation).
func ValidateLocation(location string) error {
	if location == "" {
		return ErrEmptyLocation
	}
	if !locationRegex.MatchString(location) {
		return fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}
	return nil
}

// DirName derives the local directory name for location.
// It strips one trailing slash, takes the last path segment and removes
// one extension, so both "https://host/group/repo.git" and
// "git@host:group/repo.git/" yield "repo".
func DirName(location string) (string, error) {
	if location == "" {
		return "", ErrEmptyLocation
	}

	trimmed := strings.TrimSuffix(location, "/")
	base := trimmed[strings.LastIndex(trimmed, "/")+1:]
	name := strings.TrimSuffix(base, path.Ext(base))

	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: cannot derive directory name from %q", ErrInvalidLocation, location)
	}
	return name, nil
}
