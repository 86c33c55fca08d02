package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinQueryLength is the shortest non-empty search query accepted.
// Shorter queries would make the registry scan far too much.
const MinQueryLength = 3

// ValidateQuery checks a free-text catalog search query.
//
// The empty string is valid and means "list everything". Any other query
// must have at least [MinQueryLength] characters after trimming. Queries
// may not contain control characters.
func ValidateQuery(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	if utf8.RuneCountInString(q) < MinQueryLength {
		return New(ErrCodeInvalidQuery, "search query must be at least %d characters", MinQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "search query contains invalid control characters")
		}
	}
	return nil
}

// ValidateCoordinate validates the parts of an artifact coordinate.
// Group and name are required; version is only checked when required is set.
func ValidateCoordinate(group, name, version string, requireVersion bool) error {
	if strings.TrimSpace(group) == "" {
		return New(ErrCodeInvalidCoordinate, "artifact group cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidCoordinate, "artifact name cannot be empty")
	}
	if requireVersion && strings.TrimSpace(version) == "" {
		return New(ErrCodeInvalidCoordinate, "artifact version cannot be empty")
	}
	for _, part := range []string{group, name, version} {
		if strings.ContainsAny(part, ":/\\") {
			return New(ErrCodeInvalidCoordinate, "coordinate part %q contains invalid characters", part)
		}
		for _, r := range part {
			if unicode.IsControl(r) {
				return New(ErrCodeInvalidCoordinate, "coordinate contains invalid control characters")
			}
		}
	}
	return nil
}

// ValidatePath validates a file path within a repository for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - The empty path is the repository root and is valid
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateRepositoryID validates a repository (project) identifier.
// GitLab accepts numeric ids and URL-encoded "group/project" paths.
func ValidateRepositoryID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "repository id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "repository id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "repository id contains invalid characters")
		}
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "repository id cannot contain ..")
	}
	return nil
}
