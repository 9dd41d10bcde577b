// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"hostpress/internal/slug"
	"hostpress/internal/storage"
)

// Validation limits for content and directory fields.
const (
	maxTitleLen       = 300
	maxSlugLen        = 300
	maxBodyLen        = 100_000
	maxExcerptLen     = 1_000
	maxNameLen        = 200
	maxDescriptionLen = 2_000
	maxTags           = 30
	maxTagLen         = 50

	// derivedExcerptLen is the length of excerpts derived from the body.
	derivedExcerptLen = 200
)

var (
	// ErrNotFound is returned when an update or delete targets an unknown id.
	ErrNotFound = storage.ErrNotFound
	// ErrDuplicateSlug is returned when a slug is already used in the collection.
	ErrDuplicateSlug = errors.New("slug already exists")
)

// ValidationError is an expected, user-facing failure such as a missing
// required field. Message is suitable for inline display.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is an expected validation failure
// (including duplicate slugs) rather than a storage problem.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrDuplicateSlug)
}

// validateTitle checks a required title and returns the first error found.
func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("title", "Title is required.")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return invalid("title", "Title is too long (max 300 characters).")
	}
	return nil
}

// validateName checks a required display name.
func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "Name is required.")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return invalid("name", "Name is too long (max 200 characters).")
	}
	return nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return invalid("description", "Description is too long (max 2,000 characters).")
	}
	return nil
}

// resolveSlug returns the explicit slug, or one derived from fallback.
func resolveSlug(explicit, fallback string) (string, error) {
	s := strings.TrimSpace(explicit)
	if s == "" {
		s = slug.Generate(fallback)
	}
	if s == "" {
		return "", invalid("slug", "Slug is required and could not be derived from the name.")
	}
	if utf8.RuneCountInString(s) > maxSlugLen {
		return "", invalid("slug", "Slug is too long (max 300 characters).")
	}
	if !slug.Valid(s) {
		return "", invalid("slug", "Slug may only contain lowercase letters, digits and single hyphens.")
	}
	return s, nil
}

// ensureUniqueSlug fails with ErrDuplicateSlug when another record of the
// collection already uses s. This is check-then-act, not atomic.
func ensureUniqueSlug[T storage.Record](ctx context.Context, coll storage.Collection[T], s, selfID string) error {
	existing, err := coll.FindBySlug(ctx, s)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if existing != nil && (*existing).RecordID() != selfID {
		return fmt.Errorf("%w: %q", ErrDuplicateSlug, s)
	}
	return nil
}

// immutableSlug rejects an attempt to change a stored slug. An empty
// proposal means "unchanged".
func immutableSlug(stored, proposed string) error {
	proposed = strings.TrimSpace(proposed)
	if proposed != "" && proposed != stored {
		return invalid("slug", "Slug cannot be changed once created.")
	}
	return nil
}

// cleanList trims entries, drops empties and removes duplicates while
// keeping the first occurrence. Comparison is case-insensitive when fold is set.
func cleanList(in []string, fold bool) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := v
		if fold {
			key = strings.ToLower(v)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
