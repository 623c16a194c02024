package categories

import (
	"fmt"
	"strings"

	"dropsort/internal/faults"
)

var (
	ErrEmptyExtension         = fmt.Errorf("%w: extension cannot be empty", faults.ErrValidation)
	ErrInvalidExtensionFormat = fmt.Errorf("%w: extensions must be alphanumeric", faults.ErrValidation)
	ErrEmptyCategoryName      = fmt.Errorf("%w: category name cannot be empty", faults.ErrValidation)
	ErrDuplicateExtension     = fmt.Errorf("%w: extension already mapped", faults.ErrConflict)
	ErrUnknownCategory        = fmt.Errorf("%w: unknown category", faults.ErrNotFound)
	ErrUnknownExtension       = fmt.Errorf("%w: extension not mapped", faults.ErrNotFound)
	ErrFallbackUndeletable    = fmt.Errorf("%w: the fallback category cannot be removed", faults.ErrConflict)
)

// ValidateExtension normalizes a raw extension: trims whitespace, strips one
// leading dot, and lower-cases. The remainder must be purely alphanumeric.
func ValidateExtension(raw string) (string, error) {
	ext := strings.TrimSpace(raw)
	if ext == "" {
		return "", ErrEmptyExtension
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return "", ErrEmptyExtension
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: %q", ErrInvalidExtensionFormat, raw)
		}
	}
	return ext, nil
}

// ValidateCategoryName trims a raw category name. The trimmed name is
// returned exactly as typed; saved mapping keys are never rewritten, so a
// mapping round-trips through SaveUser and Load unchanged.
func ValidateCategoryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyCategoryName
	}
	return name, nil
}
