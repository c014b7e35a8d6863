package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/listoapp/listo/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("item_type", validateItemType); err != nil {
		panic(fmt.Sprintf("failed to register item_type validator: %v", err))
	}
}

// validateItemType validates that a string is a valid ItemType enum value.
// The empty string is allowed: extraction may leave the type undecided.
func validateItemType(fl validator.FieldLevel) bool {
	return ValidateItemType(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateItemType validates an ItemType string value.
func ValidateItemType(value string) error {
	switch models.ItemType(strings.ToLower(value)) {
	case models.ItemTypeTask, models.ItemTypeProject, models.ItemTypeHabit, models.ItemTypeNone:
		return nil
	default:
		return fmt.Errorf("invalid item type: %s (must be 'task', 'project', 'habit', or empty)", value)
	}
}
