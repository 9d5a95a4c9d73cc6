package domain

import "context"

// Localizer resolves localized strings
type Localizer interface {
	FormatValue(ctx context.Context, id string) (string, error)
	Format(id string, args map[string]string) string
}
