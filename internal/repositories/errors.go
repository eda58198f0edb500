package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is wrapped when an insert hits a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps GORM sentinel errors onto the repository ones. The DB must
// be opened with TranslateError so driver-specific unique violations arrive
// as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching value anywhere, with the
// wildcard characters in value taken literally.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}

// whereContains adds a case-insensitive substring filter on column. column
// must be a trusted identifier; value is always bound as a parameter.
func whereContains(db *gorm.DB, column, value string) *gorm.DB {
	if strings.TrimSpace(value) == "" {
		return db
	}
	return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", containsPattern(strings.TrimSpace(value)))
}
