// Package repository holds one repository per entity. Every method takes the
// request context and mutations run inside a single transaction.
package repository

import (
	"errors"
	"fmt"

	"github.com/monocle-dev/house/internal/query"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrProtected means a delete was refused because other rows still reference the target.
	ErrProtected = errors.New("record is referenced by other records")
	ErrDuplicate = errors.New("record already exists")
)

func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, ErrProtected)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// paginate counts the rows matched by base, resolves p against that count and
// loads the requested window. decorate adds ordering and preloads to the data query.
func paginate[T any](base *gorm.DB, p query.Pagination, decorate func(*gorm.DB) *gorm.DB) ([]T, int64, query.Pagination, error) {
	var count int64
	if err := base.Session(&gorm.Session{}).Model(new(T)).Count(&count).Error; err != nil {
		return nil, 0, p, err
	}

	p, err := p.Resolve(count)
	if err != nil {
		return nil, count, p, err
	}

	items := []T{}
	tx := decorate(base.Session(&gorm.Session{}))
	if err := tx.Limit(p.PageSize).Offset(p.Offset()).Find(&items).Error; err != nil {
		return nil, count, p, err
	}

	return items, count, p, nil
}
