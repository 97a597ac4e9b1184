package repositories

import (
	"errors"
	"strings"

	"shopadmin/internal/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// translate maps storage errors to domain errors for resource.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFoundError{Resource: resource, Err: err}
	case isDuplicate(err):
		return domain.ConflictError{Resource: resource, Msg: "already exists", Err: err}
	case domain.IsValidation(err), domain.IsNotFound(err), domain.IsConflict(err):
		return err
	}
	return domain.InternalError{Msg: resource + " storage error", Err: err}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// likePattern builds a substring pattern for "LIKE ? ESCAPE '!'".
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
