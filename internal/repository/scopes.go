package repository

import (
	"strings"

	"go-bookkeeping-ws/internal/model"

	"gorm.io/gorm"
)

func paginate(q model.PageQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(q.Offset()).Limit(q.Limit)
	}
}

// searchLike matches any of the columns case-insensitively. LOWER+LIKE works on postgres and sqlite.
func searchLike(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// deleteByID hard-deletes a row and reports gorm.ErrRecordNotFound when nothing matched.
func deleteByID(db *gorm.DB, value interface{}, id interface{}) error {
	res := db.Delete(value, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
