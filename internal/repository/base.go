// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"skillswap/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// violatedColumn reports whether a unique violation names column.
// Postgres reports the index (idx_users_email), SQLite the column (users.email).
func violatedColumn(err error, column string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.Contains(pgErr.ConstraintName, column) || strings.Contains(pgErr.Detail, column)
	}
	return strings.Contains(strings.ToLower(err.Error()), column)
}

// notFoundOrInternal converts gorm.ErrRecordNotFound into a NOT_FOUND AppError.
func notFoundOrInternal(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewRecordNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// withUserSkills preloads both skill lists of a user, ordered by skill id.
func withUserSkills(prefix string) func(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("skills.id ASC") }
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Preload(prefix+"SkillsOffered", byID).
			Preload(prefix+"SkillsSeeking", byID)
	}
}
