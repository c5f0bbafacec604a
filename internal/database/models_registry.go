package database

import "skillswap/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// The two user/skill join tables are created through the User many2many tags.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Skill{},
		&models.User{},
		&models.Swap{},
	}
}
