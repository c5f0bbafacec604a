// Package models contains data structures for the application's domain models.
package models

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"golang.org/x/crypto/bcrypt"
)

// User represents a marketplace member.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:256;not null" json:"-"`
	Location     string `gorm:"size:120" json:"location"`
	Bio          string `gorm:"type:text" json:"bio"`

	// Relationships
	SkillsOffered []Skill `gorm:"many2many:user_skills_offered;constraint:OnDelete:CASCADE" json:"skills_offered"`
	SkillsSeeking []Skill `gorm:"many2many:user_skills_seeking;constraint:OnDelete:CASCADE" json:"skills_seeking"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// prehash folds a password of any length into 44 bytes, under bcrypt's 72-byte limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// SetPassword hashes password with bcrypt and stores the hash.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), prehash(password)) == nil
}

// MarshalJSON renders empty skill lists as [] rather than null.
func (u User) MarshalJSON() ([]byte, error) {
	type userJSON User
	out := userJSON(u)
	if out.SkillsOffered == nil {
		out.SkillsOffered = []Skill{}
	}
	if out.SkillsSeeking == nil {
		out.SkillsSeeking = []Skill{}
	}
	return json.Marshal(out)
}

// UserSkillKind selects one of the two user↔skill join tables.
type UserSkillKind string

const (
	// UserSkillOffered is a skill the user can teach.
	UserSkillOffered UserSkillKind = "offered"
	// UserSkillSeeking is a skill the user wants to learn.
	UserSkillSeeking UserSkillKind = "seeking"
)

// Association returns the GORM association name backing the kind.
func (k UserSkillKind) Association() string {
	if k == UserSkillSeeking {
		return "SkillsSeeking"
	}
	return "SkillsOffered"
}

// JoinTable returns the join table name backing the kind.
func (k UserSkillKind) JoinTable() string {
	if k == UserSkillSeeking {
		return "user_skills_seeking"
	}
	return "user_skills_offered"
}

// Valid reports whether k is one of the declared kinds.
func (k UserSkillKind) Valid() bool {
	return k == UserSkillOffered || k == UserSkillSeeking
}
