package entity

import (
	"time"
)

// Stored role values. Students are stored as "User".
const (
	RoleAdmin   = "Admin"
	RoleStudent = "User"
	RoleFraud   = "Fraud"
)

type User struct {
	ID           string    `json:"_id" firestore:"id"`
	Email        string    `json:"email" firestore:"email"`
	Name         string    `json:"name,omitempty" firestore:"name,omitempty"`
	PhotoURL     string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	UniversityID string    `json:"universityID,omitempty" firestore:"universityID,omitempty"`
	Department   string    `json:"department,omitempty" firestore:"department,omitempty"`
	Role         string    `json:"role,omitempty" firestore:"role"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}

// ProfileUpdate carries the optional profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Name         *string
	PhotoURL     *string
	UniversityID *string
	Department   *string
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.PhotoURL == nil && p.UniversityID == nil && p.Department == nil
}

func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStudent, RoleFraud, "":
		return true
	}
	return false
}
