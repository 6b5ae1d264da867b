package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"marketing-crm/constants"

	"gorm.io/gorm"
)

// User is a CRM staff member able to sign in.
type User struct {
	ID           uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid         string      `gorm:"type:varchar(36);not null;uniqueIndex" json:"uuid"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	Email        string      `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone        *string     `gorm:"type:varchar(10);uniqueIndex" json:"phone,omitempty"`
	PasswordHash string      `gorm:"type:varchar(255);not null" json:"-"`
	Role         string      `gorm:"type:varchar(50);not null;index" json:"role"`
	Permissions  StringSlice `gorm:"type:json" json:"permissions"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectivePermissions merges the role defaults with the user's own grants.
func (u *User) EffectivePermissions() []string {
	seen := make(map[string]bool)
	var perms []string
	for _, p := range append(append([]string{}, constants.RolePermissions[u.Role]...), u.Permissions...) {
		if !seen[p] {
			seen[p] = true
			perms = append(perms, p)
		}
	}
	return perms
}

// StringSlice stores a list of strings in a JSON column
type StringSlice []string

// Scan implements the Scanner interface for database deserialization
func (ss *StringSlice) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*ss = nil
		return nil
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// Value implements the driver Valuer interface for database serialization
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return "[]", nil
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
