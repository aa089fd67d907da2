package models

// User represents a registered account. The password column holds a
// bcrypt hash and is never serialized.
type User struct {
	Base
	Name     string `gorm:"size:25;not null" json:"name"`
	LastName string `gorm:"size:25;not null" json:"last_name"`
	Username string `gorm:"size:25;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	RoleID   uint   `gorm:"not null" json:"-"`
	Role     Role   `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// Role maps a role name to a permission tag. Users reference roles by
// foreign key; clients address them by name.
type Role struct {
	Base
	Name       string `gorm:"uniqueIndex;not null" json:"name"`
	Permission string `gorm:"not null" json:"permission"`
}
