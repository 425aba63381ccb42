package model

import (
	"time"
)

// Tenant represents a resident profile created once at sign-up. Name, surname
// and tenant code are immutable after creation; the contact number is the only
// field a tenant may edit.
type Tenant struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(100);not null"`
	Surname       string    `json:"surname" gorm:"type:varchar(100);not null"`
	Email         string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password      string    `json:"-" gorm:"type:varchar(255)"`
	ContactNumber string    `json:"contact_number" gorm:"type:varchar(20)"`
	RoomNumber    string    `json:"room_number" gorm:"type:varchar(20);not null"`
	Residence     Residence `json:"residence" gorm:"type:varchar(50);index;not null"`
	TenantCode    string    `json:"tenant_code" gorm:"type:varchar(30);uniqueIndex"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Admin is the single distinguished administrative identity. There is no
// admin-management workflow; the row is seeded once via cmd/migrate.
type Admin struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	Role      string    `json:"role" gorm:"type:varchar(20);default:'admin'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
