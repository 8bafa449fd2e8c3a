package models

import (
	"time"
)

// User represents a patient account
type User struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:100;not null;column:name" json:"name"`
	Email     string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password  string    `gorm:"size:255;not null;column:password" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
