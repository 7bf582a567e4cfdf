package models

import "gorm.io/gorm"

// Category is an entry in the skill-category directory. The directory
// itself is maintained elsewhere; the core only checks existence when a
// job is posted.
type Category struct {
	gorm.Model
	Name   string `json:"name" gorm:"not null;uniqueIndex"`
	Active bool   `json:"active" gorm:"not null;default:true"`
}
