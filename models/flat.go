package models

import "time"

type Flat struct {
	ID         uint      `gorm:"primaryKey"`
	FlatNumber string    `gorm:"type:varchar(50);not null"`
	BuildingID uint      `gorm:"not null"`
	Building   Building  `gorm:"foreignKey:BuildingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
