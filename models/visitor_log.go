package models

import "time"

// Visitor log status values. A log starts as "inside" when the guard checks
// the visitor in and ends as "exited"; logs still inside past their expected
// duration get flipped to "overstayed".
const (
	LogStatusInside     = "inside"
	LogStatusExited     = "exited"
	LogStatusOverstayed = "overstayed"
)

type VisitorLog struct {
	ID               uint       `gorm:"primaryKey"`
	VisitorID        uint       `gorm:"not null;index"`
	Visitor          Visitor    `gorm:"foreignKey:VisitorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	FlatID           uint       `gorm:"not null"`
	Flat             Flat       `gorm:"foreignKey:FlatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	GuardID          uint       `gorm:"not null"`
	Guard            Guard      `gorm:"foreignKey:GuardID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CheckInTime      time.Time  `gorm:"not null;index"`
	CheckOutTime     *time.Time
	ExpectedDuration int        `gorm:"not null;default:60"` // minutes
	Status           string     `gorm:"type:varchar(20);not null;default:'inside'"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

// VisitorLogDetail is the denormalized row produced by joining a log with its
// visitor, flat and guard. Rows with a dangling reference never survive the
// inner join.
type VisitorLogDetail struct {
	ID               uint
	VisitorName      string
	VisitorPhone     string
	FlatNumber       string
	GuardName        string
	CheckInTime      time.Time
	ExpectedDuration int
	Status           string
}

// StatusBadgeText maps a log status to the label shown on the dashboard.
// Unknown statuses render an empty badge.
func StatusBadgeText(status string) string {
	switch status {
	case LogStatusInside:
		return "Inside"
	case LogStatusExited:
		return "Exited"
	case LogStatusOverstayed:
		return "Overstayed"
	}
	return ""
}

// StatusBadgeClass maps a log status to its badge color classes.
func StatusBadgeClass(status string) string {
	switch status {
	case LogStatusInside:
		return "bg-blue-100 text-blue-800"
	case LogStatusExited:
		return "bg-green-100 text-green-800"
	case LogStatusOverstayed:
		return "bg-red-100 text-red-800"
	}
	return ""
}
