package model

import (
	"time"
)

// Application is one submitted service application
type Application struct {
	AppID     string    `json:"app_id"`
	Service   string    `json:"service"`
	Name      string    `json:"name"`
	Age       string    `json:"age"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Application status constants
const (
	StatusPending  = "Pending"
	StatusInReview = "In Review"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)
