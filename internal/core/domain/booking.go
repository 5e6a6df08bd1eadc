package domain

import (
	"strings"
	"time"
)

// BookingStatus is the status taxonomy of the customer booking flow.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus accepts the American spelling used by the dashboard
// endpoints as well. Unknown values fall back to pending.
func ParseBookingStatus(s string) BookingStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "confirmed":
		return StatusConfirmed
	case "completed":
		return StatusCompleted
	case "cancelled", "canceled":
		return StatusCancelled
	default:
		return StatusPending
	}
}

// AdminStatus is the status taxonomy of the dashboard. It is kept apart from
// BookingStatus until the backend contract settles on one enumeration.
type AdminStatus string

const (
	AdminPending   AdminStatus = "pending"
	AdminConfirmed AdminStatus = "confirmed"
	AdminCanceled  AdminStatus = "canceled"
)

func (s AdminStatus) Valid() bool {
	switch s {
	case AdminPending, AdminConfirmed, AdminCanceled:
		return true
	}
	return false
}

func ParseAdminStatus(s string) AdminStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "confirmed", "completed":
		return AdminConfirmed
	case "canceled", "cancelled":
		return AdminCanceled
	default:
		return AdminPending
	}
}

type PaymentMethod string

const (
	PaymentQR     PaymentMethod = "qr"
	PaymentCredit PaymentMethod = "credit"
	PaymentBank   PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentQR, PaymentCredit, PaymentBank:
		return true
	}
	return false
}

// File is an uploaded attachment (payment proof, motorbike image).
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Data        []byte `json:"-"`
}

// swagger:model domain.Booking
type Booking struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	MotorbikeID     string        `json:"motorbike_id"`
	Motorbike       *Motorbike    `json:"motorbike,omitempty"`
	PickupLocation  string        `json:"pickup_location"`
	DropoffLocation string        `json:"dropoff_location"`
	PickupDate      time.Time     `json:"pickup_date"`
	DropoffDate     time.Time     `json:"dropoff_date"`
	TotalPrice      float64       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	PaymentMethod   PaymentMethod `json:"payment_method,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// IsUpcoming reports whether pickup is still ahead and the booking is live.
func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.PickupDate.After(now) && b.Status != StatusCancelled
}

func (b *Booking) IsPast(now time.Time) bool {
	return !b.IsUpcoming(now)
}

// AdminBooking is a booking as listed on the dashboard.
type AdminBooking struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	UserName        string      `json:"user_name,omitempty"`
	MotorbikeID     string      `json:"motorbike_id"`
	MotorbikeName   string      `json:"motorbike_name,omitempty"`
	PickupLocation  string      `json:"pickup_location"`
	DropoffLocation string      `json:"dropoff_location"`
	PickupDate      time.Time   `json:"pickup_date"`
	DropoffDate     time.Time   `json:"dropoff_date"`
	TotalPrice      float64     `json:"total_price"`
	Status          AdminStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

// CreateBookingRequest is what the wizard hands to the booking store on
// final submit.
type CreateBookingRequest struct {
	UserID          string
	MotorbikeID     string
	PickupLocation  string
	DropoffLocation string
	PickupDate      time.Time
	DropoffDate     time.Time
	Amount          float64
	TotalPrice      float64
	PaymentMethod   PaymentMethod
	PaymentProof    *File
}
