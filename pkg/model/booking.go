package model

import "go.mongodb.org/mongo-driver/bson"

// Booking is stored exactly as the client sent it.
type Booking = bson.M

// StatusUpdate is the only mutation the bookings collection supports. Status
// is written as-is, including null when the field is absent.
type StatusUpdate struct {
	Status any `json:"status" bson:"status"`
}

// BookingFilter narrows a booking listing. Unscoped is set when the caller
// sent no email parameter at all; an empty email is still a scoped query.
type BookingFilter struct {
	Email    string
	Unscoped bool
}

func (f BookingFilter) Scoped() bool {
	return !f.Unscoped
}
