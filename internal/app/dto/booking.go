package dto

import (
	"time"

	domainbooking "staybook/internal/domain/booking"
	"staybook/internal/domain/shared/daterange"
)

type Booking struct {
	ID         string    `json:"id"`
	Guest      string    `json:"guest"`
	Listing    string    `json:"listing"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	return Booking{
		ID:         string(b.ID),
		Guest:      string(b.Guest),
		Listing:    string(b.Listing),
		CheckIn:    b.Range.CheckIn.Format(daterange.DayFormat),
		CheckOut:   b.Range.CheckOut.Format(daterange.DayFormat),
		TotalPrice: b.TotalCents,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func MapBookingCollection(items []*domainbooking.Booking) BookingCollection {
	out := BookingCollection{Items: make([]Booking, 0, len(items))}
	for _, b := range items {
		out.Items = append(out.Items, MapBooking(b))
	}
	return out
}
