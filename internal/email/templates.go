package email

import "fmt"

// BookingDetails is what the booking mails show about one booking.
type BookingDetails struct {
	BookingID int
	ArenaName string
	Date      string
	StartTime string
	EndTime   string
}

const (
	TypeBookingApproved = "booking_approved"
	TypeBookingRejected = "booking_rejected"
	TypeBookingCanceled = "booking_canceled"
)

func BookingApproved(to, name string, d BookingDetails) EmailJob {
	return EmailJob{
		To:      to,
		Name:    name,
		Type:    TypeBookingApproved,
		Subject: "Booking approved - " + d.ArenaName,
		Body: fmt.Sprintf(`Hi %s,

Your booking #%d was approved.

Arena: %s
Date: %s
Time: %s - %s

See you on the pitch!

- ArenaBook`, name, d.BookingID, d.ArenaName, d.Date, d.StartTime, d.EndTime),
	}
}

func BookingRejected(to, name string, d BookingDetails) EmailJob {
	return EmailJob{
		To:      to,
		Name:    name,
		Type:    TypeBookingRejected,
		Subject: "Booking rejected - " + d.ArenaName,
		Body: fmt.Sprintf(`Hi %s,

Unfortunately your booking #%d was rejected by the arena.

Arena: %s
Date: %s
Time: %s - %s

You can pick another free time in the app.

- ArenaBook`, name, d.BookingID, d.ArenaName, d.Date, d.StartTime, d.EndTime),
	}
}

func BookingCanceled(to, name string, d BookingDetails) EmailJob {
	return EmailJob{
		To:      to,
		Name:    name,
		Type:    TypeBookingCanceled,
		Subject: "Booking canceled - " + d.ArenaName,
		Body: fmt.Sprintf(`Hi %s,

Your booking #%d has been canceled.

Arena: %s
Date: %s
Time: %s - %s

- ArenaBook`, name, d.BookingID, d.ArenaName, d.Date, d.StartTime, d.EndTime),
	}
}
