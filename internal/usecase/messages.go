package usecase

import (
	"fmt"
	"time"

	"careops/internal/calendar"
	"careops/internal/data/entity"
	"careops/pkg/notify"
)

const (
	messageTimeLayout   = "January 02, 2006 at 03:04 PM"
	defaultConfirmation = "Your appointment has been confirmed."
	defaultReminder     = "Reminder: You have an upcoming appointment."
)

func bookingEvent(d *entity.BookingDetail) calendar.Event {
	e := calendar.Event{
		UID:         d.ID.String(),
		Title:       "Appointment: " + d.ServiceName,
		Start:       d.StartsAt,
		End:         d.EndsAt,
		Description: "Booking with " + d.ContactName,
	}
	if d.Location != nil {
		e.Location = *d.Location
	}
	if d.ContactEmail != nil && *d.ContactEmail != "" {
		e.Attendees = []string{*d.ContactEmail}
	}
	return e
}

func bookingDetail(b *entity.Booking, contact *entity.Contact, service *entity.Service) *entity.BookingDetail {
	return &entity.BookingDetail{
		Booking:      *b,
		ContactName:  contact.Name,
		ContactEmail: contact.Email,
		ContactPhone: contact.Phone,
		ServiceName:  service.Name,
		Location:     service.Location,
	}
}

func addressed(d *entity.BookingDetail, subject, body string) notify.Message {
	msg := notify.Message{ToName: d.ContactName, Subject: subject, Body: body}
	if d.ContactEmail != nil {
		msg.ToEmail = *d.ContactEmail
	}
	if d.ContactPhone != nil {
		msg.ToPhone = *d.ContactPhone
	}
	return msg
}

func workspaceName(ws *entity.Workspace) string {
	if ws == nil {
		return "CareOps"
	}
	return ws.Name
}

// confirmationMessage carries the booking as an .ics attachment so email
// clients offer to add it to the calendar.
func confirmationMessage(ws *entity.Workspace, d *entity.BookingDetail, loc *time.Location, now time.Time) notify.Message {
	text := defaultConfirmation
	if ws != nil && ws.BookingConfirmationMessage != nil && *ws.BookingConfirmationMessage != "" {
		text = *ws.BookingConfirmationMessage
	}
	body := fmt.Sprintf("%s\nService: %s\nDate: %s", text, d.ServiceName, d.StartsAt.In(loc).Format(messageTimeLayout))

	msg := addressed(d, "Booking Confirmed - "+workspaceName(ws), body)
	msg.Attachment = &notify.Attachment{
		Filename:    "booking.ics",
		ContentType: calendar.ContentType,
		Content:     []byte(calendar.ICS(bookingEvent(d), now)),
	}
	return msg
}

func reminderMessage(ws *entity.Workspace, d *entity.BookingDetail, loc *time.Location) notify.Message {
	text := defaultReminder
	if ws != nil && ws.ReminderMessage != nil && *ws.ReminderMessage != "" {
		text = *ws.ReminderMessage
	}
	body := text + "\nDate: " + d.StartsAt.In(loc).Format(messageTimeLayout)
	return addressed(d, "Reminder: Upcoming Appointment - "+workspaceName(ws), body)
}
