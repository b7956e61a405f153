package services

import (
	"testing"
	"time"

	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/pagination"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMemberForEvent(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	member := f.member(zone)

	t.Run("free event is paid on registration", func(t *testing.T) {
		event := f.event(nil, 0)

		attendee, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AttendanceRegistered, attendee.AttendanceStatus)
		assert.Equal(t, domain.AttendeePaymentPaid, attendee.PaymentStatus)
		assert.Equal(t, member.ID, attendee.Member.ID)
	})

	t.Run("paid event starts pending", func(t *testing.T) {
		event := f.event(nil, 250)

		attendee, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AttendeePaymentPending, attendee.PaymentStatus)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		event := f.event(nil, 0)
		_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		require.NoError(t, err)

		_, err = f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))

		attendees, err := f.events.GetEventAttendees(f.ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, attendees.Attendees, 1)
	})

	t.Run("capacity", func(t *testing.T) {
		event := f.event(intPtr(2), 0)
		for i := 0; i < 2; i++ {
			_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, f.member(zone).ID)
			require.NoError(t, err)
		}

		_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		assert.ErrorIs(t, err, domain.ErrEventFull)

		count, err := f.store.Events.CountAttendees(f.ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("event not upcoming", func(t *testing.T) {
		event := f.event(nil, 0)
		_, err := f.events.UpdateEvent(f.ctx, event.ID, &UpdateEventInput{Status: strPtr("Cancelled")})
		require.NoError(t, err)

		_, err = f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		assert.ErrorIs(t, err, domain.ErrEventNotOpen)
	})

	t.Run("disabled member", func(t *testing.T) {
		event := f.event(nil, 0)
		gone := f.member(zone)
		require.NoError(t, f.members.DisableMember(f.ctx, gone.ID))

		_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, gone.ID)
		assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.EventRegistrations.WithLabelValues("duplicate")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.EventRegistrations.WithLabelValues("full")))
}

func TestRegisterMemberForEvent_CheckOrder(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	gone := f.member(zone)
	require.NoError(t, f.members.DisableMember(f.ctx, gone.ID))

	t.Run("unknown event before member", func(t *testing.T) {
		_, err := f.events.RegisterMemberForEvent(f.ctx, "507f1f77bcf86cd799439011", gone.ID)
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})

	t.Run("deleted event", func(t *testing.T) {
		event := f.event(nil, 0)
		require.NoError(t, f.events.DeleteEvent(f.ctx, event.ID))

		_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, f.member(zone).ID)
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
	})

	t.Run("missing member before event state", func(t *testing.T) {
		event := f.event(nil, 0)
		_, err := f.events.UpdateEvent(f.ctx, event.ID, &UpdateEventInput{Status: strPtr("Cancelled")})
		require.NoError(t, err)

		_, err = f.events.RegisterMemberForEvent(f.ctx, event.ID, gone.ID)
		assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	})

	t.Run("event state before duplicate", func(t *testing.T) {
		event := f.event(nil, 0)
		member := f.member(zone)
		_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		require.NoError(t, err)
		_, err = f.events.UpdateEvent(f.ctx, event.ID, &UpdateEventInput{Status: strPtr("Cancelled")})
		require.NoError(t, err)

		_, err = f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		assert.ErrorIs(t, err, domain.ErrEventNotOpen)
	})

	t.Run("duplicate before capacity", func(t *testing.T) {
		event := f.event(intPtr(1), 0)
		member := f.member(zone)
		_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		require.NoError(t, err)

		_, err = f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

		_, err = f.events.RegisterMemberForEvent(f.ctx, event.ID, f.member(zone).ID)
		assert.ErrorIs(t, err, domain.ErrEventFull)
	})
}

func TestUnregisterMemberFromEvent(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	event := f.event(nil, 0)

	err := f.events.UnregisterMemberFromEvent(f.ctx, event.ID, member.ID)
	assert.ErrorIs(t, err, domain.ErrAttendeeNotFound)

	_, err = f.events.RegisterMemberForEvent(f.ctx, event.ID, member.ID)
	require.NoError(t, err)
	require.NoError(t, f.events.UnregisterMemberFromEvent(f.ctx, event.ID, member.ID))

	count, err := f.store.Events.CountAttendees(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateEvent_CapacityBelowRegistrations(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	event := f.event(intPtr(5), 0)
	for i := 0; i < 3; i++ {
		_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, f.member(zone).ID)
		require.NoError(t, err)
	}

	_, err := f.events.UpdateEvent(f.ctx, event.ID, &UpdateEventInput{MaxAttendees: intPtr(2)})
	assert.ErrorIs(t, err, domain.ErrCapacityBelowAttendees)

	updated, err := f.events.UpdateEvent(f.ctx, event.ID, &UpdateEventInput{
		MaxAttendees: intPtr(3),
		Location:     strPtr(" Annex "),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, *updated.MaxAttendees)
	assert.Equal(t, "Annex", updated.Location)
	assert.Len(t, updated.Attendees, 3)
}

func TestRecordAttendance(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	event := f.event(nil, 100)
	came := f.member(zone)
	missed := f.member(zone)
	waiting := f.member(zone)
	for _, m := range []string{came.ID, missed.ID, waiting.ID} {
		_, err := f.events.RegisterMemberForEvent(f.ctx, event.ID, m)
		require.NoError(t, err)
	}

	attendee, err := f.events.RecordAttendance(f.ctx, event.ID, &RecordAttendanceInput{
		MemberID:         came.ID,
		AttendanceStatus: string(domain.AttendanceAttended),
		PaymentStatus:    string(domain.AttendeePaymentPaid),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceAttended, attendee.AttendanceStatus)
	assert.Equal(t, domain.AttendeePaymentPaid, attendee.PaymentStatus)

	_, err = f.events.RecordAttendance(f.ctx, event.ID, &RecordAttendanceInput{
		MemberID:         missed.ID,
		AttendanceStatus: string(domain.AttendanceNoShow),
	})
	require.NoError(t, err)

	_, err = f.events.RecordAttendance(f.ctx, event.ID, &RecordAttendanceInput{
		MemberID:         f.member(zone).ID,
		AttendanceStatus: string(domain.AttendanceAttended),
	})
	assert.ErrorIs(t, err, domain.ErrAttendeeNotFound)

	list, err := f.events.GetEventAttendees(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, AttendeeSummary{TotalRegistered: 3, Attended: 1, NoShow: 1, Pending: 1}, list.Summary)
	assert.Equal(t, came.ID, list.Attendees[0].MemberID)
}

func TestDeleteEvent_HidesEvent(t *testing.T) {
	f := newFixture(t)
	event := f.event(nil, 0)

	require.NoError(t, f.events.DeleteEvent(f.ctx, event.ID))

	_, err := f.events.GetEventByID(f.ctx, event.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.ErrorIs(t, f.events.DeleteEvent(f.ctx, event.ID), domain.ErrEventNotFound)
}

func TestGetUpcomingEvents(t *testing.T) {
	f := newFixture(t)
	admin := f.user(domain.RoleAdmin)
	now := time.Now().UTC()

	for i, offset := range []int{3, 1, -2, 2} {
		_, err := f.events.CreateEvent(f.ctx, admin.ID, &CreateEventInput{
			Title:     "Event " + string(rune('A'+i)),
			EventDate: now.AddDate(0, 0, offset),
			Location:  "Hall",
		})
		require.NoError(t, err)
	}

	events, err := f.events.GetUpcomingEvents(f.ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Event B", events[0].Title)
	assert.Equal(t, "Event D", events[1].Title)
}

func TestGetAllEvents_Filters(t *testing.T) {
	f := newFixture(t)
	admin := f.user(domain.RoleAdmin)

	for _, title := range []string{"Board Meeting", "Summer Picnic", "Winter Gala"} {
		_, err := f.events.CreateEvent(f.ctx, admin.ID, &CreateEventInput{
			Title:     title,
			EventDate: date(2030, time.June, 1),
			Location:  "Hall",
		})
		require.NoError(t, err)
	}

	params := &pagination.Params{Page: 1, Limit: 10, SortOrder: "asc"}
	page, err := f.events.GetAllEvents(f.ctx, &EventListInput{Search: "picnic"}, params)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Summer Picnic", page.Items[0].Title)

	page, err = f.events.GetAllEvents(f.ctx, &EventListInput{StartDate: "2030-06-01", EndDate: "2030-06-01"}, params)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)

	page, err = f.events.GetAllEvents(f.ctx, &EventListInput{EndDate: "2030-05-31"}, params)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGetMemberEvents(t *testing.T) {
	f := newFixture(t)
	member := f.member(f.zone("North"))
	joined := f.event(nil, 0)
	f.event(nil, 0)

	_, err := f.events.RegisterMemberForEvent(f.ctx, joined.ID, member.ID)
	require.NoError(t, err)

	events, err := f.events.GetMemberEvents(f.ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, joined.ID, events[0].ID)
}
