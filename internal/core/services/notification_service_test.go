package services

import (
	"testing"

	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationVisibility(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	alice := f.member(zone)
	bob := f.member(zone)
	admin := f.user(domain.RoleAdmin)

	broadcast, err := f.notifications.SendToAllMembers(f.ctx, admin.ID, &BroadcastInput{
		Title:   "Office closed",
		Message: "The office is closed on Friday",
	})
	require.NoError(t, err)
	assert.True(t, broadcast.IsBroadcast())
	assert.NotNil(t, broadcast.SentAt)

	targeted, err := f.notifications.SendToMembers(f.ctx, admin.ID, &SendToMembersInput{
		Title:         "Fee due",
		Message:       "Your fee is due",
		Type:          string(domain.NotificationPayment),
		TargetMembers: []string{alice.ID, alice.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, targeted.TargetMembers)

	_, err = f.notifications.CreateNotification(f.ctx, admin.ID, &CreateNotificationInput{
		Title:   "Draft notice",
		Message: "Not sent yet",
		Status:  string(domain.NotificationDraft),
	})
	require.NoError(t, err)

	params := &pagination.Params{Page: 1, Limit: 10, SortOrder: "desc"}

	aliceInbox, err := f.notifications.GetMemberNotifications(f.ctx, alice.ID, &MemberNotificationListInput{}, params)
	require.NoError(t, err)
	assert.Len(t, aliceInbox.Items, 2)

	bobInbox, err := f.notifications.GetMemberNotifications(f.ctx, bob.ID, &MemberNotificationListInput{}, params)
	require.NoError(t, err)
	require.Len(t, bobInbox.Items, 1)
	assert.Equal(t, broadcast.ID, bobInbox.Items[0].ID)

	all, err := f.notifications.GetAllNotifications(f.ctx, &NotificationListInput{}, params)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
}

func TestCreateNotification_RejectsInactiveTargets(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	active := f.member(zone)
	disabled := f.member(zone)
	require.NoError(t, f.members.DisableMember(f.ctx, disabled.ID))

	_, err := f.notifications.SendToMembers(f.ctx, "", &SendToMembersInput{
		Title:         "Hello",
		Message:       "Hi",
		TargetMembers: []string{active.ID, disabled.ID},
	})
	assert.ErrorIs(t, err, domain.ErrTargetMembersInvalid)

	all, err := f.notifications.GetAllNotifications(f.ctx, &NotificationListInput{}, &pagination.Params{Page: 1, Limit: 10, SortOrder: "desc"})
	require.NoError(t, err)
	assert.Empty(t, all.Items)
}

func TestMarkAsRead(t *testing.T) {
	f := newFixture(t)
	zone := f.zone("North")
	alice := f.member(zone)
	bob := f.member(zone)

	targeted, err := f.notifications.SendToMembers(f.ctx, "", &SendToMembersInput{
		Title:         "Just you",
		Message:       "Private note",
		TargetMembers: []string{alice.ID},
	})
	require.NoError(t, err)

	_, err = f.notifications.MarkAsRead(f.ctx, targeted.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)

	read, err := f.notifications.MarkAsRead(f.ctx, targeted.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	params := &pagination.Params{Page: 1, Limit: 10, SortOrder: "desc"}
	unread, err := f.notifications.GetMemberNotifications(f.ctx, alice.ID, &MemberNotificationListInput{UnreadOnly: true}, params)
	require.NoError(t, err)
	assert.Empty(t, unread.Items)

	// Admins mark without a member scope
	again, err := f.notifications.MarkAsRead(f.ctx, targeted.ID, "")
	require.NoError(t, err)
	assert.True(t, again.IsRead)
}

func TestDeleteNotification(t *testing.T) {
	f := newFixture(t)
	n, err := f.notifications.SendToAllMembers(f.ctx, "", &BroadcastInput{Title: "Bye", Message: "Gone soon"})
	require.NoError(t, err)

	require.NoError(t, f.notifications.DeleteNotification(f.ctx, n.ID))

	_, err = f.notifications.GetNotificationByID(f.ctx, n.ID)
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	assert.ErrorIs(t, f.notifications.DeleteNotification(f.ctx, n.ID), domain.ErrNotificationNotFound)
}
