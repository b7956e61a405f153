package domain

// Role represents user role in the system
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// MembershipType is the paid tier of a member
type MembershipType string

const (
	MembershipBasic   MembershipType = "Basic"
	MembershipPremium MembershipType = "Premium"
	MembershipVIP     MembershipType = "VIP"
)

// MemberStatus is the lifecycle state of a member
type MemberStatus string

const (
	MemberActive    MemberStatus = "Active"
	MemberInactive  MemberStatus = "Inactive"
	MemberSuspended MemberStatus = "Suspended"
	MemberExpired   MemberStatus = "Expired"
)

// EventStatus is the lifecycle state of an event
type EventStatus string

const (
	EventUpcoming  EventStatus = "Upcoming"
	EventOngoing   EventStatus = "Ongoing"
	EventCompleted EventStatus = "Completed"
	EventCancelled EventStatus = "Cancelled"
)

// AttendanceStatus records whether a registered member showed up
type AttendanceStatus string

const (
	AttendanceRegistered AttendanceStatus = "Registered"
	AttendanceAttended   AttendanceStatus = "Attended"
	AttendanceNoShow     AttendanceStatus = "No Show"
)

// AttendeePaymentStatus tracks the registration fee of an attendee
type AttendeePaymentStatus string

const (
	AttendeePaymentPending  AttendeePaymentStatus = "Pending"
	AttendeePaymentPaid     AttendeePaymentStatus = "Paid"
	AttendeePaymentRefunded AttendeePaymentStatus = "Refunded"
)

// PaymentType classifies what a payment is for
type PaymentType string

const (
	PaymentMembershipFee     PaymentType = "Membership Fee"
	PaymentEventRegistration PaymentType = "Event Registration"
	PaymentLateFee           PaymentType = "Late Fee"
	PaymentOther             PaymentType = "Other"
)

// PaymentMethod is how a payment was made
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodCard         PaymentMethod = "Card"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodMobileMoney  PaymentMethod = "Mobile Money"
	MethodOnline       PaymentMethod = "Online"
	MethodOther        PaymentMethod = "Other"
)

// PaymentStatus is the processing state of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

// NotificationType classifies a notification
type NotificationType string

const (
	NotificationGeneral    NotificationType = "General"
	NotificationEvent      NotificationType = "Event"
	NotificationPayment    NotificationType = "Payment"
	NotificationMembership NotificationType = "Membership"
	NotificationUrgent     NotificationType = "Urgent"
)

// NotificationPriority orders notifications for display
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "Low"
	PriorityMedium NotificationPriority = "Medium"
	PriorityHigh   NotificationPriority = "High"
)

// NotificationStatus is the delivery state of a notification
type NotificationStatus string

const (
	NotificationDraft     NotificationStatus = "Draft"
	NotificationScheduled NotificationStatus = "Scheduled"
	NotificationSent      NotificationStatus = "Sent"
	NotificationFailed    NotificationStatus = "Failed"
)
