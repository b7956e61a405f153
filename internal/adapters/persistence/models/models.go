package models

import (
	"time"

	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/objectid"
	"memberhub/internal/pkg/password"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        string      `gorm:"primaryKey;size:24" json:"id"`
	Name      string      `gorm:"size:100;not null" json:"name"`
	Email     string      `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string      `gorm:"size:255;not null" json:"-"`
	Role      domain.Role `gorm:"size:20;not null;default:'Member'" json:"role"`
	IsActive  bool        `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the object id
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = objectid.New()
	}
	return nil
}

// BeforeSave hashes a plain-text password
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password == "" || password.IsHashed(u.Password) {
		return nil
	}
	hashed, err := password.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;size:24" json:"id"`
	UserID    string     `gorm:"index;size:24;not null" json:"userId"`
	TokenHash string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	RevokedAt *time.Time `gorm:"index" json:"revokedAt"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == "" {
		rt.ID = objectid.New()
	}
	return nil
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Membership Tables
// ============================================================

// Zone groups members geographically
type Zone struct {
	ID          string    `gorm:"primaryKey;size:24" json:"id"`
	Name        string    `gorm:"size:100;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Zone) TableName() string {
	return "zones"
}

func (z *Zone) BeforeCreate(tx *gorm.DB) error {
	if z.ID == "" {
		z.ID = objectid.New()
	}
	return nil
}

// ZoneWithCount is a zone plus its live active member count
type ZoneWithCount struct {
	Zone
	MemberCount int64 `json:"memberCount"`
}

// Member is the membership profile of a user. MemberID is the generated
// human readable identifier, ID is the storage key.
type Member struct {
	ID             string                `gorm:"primaryKey;size:24" json:"id"`
	UserID         string                `gorm:"uniqueIndex;size:24;not null" json:"userId"`
	MemberID       string                `gorm:"column:member_id;uniqueIndex;size:20;not null" json:"memberId"`
	Name           string                `gorm:"size:100;not null;index" json:"name"`
	Phone          string                `gorm:"size:20;not null" json:"phone"`
	Address        string                `gorm:"type:text" json:"address"`
	ZoneID         string                `gorm:"index;size:24;not null" json:"zoneId"`
	MembershipType domain.MembershipType `gorm:"size:20;not null;default:'Basic'" json:"membershipType"`
	Status         domain.MemberStatus   `gorm:"size:20;not null;default:'Active';index" json:"status"`
	DateOfBirth    *time.Time            `json:"dateOfBirth,omitempty"`
	JoinDate       time.Time             `gorm:"not null" json:"joinDate"`
	RenewalDate    time.Time             `gorm:"not null;index" json:"renewalDate"`
	QRCode         string                `gorm:"type:text" json:"qrCode,omitempty"`
	IsActive       bool                  `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Zone *Zone `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = objectid.New()
	}
	return nil
}

// ZoneMemberResponse is the public projection used in zone listings
type ZoneMemberResponse struct {
	ID             string                `json:"id"`
	MemberID       string                `json:"memberId"`
	Name           string                `json:"name"`
	Phone          string                `json:"phone"`
	MembershipType domain.MembershipType `json:"membershipType"`
	Status         domain.MemberStatus   `json:"status"`
	RenewalDate    time.Time             `json:"renewalDate"`
}

func (m *Member) ToZoneMemberResponse() ZoneMemberResponse {
	return ZoneMemberResponse{
		ID:             m.ID,
		MemberID:       m.MemberID,
		Name:           m.Name,
		Phone:          m.Phone,
		MembershipType: m.MembershipType,
		Status:         m.Status,
		RenewalDate:    m.RenewalDate,
	}
}

// ============================================================
// Event Tables
// ============================================================

// Event is a scheduled gathering members can register for
type Event struct {
	ID              string             `gorm:"primaryKey;size:24" json:"id"`
	Title           string             `gorm:"size:200;not null" json:"title"`
	Description     string             `gorm:"type:text" json:"description"`
	EventDate       time.Time          `gorm:"not null;index" json:"eventDate"`
	Location        string             `gorm:"size:255;not null" json:"location"`
	MaxAttendees    *int               `json:"maxAttendees,omitempty"`
	RegistrationFee float64            `gorm:"type:decimal(12,2);not null;default:0" json:"registrationFee"`
	Status          domain.EventStatus `gorm:"size:20;not null;default:'Upcoming';index" json:"status"`
	CreatedBy       string             `gorm:"size:24;not null" json:"createdBy"`
	IsActive        bool               `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`

	Attendees []EventAttendee `gorm:"foreignKey:EventID" json:"attendees"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = objectid.New()
	}
	return nil
}

// HasCapacity reports whether one more attendee fits
func (e *Event) HasCapacity(current int64) bool {
	return e.MaxAttendees == nil || current < int64(*e.MaxAttendees)
}

// EventAttendee is one registration of a member for an event
type EventAttendee struct {
	ID               string                       `gorm:"primaryKey;size:24" json:"id"`
	EventID          string                       `gorm:"size:24;not null;uniqueIndex:idx_event_member" json:"eventId"`
	MemberID         string                       `gorm:"size:24;not null;uniqueIndex:idx_event_member;index" json:"memberId"`
	RegistrationDate time.Time                    `gorm:"not null" json:"registrationDate"`
	AttendanceStatus domain.AttendanceStatus      `gorm:"size:20;not null;default:'Registered'" json:"attendanceStatus"`
	PaymentStatus    domain.AttendeePaymentStatus `gorm:"size:20;not null;default:'Pending'" json:"paymentStatus"`
	CreatedAt        time.Time                    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time                    `gorm:"autoUpdateTime" json:"updatedAt"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (EventAttendee) TableName() string {
	return "event_attendees"
}

func (a *EventAttendee) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = objectid.New()
	}
	return nil
}

// ============================================================
// Payment Tables
// ============================================================

// Payment records money received from a member
type Payment struct {
	ID            string               `gorm:"primaryKey;size:24" json:"id"`
	PaymentID     string               `gorm:"column:payment_id;uniqueIndex;size:20;not null" json:"paymentId"`
	MemberID      string               `gorm:"index;size:24;not null" json:"memberId"`
	Amount        float64              `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentType   domain.PaymentType   `gorm:"size:30;not null;index" json:"paymentType"`
	PaymentMethod domain.PaymentMethod `gorm:"size:30;not null" json:"paymentMethod"`
	Status        domain.PaymentStatus `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	TransactionID string               `gorm:"size:100" json:"transactionId,omitempty"`
	Description   string               `gorm:"type:text" json:"description,omitempty"`
	ReceiptFile   string               `gorm:"size:500" json:"receiptFile,omitempty"`
	EventID       *string              `gorm:"index;size:24" json:"eventId,omitempty"`
	PaymentDate   time.Time            `gorm:"not null;index" json:"paymentDate"`
	ProcessedBy   string               `gorm:"size:24" json:"processedBy"`
	IsActive      bool                 `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updatedAt"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Event  *Event  `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = objectid.New()
	}
	return nil
}

// ============================================================
// Notification Tables
// ============================================================

// Notification is a message from an admin to all or some members. An empty
// target list means broadcast.
type Notification struct {
	ID        string                      `gorm:"primaryKey;size:24" json:"id"`
	Title     string                      `gorm:"size:200;not null" json:"title"`
	Message   string                      `gorm:"type:text;not null" json:"message"`
	Type      domain.NotificationType     `gorm:"size:20;not null;default:'General';index" json:"type"`
	Priority  domain.NotificationPriority `gorm:"size:10;not null;default:'Medium'" json:"priority"`
	SentBy    string                      `gorm:"size:24;not null" json:"sentBy"`
	SentAt    *time.Time                  `gorm:"index" json:"sentAt,omitempty"`
	Status    domain.NotificationStatus   `gorm:"size:20;not null;default:'Sent';index" json:"status"`
	IsRead    bool                        `gorm:"not null;default:false" json:"isRead"`
	IsActive  bool                        `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`

	Targets       []NotificationTarget `gorm:"foreignKey:NotificationID" json:"-"`
	TargetMembers []string             `gorm:"-" json:"targetMembers"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = objectid.New()
	}
	return nil
}

// AfterFind flattens preloaded targets into TargetMembers
func (n *Notification) AfterFind(tx *gorm.DB) error {
	n.TargetMembers = make([]string, 0, len(n.Targets))
	for _, t := range n.Targets {
		n.TargetMembers = append(n.TargetMembers, t.MemberID)
	}
	return nil
}

// IsBroadcast reports whether the notification targets every member
func (n *Notification) IsBroadcast() bool {
	return len(n.TargetMembers) == 0
}

// NotificationTarget links a notification to one targeted member
type NotificationTarget struct {
	NotificationID string `gorm:"primaryKey;size:24" json:"notificationId"`
	MemberID       string `gorm:"primaryKey;size:24;index" json:"memberId"`
}

func (NotificationTarget) TableName() string {
	return "notification_targets"
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Zone{},
		&Member{},
		&Event{},
		&EventAttendee{},
		&Payment{},
		&Notification{},
		&NotificationTarget{},
	)
}
