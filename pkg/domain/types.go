package domain

import (
	"bytes"
	"time"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

type MaterialType string

const (
	MaterialNotes MaterialType = "notes"
	MaterialVideo MaterialType = "video"
)

// TypeFilter widens MaterialType with the catch-all "all".
type TypeFilter string

const (
	FilterAll   TypeFilter = "all"
	FilterNotes TypeFilter = "notes"
	FilterVideo TypeFilter = "video"
)

// ChatMessage is one turn in the assistant conversation. Messages are
// immutable once appended.
type ChatMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}

// StudyMaterial is a catalog entry. Pages is meaningful for notes,
// Duration for videos.
type StudyMaterial struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Subject     string       `json:"subject"`
	Type        MaterialType `json:"type"`
	Description string       `json:"description"`
	Pages       *int         `json:"pages,omitempty"`
	Duration    string       `json:"duration,omitempty"`
	Rating      float64      `json:"rating"`
	StorageKey  string       `json:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// MaterialFilter narrows the catalog view. A nil Subject means any subject.
type MaterialFilter struct {
	Subject *string    `json:"subject"`
	Type    TypeFilter `json:"type"`
	Search  string     `json:"search"`
}

type ScheduleBlock struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

type DayPlan struct {
	Day   int      `json:"day"`
	Focus string   `json:"focus"`
	Tasks []string `json:"tasks"`
}

// WeekPlan groups day plans under a week. Day numbering within a week is
// assumed monotonic but not enforced.
type WeekPlan struct {
	Week int       `json:"week"`
	Days []DayPlan `json:"days"`
}

type StudyPlan struct {
	ID            string          `json:"id"`
	Overview      string          `json:"overview"`
	DailySchedule []ScheduleBlock `json:"daily_schedule"`
	WeeklyPlans   []WeekPlan      `json:"weekly_plans"`
	Resources     []string        `json:"resources"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StrictBool unmarshals to true only from the JSON literal true. Any other
// shape (the string "true", numbers, null) coerces to false, so a session
// record can never persist an ambiguous verification flag.
type StrictBool bool

var jsonTrue = []byte("true")

func (b *StrictBool) UnmarshalJSON(data []byte) error {
	*b = StrictBool(bytes.Equal(bytes.TrimSpace(data), jsonTrue))
	return nil
}

func (b StrictBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// SessionUser is the durable session record for a signed-in student.
type SessionUser struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       UserRole   `json:"role"`
	IsVerified StrictBool `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at,omitzero"`
	UpdatedAt  time.Time  `json:"updated_at,omitzero"`
}

// VerificationSnapshot is a read-only diagnostic view of verification state.
type VerificationSnapshot struct {
	HasToken             bool   `json:"hasToken"`
	HasUser              bool   `json:"hasUser"`
	IsVerified           bool   `json:"isVerified"`
	StoredEmail          string `json:"storedEmail,omitempty"`
	VerificationEmail    string `json:"verificationEmail,omitempty"`
	VerificationToken    string `json:"verificationToken,omitempty"`
	VerificationAttempts int    `json:"verificationAttempts"`
}
