package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Profile   *Profile  `json:"profile,omitempty"`
}

// DisplayName returns the first word of the profile name, falling back to
// the username.
func (u *User) DisplayName() string {
	if u.Profile != nil && u.Profile.Name != "" {
		for i, r := range u.Profile.Name {
			if r == ' ' {
				return u.Profile.Name[:i]
			}
		}
		return u.Profile.Name
	}
	return u.Username
}

type Profile struct {
	ID              uuid.UUID   `json:"id,omitempty"`
	UserID          uuid.UUID   `json:"user_id,omitempty"`
	Name            string      `json:"name,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	BirthDate       string      `json:"birth_date,omitempty"` // YYYY-MM-DD
	SpouseName      string      `json:"spouse_name,omitempty"`
	SpouseBirthDate string      `json:"spouse_birth_date,omitempty"` // YYYY-MM-DD
	Preferences     Preferences `json:"preferences_json"`
}

type NotificationChannels struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

type TimeWindows struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
	Evening   bool `json:"evening"`
	Night     bool `json:"night"`
}

type Preferences struct {
	Notifications        *NotificationChannels `json:"notifications,omitempty"`
	CategoriesOfInterest []Category            `json:"categories_of_interest,omitempty"`
	PreferredTimes       *TimeWindows          `json:"preferred_times,omitempty"`
	MaxDailySuggestions  int                   `json:"max_daily_suggestions,omitempty"`
}

// ProfileUpdate is the body of PUT /users/me/profile.
type ProfileUpdate struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	BirthDate       string `json:"birth_date,omitempty"`
	SpouseName      string `json:"spouse_name"`
	SpouseBirthDate string `json:"spouse_birth_date,omitempty"`
}

// PreferencesUpdate is the body of PUT /users/me/preferences.
type PreferencesUpdate struct {
	Notifications        NotificationChannels `json:"notifications"`
	CategoriesOfInterest []Category           `json:"categories_of_interest"`
	PreferredTimes       TimeWindows          `json:"preferred_times"`
	MaxDailySuggestions  int                  `json:"max_daily_suggestions"`
}

type Credentials struct {
	Username string `json:"username"` // username or email
	Password string `json:"password"`
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

func (p TokenPair) Empty() bool {
	return p.AccessToken == ""
}

// Clone returns a deep copy of u, including its profile and preferences.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Profile != nil {
		p := *u.Profile
		p.Preferences = u.Profile.Preferences.Clone()
		c.Profile = &p
	}
	return &c
}

func (p Preferences) Clone() Preferences {
	c := p
	if p.Notifications != nil {
		n := *p.Notifications
		c.Notifications = &n
	}
	if p.PreferredTimes != nil {
		t := *p.PreferredTimes
		c.PreferredTimes = &t
	}
	if p.CategoriesOfInterest != nil {
		c.CategoriesOfInterest = append([]Category(nil), p.CategoriesOfInterest...)
	}
	return c
}
