package forms

import (
	"fmt"
	"time"

	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/validation"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
)

type TimeWindow string

const (
	WindowMorning   TimeWindow = "morning"
	WindowAfternoon TimeWindow = "afternoon"
	WindowEvening   TimeWindow = "evening"
	WindowNight     TimeWindow = "night"
)

const (
	DefaultDailySuggestionLimit = 5
	MinDailySuggestionLimit     = 1
	MaxDailySuggestionLimit     = 20
	maxNameLength               = 100
)

// ProfileForm is the editable copy of the user's profile and preferences.
// Nested preference groups are changed only through the setters.
type ProfileForm struct {
	Name            string
	Email           string // read-only, shown for reference
	Phone           string
	BirthDate       string // YYYY-MM-DD
	SpouseName      string
	SpouseBirthDate string // YYYY-MM-DD

	notifications        models.NotificationChannels
	categoriesOfInterest []models.Category
	preferredTimes       models.TimeWindows
	dailySuggestionLimit int
}

// NewProfileForm seeds the form from the user's canonical profile, using
// the product defaults for anything the server has not stored yet.
func NewProfileForm(u *models.User) *ProfileForm {
	f := &ProfileForm{
		notifications:        models.NotificationChannels{Email: true},
		dailySuggestionLimit: DefaultDailySuggestionLimit,
	}
	if u == nil {
		return f
	}
	f.Email = u.Email
	p := u.Profile
	if p == nil {
		return f
	}
	f.Name = p.Name
	f.Phone = p.Phone
	f.BirthDate = p.BirthDate
	f.SpouseName = p.SpouseName
	f.SpouseBirthDate = p.SpouseBirthDate
	if p.Preferences.Notifications != nil {
		f.notifications = *p.Preferences.Notifications
	}
	if p.Preferences.PreferredTimes != nil {
		f.preferredTimes = *p.Preferences.PreferredTimes
	}
	f.categoriesOfInterest = append([]models.Category(nil), p.Preferences.CategoriesOfInterest...)
	if p.Preferences.MaxDailySuggestions > 0 {
		f.dailySuggestionLimit = p.Preferences.MaxDailySuggestions
	}
	return f
}

func (f *ProfileForm) Notifications() models.NotificationChannels { return f.notifications }
func (f *ProfileForm) PreferredTimes() models.TimeWindows { return f.preferredTimes }
func (f *ProfileForm) DailySuggestionLimit() int { return f.dailySuggestionLimit }

func (f *ProfileForm) CategoriesOfInterest() []models.Category {
	return append([]models.Category(nil), f.categoriesOfInterest...)
}

func (f *ProfileForm) SetNotification(ch Channel, enabled bool) error {
	switch ch {
	case ChannelEmail:
		f.notifications.Email = enabled
	case ChannelPush:
		f.notifications.Push = enabled
	case ChannelSMS:
		f.notifications.SMS = enabled
	default:
		return fmt.Errorf("unknown notification channel %q", ch)
	}
	return nil
}

func (f *ProfileForm) SetPreferredTime(w TimeWindow, enabled bool) error {
	switch w {
	case WindowMorning:
		f.preferredTimes.Morning = enabled
	case WindowAfternoon:
		f.preferredTimes.Afternoon = enabled
	case WindowEvening:
		f.preferredTimes.Evening = enabled
	case WindowNight:
		f.preferredTimes.Night = enabled
	default:
		return fmt.Errorf("unknown time window %q", w)
	}
	return nil
}

// ToggleCategory adds the category if absent and removes it otherwise.
func (f *ProfileForm) ToggleCategory(c models.Category) error {
	if !c.Valid() {
		return fmt.Errorf("unknown category %q", c)
	}
	for i, existing := range f.categoriesOfInterest {
		if existing == c {
			f.categoriesOfInterest = append(f.categoriesOfInterest[:i:i], f.categoriesOfInterest[i+1:]...)
			return nil
		}
	}
	f.categoriesOfInterest = append(f.categoriesOfInterest, c)
	return nil
}

func (f *ProfileForm) SetDailySuggestionLimit(n int) error {
	if n < MinDailySuggestionLimit || n > MaxDailySuggestionLimit {
		return fmt.Errorf("daily suggestion limit must be between %d and %d", MinDailySuggestionLimit, MaxDailySuggestionLimit)
	}
	f.dailySuggestionLimit = n
	return nil
}

func (f *ProfileForm) Validate() validation.Errors {
	errs := validation.ValidateForm(
		map[string]string{
			"name":       f.Name,
			"phone":      f.Phone,
			"spouseName": f.SpouseName,
		},
		map[string][]validation.Rule{
			"name":       {{Validator: validation.MaxLength(maxNameLength), Message: "Name must be at most 100 characters"}},
			"phone":      {{Validator: validation.Phone, Message: "Invalid phone number"}},
			"spouseName": {{Validator: validation.MaxLength(maxNameLength), Message: "Spouse name must be at most 100 characters"}},
		},
	)
	if !validDate(f.BirthDate) {
		errs.Add("birthDate", "Birth date must be YYYY-MM-DD")
	}
	if !validDate(f.SpouseBirthDate) {
		errs.Add("spouseBirthDate", "Spouse birth date must be YYYY-MM-DD")
	}
	return errs
}

func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

func (f *ProfileForm) ProfileUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		Name:            f.Name,
		Phone:           f.Phone,
		BirthDate:       f.BirthDate,
		SpouseName:      f.SpouseName,
		SpouseBirthDate: f.SpouseBirthDate,
	}
}

func (f *ProfileForm) PreferencesUpdate() models.PreferencesUpdate {
	categories := f.CategoriesOfInterest()
	if categories == nil {
		categories = []models.Category{}
	}
	return models.PreferencesUpdate{
		Notifications:        f.notifications,
		CategoriesOfInterest: categories,
		PreferredTimes:       f.preferredTimes,
		MaxDailySuggestions:  f.dailySuggestionLimit,
	}
}
