package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/HammerMeetNail/suggestly/internal/forms"
	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/view"
)

// toggle is one "key=on" item of a --notify or --times list.
type toggle struct {
	key     string
	enabled bool
}

func parseToggles(s string) ([]toggle, error) {
	var out []toggle
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, found := strings.Cut(item, "=")
		if !found {
			out = append(out, toggle{key: key, enabled: true})
			continue
		}
		switch strings.ToLower(value) {
		case "on", "true", "yes", "1":
			out = append(out, toggle{key: key, enabled: true})
		case "off", "false", "no", "0":
			out = append(out, toggle{key: key, enabled: false})
		default:
			return nil, fmt.Errorf("invalid value %q for %s", value, key)
		}
	}
	return out, nil
}

type profileFlags struct {
	name            string
	phone           string
	birthDate       string
	spouseName      string
	spouseBirthDate string
	notify          string
	times           string
	categories      string
	daily           string
	set             map[string]bool
}

func (p *profileFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.name, "name", "", "full name")
	fs.StringVar(&p.phone, "phone", "", "phone number")
	fs.StringVar(&p.birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	fs.StringVar(&p.spouseName, "spouse-name", "", "spouse name")
	fs.StringVar(&p.spouseBirthDate, "spouse-birth-date", "", "spouse birth date (YYYY-MM-DD)")
	fs.StringVar(&p.notify, "notify", "", "notification channels, e.g. email=on,push=off")
	fs.StringVar(&p.times, "times", "", "preferred times, e.g. morning=on,night=off")
	fs.StringVar(&p.categories, "toggle-category", "", "categories of interest to toggle, e.g. finance,health")
	fs.StringVar(&p.daily, "daily", "", "maximum suggestions per day (1-20)")
}

// apply copies every flag that was given onto the form.
func (p *profileFlags) apply(form *forms.ProfileForm) error {
	if p.set["name"] {
		form.Name = p.name
	}
	if p.set["phone"] {
		form.Phone = p.phone
	}
	if p.set["birth-date"] {
		form.BirthDate = p.birthDate
	}
	if p.set["spouse-name"] {
		form.SpouseName = p.spouseName
	}
	if p.set["spouse-birth-date"] {
		form.SpouseBirthDate = p.spouseBirthDate
	}

	channels, err := parseToggles(p.notify)
	if err != nil {
		return err
	}
	for _, t := range channels {
		if err := form.SetNotification(forms.Channel(t.key), t.enabled); err != nil {
			return err
		}
	}
	windows, err := parseToggles(p.times)
	if err != nil {
		return err
	}
	for _, t := range windows {
		if err := form.SetPreferredTime(forms.TimeWindow(t.key), t.enabled); err != nil {
			return err
		}
	}
	for _, c := range strings.Split(p.categories, ",") {
		if c = strings.TrimSpace(c); c == "" {
			continue
		}
		if err := form.ToggleCategory(models.Category(c)); err != nil {
			return err
		}
	}
	if p.set["daily"] {
		n, err := strconv.Atoi(p.daily)
		if err != nil {
			return fmt.Errorf("invalid --daily %q: %w", p.daily, err)
		}
		if err := form.SetDailySuggestionLimit(n); err != nil {
			return err
		}
	}
	return nil
}

func cmdProfile(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("profile", a.out)
	var pf profileFlags
	pf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	pf.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { pf.set[f.Name] = true })

	user, err := a.requireUser()
	if err != nil {
		return err
	}
	if len(pf.set) == 0 {
		return view.RenderUser(a.out, user)
	}

	form := forms.NewProfileForm(user)
	if err := pf.apply(form); err != nil {
		return a.fail("Perfil", err.Error(), false)
	}
	res := a.auth.SaveProfile(ctx, form)
	if !res.OK {
		return a.fail("Perfil", res.Message, false)
	}
	fmt.Fprintln(a.out, "Perfil atualizado.")
	return view.RenderUser(a.out, res.User)
}
