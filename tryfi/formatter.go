package tryfi

import (
	"fmt"
	"strings"
	"time"

	"github.com/s0up4200/tryfi/model"
)

// ConsoleFormatter provides console output formatting for pets and bases
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatPetList formats a list of pets for console display
func (f *ConsoleFormatter) FormatPetList(pets []*model.Pet, options FormatOptions) string {
	if len(pets) == 0 {
		return "No pets found"
	}

	var sb strings.Builder

	sb.WriteString("\nPet")
	if len(pets) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(pets))

	for i, pet := range pets {
		isLast := i == len(pets)-1
		f.formatPet(&sb, pet, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatBaseList formats a list of bases for console display
func (f *ConsoleFormatter) FormatBaseList(bases []*model.Base, options FormatOptions) string {
	if len(bases) == 0 {
		return "No bases found"
	}

	var sb strings.Builder

	sb.WriteString("\nBase")
	if len(bases) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(bases))

	for i, base := range bases {
		isLast := i == len(bases)-1
		f.formatBase(&sb, base, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatPet formats a single pet with all details
func (f *ConsoleFormatter) FormatPet(pet *model.Pet) string {
	var sb strings.Builder
	sb.WriteString("\n")
	f.formatPet(&sb, pet, true, FormatOptions{ShowDetails: true})
	return sb.String()
}

// FormatBase formats a single base with all details
func (f *ConsoleFormatter) FormatBase(base *model.Base) string {
	var sb strings.Builder
	sb.WriteString("\n")
	f.formatBase(&sb, base, true, FormatOptions{ShowDetails: true})
	return sb.String()
}

// FormatSummary formats an account overview
func (f *ConsoleFormatter) FormatSummary(user *model.User, pets []*model.Pet, bases []*model.Base) string {
	var sb strings.Builder

	if user != nil {
		fmt.Fprintf(&sb, "\nAccount: %s", user.FullName())
		if user.Email != "" {
			fmt.Fprintf(&sb, " <%s>", user.Email)
		}
		sb.WriteString("\n")
	}

	var charging, resting, goalReached int
	var lowBattery []string
	for _, pet := range pets {
		if pet.IsCharging() {
			charging++
		}
		if pet.CurrentLocation != nil && pet.CurrentLocation.IsResting() {
			resting++
		}
		if pet.ActivityStats.Daily.GoalReached() {
			goalReached++
		}
		if pet.HasDevice() && !pet.IsCharging() && pet.BatteryPercent() < 20 {
			lowBattery = append(lowBattery, pet.Name)
		}
	}

	var online int
	for _, base := range bases {
		if base.Online {
			online++
		}
	}

	fmt.Fprintf(&sb, "├── Pets: %d (%d resting, %d charging, %d reached their step goal)\n",
		len(pets), resting, charging, goalReached)
	if len(lowBattery) > 0 {
		fmt.Fprintf(&sb, "│   Low battery: %s\n", strings.Join(lowBattery, ", "))
	}
	fmt.Fprintf(&sb, "╰── Bases: %d (%d online)\n", len(bases), online)

	return sb.String()
}

// formatPet formats a single pet entry
func (f *ConsoleFormatter) formatPet(sb *strings.Builder, pet *model.Pet, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %s (%s)\n", prefix, pet.Name, pet.PetID)

	indent := "│   "
	if isLast {
		indent = "    "
	}

	// Collar
	if pet.Device != nil {
		battery := fmt.Sprintf("Battery: %.0f%%", pet.Device.BatteryPercent)
		if pet.Device.IsCharging {
			battery += " (charging)"
		}
		fmt.Fprintf(sb, "%s%s\n", indent, battery)
	} else {
		fmt.Fprintf(sb, "%sNo device\n", indent)
	}

	// Location
	if loc := pet.CurrentLocation; loc != nil {
		fmt.Fprintf(sb, "%s%s\n", indent, formatLocation(loc))
	}

	// Activity
	daily := pet.ActivityStats.Daily
	steps := fmt.Sprintf("Steps today: %d", daily.Steps)
	if daily.StepGoal > 0 {
		steps += fmt.Sprintf("/%d (%.0f%%)", daily.StepGoal, float64(daily.Steps)/float64(daily.StepGoal)*100)
	}
	fmt.Fprintf(sb, "%s%s\n", indent, steps)

	if !options.ShowDetails {
		return
	}

	fmt.Fprintf(sb, "%sSteps: %d this week | %d this month\n",
		indent, pet.ActivityStats.Weekly.Steps, pet.ActivityStats.Monthly.Steps)

	rest := pet.RestStats.Daily
	if rest.Total() > 0 {
		fmt.Fprintf(sb, "%sRest today: %s sleep | %s nap\n", indent, formatDuration(rest.Sleep), formatDuration(rest.Nap))
	}

	var profile []string
	if pet.Breed != "" {
		profile = append(profile, pet.Breed)
	}
	if pet.Gender != "" {
		profile = append(profile, strings.ToLower(pet.Gender))
	}
	if pet.Weight > 0 {
		profile = append(profile, fmt.Sprintf("%.1f lbs", pet.Weight))
	}
	if pet.HomeCityState != "" {
		profile = append(profile, pet.HomeCityState)
	}
	if len(profile) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(profile, " | "))
	}

	if d := pet.Device; d != nil {
		device := fmt.Sprintf("Device: %s", d.DeviceID)
		if d.Mode != "" {
			device += fmt.Sprintf(" (mode: %s)", d.Mode)
		}
		if d.LedColor != "" {
			device += fmt.Sprintf(" LED: %s", d.LedColor)
		}
		fmt.Fprintf(sb, "%s%s\n", indent, device)

		if d.ConnectionState != "" {
			conn := fmt.Sprintf("Connection: %s", d.ConnectionState)
			if !d.ConnectionDate.IsZero() {
				conn += fmt.Sprintf(" (%s)", d.ConnectionDate.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(sb, "%s%s\n", indent, conn)
		}
	}

	if !pet.LastUpdated.IsZero() {
		fmt.Fprintf(sb, "%sLast update: %s\n", indent, pet.LastUpdated.Format("2006-01-02 15:04"))
	}
}

// formatBase formats a single base entry
func (f *ConsoleFormatter) formatBase(sb *strings.Builder, base *model.Base, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	status := "offline"
	if base.Online {
		status = "online"
	}
	fmt.Fprintf(sb, "%s── %s (%s) [%s]\n", prefix, base.Name, base.BaseID, status)

	if !options.ShowDetails {
		return
	}

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if base.OnlineQuality != "" {
		fmt.Fprintf(sb, "%sQuality: %s\n", indent, base.OnlineQuality)
	}
	if base.NetworkName != "" {
		fmt.Fprintf(sb, "%sNetwork: %s\n", indent, base.NetworkName)
	}
	if base.Latitude != 0 || base.Longitude != 0 {
		fmt.Fprintf(sb, "%sPosition: %.5f, %.5f\n", indent, base.Latitude, base.Longitude)
	}
	if !base.LastUpdated.IsZero() {
		fmt.Fprintf(sb, "%sLast update: %s\n", indent, base.LastUpdated.Format("2006-01-02 15:04"))
	}
}

func formatLocation(loc *model.Location) string {
	where := loc.AreaName
	if loc.PlaceName != "" {
		where = loc.PlaceName
	}

	var s string
	switch loc.ActivityType {
	case model.ActivityRest:
		s = "Resting"
	case model.ActivityWalk:
		s = "Walking"
	default:
		s = string(loc.ActivityType)
	}
	if where != "" {
		s += " at " + where
	}
	if !loc.StartTime.IsZero() {
		s += fmt.Sprintf(" since %s", loc.StartTime.Format("15:04"))
	}
	return s
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

var _ Formatter = (*ConsoleFormatter)(nil)
