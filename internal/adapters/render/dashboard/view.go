package dashboard

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/soiltwin/soiltwin-cli/internal/application"
	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

const barWidth = 24

type RenderOptions struct {
	Now        time.Time
	// StaleAfter flags the soil snapshot when no successful poll landed within it.
	StaleAfter time.Duration
	// Footer is appended verbatim, e.g. key bindings of the live view.
	Footer     string
}

// per-metric traffic light computed by the pipeline
var metricLevelKeys = map[string]string{
	"nitrogen":   "status_n",
	"phosphorus": "status_p",
	"potassium":  "status_k",
	"moisture":   "status_m",
}

func renderView(view application.DashboardView, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("SoilTwin Dashboard"),
		s.header.Render(headerLine(view, opts.Now)),
	}

	lines = append(lines, s.section.Render(renderSoil(view, opts, s)))
	if view.Profile != nil {
		lines = append(lines, s.section.Render(renderProfile(*view.Profile, s)))
	}
	if view.Weather != nil {
		lines = append(lines, s.section.Render(renderWeather(*view.Weather, s)))
	}
	lines = append(lines, s.section.Render(renderNotifications(view.Notifications, s)))

	if opts.Footer != "" {
		lines = append(lines, s.section.Render(s.empty.Render(opts.Footer)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(view application.DashboardView, now time.Time) string {
	who := "not signed in"
	if view.Authenticated {
		who = fmt.Sprintf("user: %s (%s)", view.Identity.Username, roleLabel(view.Identity.Role))
	}
	return who + " | " + pulseLabel(view.LastPulse, now)
}

func roleLabel(role domain.Role) string {
	if role == "" {
		return string(domain.RoleFarmer)
	}
	return string(role)
}

func pulseLabel(last, now time.Time) string {
	if last.IsZero() {
		return "waiting for first sync"
	}
	if now.IsZero() {
		return "last sync " + last.Format(domain.NotificationStampLayout)
	}

	ago := now.Sub(last).Round(time.Second)
	if ago < time.Second {
		return "synced just now"
	}
	return fmt.Sprintf("synced %s ago", ago)
}

func renderSoil(view application.DashboardView, opts RenderOptions, s styles) string {
	title := "Soil"
	if location := view.Soil.Text("location"); location != "" {
		title = fmt.Sprintf("Soil (%s)", location)
	}
	parts := []string{s.user.Render(title)}

	if !view.HasSoil {
		status := view.Soil.Status
		if status == "" {
			status = domain.SoilStatusNoData
		}
		parts = append(parts, s.empty.Render(status+". Waiting for the pipeline to report soil state."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	if score, ok := view.Soil.HealthScore(); ok {
		scoreStyle := lipgloss.NewStyle().Bold(true).Foreground(interpolateColor(float64(score), 0, 100))
		parts = append(parts, s.detail.Render("health score: ")+scoreStyle.Render(fmt.Sprintf("%d/100", score)))
	}

	for _, metric := range domain.SoilMetrics {
		parts = append(parts, metricLine(view.Soil, metric, s))
	}

	if opts.StaleAfter > 0 && !opts.Now.IsZero() && !view.SoilUpdatedAt.IsZero() &&
		opts.Now.Sub(view.SoilUpdatedAt) > opts.StaleAfter {
		parts = append(parts, s.warning.Render("[stale]"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func metricLine(reading domain.SoilReading, metric domain.Metric, s styles) string {
	label := s.metricKey.Render(metric.Label + ":")

	value, ok := reading.Value(metric.Key)
	if !ok {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.empty.Render("n/a"))
	}

	meta := formatValue(value, metric.Unit)
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		label,
		" ",
		renderProgressBar(value/metric.Max*100, barWidth, s),
		" ",
		s.metricMeta.Render(meta),
	)

	if key, ok := metricLevelKeys[metric.Key]; ok {
		if level := strings.ToLower(reading.Text(key)); level != "" {
			style, known := s.levels[level]
			if !known {
				style = s.empty
			}
			line += " " + style.Render("●")
		}
	}

	return line
}

func formatValue(value float64, unit string) string {
	formatted := fmt.Sprintf("%.1f", value)
	if unit == "" {
		return formatted
	}
	return formatted + " " + unit
}

func renderProfile(profile domain.Profile, s styles) string {
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = "Farm"
	}

	details := []string{}
	if profile.Crop != "" {
		details = append(details, "crop "+profile.Crop)
	}
	if profile.LandSize > 0 {
		details = append(details, fmt.Sprintf("%.1f acres", profile.LandSize))
	}
	if profile.Location != "" {
		details = append(details, profile.Location)
	}

	parts := []string{s.user.Render(name)}
	if len(details) > 0 {
		parts = append(parts, s.detail.Render(strings.Join(details, " | ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderWeather(weather domain.Weather, s styles) string {
	parts := []string{s.user.Render("Weather")}
	if !weather.Available() {
		parts = append(parts, s.empty.Render("weather service offline"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	line := fmt.Sprintf("%.1f°C", *weather.Temp)
	if weather.Humidity != nil {
		line += fmt.Sprintf(" | humidity %.0f%%", *weather.Humidity)
	}
	if weather.Rain > 0 {
		line += fmt.Sprintf(" | rain %.1f mm", weather.Rain)
	}
	if weather.Description != "" {
		line += " | " + weather.Description
	}
	parts = append(parts, s.detail.Render(line))

	if weather.Impact != "" {
		parts = append(parts, s.metricMeta.Render(weather.Impact))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderNotifications lists newest first.
func renderNotifications(entries []domain.Notification, s styles) string {
	parts := []string{s.user.Render("Activity")}
	if len(entries) == 0 {
		parts = append(parts, s.empty.Render("No recent activity."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	for _, entry := range slices.Backward(entries) {
		style, ok := s.categories[string(entry.Category)]
		if !ok {
			style = s.detail
		}
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.stamp.Render(entry.Stamp),
			" ",
			style.Render(entry.Message),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	fillSegment := s.barFill.Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", width-filled))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	colorCode := int(240 + 15*normalized)
	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
