package coaching

import (
	"fmt"
	"strings"

	"uphera/internal/domain/user"
	"uphera/internal/infrastructure/llm"
)

const basePrompt = `You are Ada, a career coach and mentor for women graduates of tech bootcamps.
Be warm, encouraging and practical. Give concrete next steps the user can act on this week.
Answer in the language the user writes in.`

var contextPrompts = map[string]string{
	"career":    "Focus on career development, job search strategy and professional growth.",
	"interview": "Focus on interview preparation, self-introduction and technical interview questions.",
	"technical": "Focus on programming, technical skills and technology trends.",
	"network":   "Focus on networking, community involvement and professional relationships.",
	"profile":   "Focus on profile optimisation, CV writing and personal branding.",
}

const (
	ModeAuto  = "auto"
	ModeShort = "short"
	ModeLong  = "long"

	// ModeDetailed is accepted as an older name for ModeLong.
	ModeDetailed = "detailed"
)

// InsightCategories lists the sections the insights prompt asks for, in order.
var InsightCategories = []string{
	"Career Trajectory",
	"Technical Skills",
	"Market Intelligence",
	"Personal Development",
	"Networking",
	"Interview Strategy",
	"Long-term Planning",
	"Work Environment",
	"Industry Advice",
	"Actionable Steps",
}

const insightsMaxTokens = 1024

// NormalizeContext maps unknown or blank contexts to "general".
func NormalizeContext(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if _, ok := contextPrompts[c]; ok {
		return c
	}
	return "general"
}

// NormalizeMode maps "detailed" to long and anything unknown to auto.
func NormalizeMode(m string) string {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case ModeShort:
		return ModeShort
	case ModeLong, ModeDetailed:
		return ModeLong
	default:
		return ModeAuto
	}
}

// GenerationOptions caps the reply length per mode. Auto leaves the model defaults.
func GenerationOptions(mode string) llm.Options {
	switch NormalizeMode(mode) {
	case ModeShort:
		return llm.Options{MaxOutputTokens: 128, MinTemperature: 0.5, MaxTemperature: 0.7}
	case ModeLong:
		return llm.Options{MaxOutputTokens: 512, MinTemperature: 0.7, MaxTemperature: 0.9}
	default:
		return llm.Options{}
	}
}

func SystemPrompt(context, mode string) string {
	p := basePrompt
	if extra, ok := contextPrompts[NormalizeContext(context)]; ok {
		p += "\n\n" + extra
	}
	switch NormalizeMode(mode) {
	case ModeShort:
		p += "\n\nKeep the answer short and clear, at most five to seven sentences. Use bullet points if needed."
	case ModeLong:
		p += "\n\nGive a thorough answer of roughly 200 to 300 words with concrete examples and actionable points."
	}
	return p
}

// insightsPrompt builds the user message for a profile-driven insights report.
func insightsPrompt(p user.Profile) string {
	var b strings.Builder
	b.WriteString("Write a personalised career insights report for this bootcamp graduate.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", orUnknown(p.FullName))
	fmt.Fprintf(&b, "Skills: %s\n", orUnknown(strings.Join(p.Skills, ", ")))
	fmt.Fprintf(&b, "Experience level: %s\n", orUnknown(p.ExperienceLevel))
	fmt.Fprintf(&b, "Location: %s\n", orUnknown(p.Location))
	fmt.Fprintf(&b, "Program: %s\n\n", orUnknown(p.Program))
	b.WriteString("Use one numbered section per topic, with two or three concrete recommendations each:\n")
	for i, c := range InsightCategories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not provided"
	}
	return strings.TrimSpace(s)
}
