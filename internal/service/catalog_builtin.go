package service

import "github.com/noah-isme/bw-lms-api/internal/models"

var allLearnerRoles = models.NewRoleSet(models.RoleAdmin, models.RoleInstructor, models.RoleCS, models.RoleIT)

var builtinModules = []models.ModuleDefinition{
	{
		ID:            models.IntroductionModuleID,
		Title:         "Welcome to Bright Waves",
		Description:   "Start here before any other module.",
		Roles:         allLearnerRoles,
		Kind:          models.KindIntro,
		RequiredFirst: true,
		Content: `Congratulations on commencing your employment at Bright Waves Swim School!

This Employee Manual details the processes, expectations, and guidelines that we follow in our workplace.

As you make your way through the manual, you can click on the Bright Waves logo at any time to go back to the menu.

Should you have any questions, or require further clarification, please speak to your site manager.

We are excited to have you as part of the team!`,
	},
	{
		ID:          "vision",
		Title:       "Vision & Mission",
		Description: "Why we teach and what every lesson works towards.",
		Roles:       models.NewRoleSet(models.RoleInstructor, models.RoleCS),
		Kind:        models.KindStandard,
		Content:     "Our mission is creating confident swimmers. Every lesson puts safety first and builds confidence in and around the water.",
		Quiz: &models.Quiz{Questions: []models.Question{
			{
				Prompt:          "What is our mission focused on?",
				Answers:         []models.Answer{{ID: "profit", Text: "Profit"}, {ID: "confident", Text: "Creating confident swimmers"}, {ID: "competition", Text: "Competition"}},
				CorrectAnswerID: "confident",
			},
			{
				Prompt:          "What comes first in every lesson?",
				Answers:         []models.Answer{{ID: "safety", Text: "Safety"}, {ID: "speed", Text: "Speed"}, {ID: "medals", Text: "Medals"}},
				CorrectAnswerID: "safety",
			},
			{
				Prompt:          "What should every swimmer leave with?",
				Answers:         []models.Answer{{ID: "trophy", Text: "A trophy"}, {ID: "goggles", Text: "New goggles"}, {ID: "confidence", Text: "Confidence in and around the water"}},
				CorrectAnswerID: "confidence",
			},
		}},
	},
	{
		ID:          "attendance",
		Title:       "Attendance & Absence",
		Description: "Attendance expectations and how to report an absence.",
		Roles:       models.NewRoleSet(models.RoleInstructor, models.RoleCS),
		Kind:        models.KindStandard,
		Content:     "Maintain 90% attendance. Call manager 2 hours before shift if unwell.",
		Quiz: &models.Quiz{Questions: []models.Question{
			{
				Prompt:          "How many hours before shift must you call if sick?",
				Answers:         []models.Answer{{ID: "30m", Text: "30 minutes"}, {ID: "1h", Text: "1 hour"}, {ID: "2h", Text: "2 hours"}},
				CorrectAnswerID: "2h",
			},
		}},
	},
	{
		ID:          "management",
		Title:       "Management Responsibilities",
		Description: "What site managers monitor and report on.",
		Roles:       models.NewRoleSet(models.RoleAdmin),
		Kind:        models.KindStandard,
		Content:     "Manager overview: monitoring attendance, availability, and compliance.",
		Quiz: &models.Quiz{Questions: []models.Question{
			{
				Prompt:          "What should be monitored quarterly?",
				Answers:         []models.Answer{{ID: "attendance", Text: "Attendance"}, {ID: "uniform", Text: "Uniform"}, {ID: "carparks", Text: "Car parks"}},
				CorrectAnswerID: "attendance",
			},
		}},
	},
}

// BuiltinModules returns a copy of the compiled-in catalog.
func BuiltinModules() []models.ModuleDefinition {
	out := make([]models.ModuleDefinition, len(builtinModules))
	for i, m := range builtinModules {
		out[i] = m.Clone()
	}
	return out
}

// IsBuiltinModule reports whether id belongs to a compiled-in module.
func IsBuiltinModule(id string) bool {
	for _, m := range builtinModules {
		if m.ID == id {
			return true
		}
	}
	return false
}
