package routing

import (
	"math"
	"strings"

	"p9e.in/civicgrid/models"
)

// Priority keyword tiers, scanned in strict precedence order: the first
// tier with any match wins. A description containing both an URGENT and a
// LOW keyword resolves to URGENT. This ordering is deliberate.
var (
	urgentKeywords = []string{"emergency", "dangerous", "urgent", "safety", "flooding"}
	highKeywords   = []string{"broken", "not working", "major", "significant"}
	lowKeywords    = []string{"minor", "small", "cosmetic"}
)

// ClassifyPriority derives an intake priority from the free-text
// description. It always returns a value; an unmatched description is
// MEDIUM. EMERGENCY is never produced here, only by manual escalation.
func ClassifyPriority(description string) models.Priority {
	desc := strings.ToLower(description)

	for _, kw := range urgentKeywords {
		if strings.Contains(desc, kw) {
			return models.PriorityUrgent
		}
	}
	for _, kw := range highKeywords {
		if strings.Contains(desc, kw) {
			return models.PriorityHigh
		}
	}
	for _, kw := range lowKeywords {
		if strings.Contains(desc, kw) {
			return models.PriorityLow
		}
	}
	return models.PriorityMedium
}

// DepartmentCodeFor maps every category to its responsible department
// code. The switch is exhaustive over the Category enum so that adding a
// category without routing it is caught in review, and the trailing
// return covers only values that never passed Category.Valid.
func DepartmentCodeFor(category models.Category) string {
	switch category {
	case models.CategoryPothole:
		return "PWD"
	case models.CategoryStreetlight:
		return "ELE"
	case models.CategoryTrash:
		return "SAN"
	case models.CategoryGraffiti:
		return "PAR"
	case models.CategoryTrafficSignal:
		return "TRA"
	case models.CategoryWaterLeak:
		return "WAT"
	case models.CategoryNoiseComplaint:
		return "COD"
	case models.CategoryParkMaintenance:
		return "PAR"
	case models.CategoryRoadDamage:
		return "PWD"
	case models.CategoryDrainage:
		return "WAT"
	case models.CategoryIllegalParking:
		return "TRA"
	case models.CategoryTreeFalling:
		return "PAR"
	case models.CategoryAnimalControl:
		return "GEN"
	case models.CategoryBuildingViolation:
		return "COD"
	case models.CategoryOther:
		return "GEN"
	}
	return "GEN"
}

// baseResolutionDays is the fixed per-category baseline before the
// priority multiplier is applied.
func baseResolutionDays(category models.Category) int {
	switch category {
	case models.CategoryPothole:
		return 7
	case models.CategoryStreetlight:
		return 3
	case models.CategoryTrash:
		return 1
	case models.CategoryGraffiti:
		return 5
	case models.CategoryTrafficSignal:
		return 2
	case models.CategoryWaterLeak:
		return 1
	case models.CategoryNoiseComplaint:
		return 3
	case models.CategoryParkMaintenance:
		return 10
	case models.CategoryRoadDamage:
		return 7
	case models.CategoryDrainage:
		return 2
	case models.CategoryIllegalParking:
		return 1
	case models.CategoryTreeFalling:
		return 2
	case models.CategoryAnimalControl:
		return 2
	case models.CategoryBuildingViolation:
		return 14
	case models.CategoryOther:
		return 5
	}
	return 5
}

// priorityMultiplier scales the baseline down with urgency. EMERGENCY
// shares the URGENT factor: it is a manual tier, not a faster one.
func priorityMultiplier(priority models.Priority) float64 {
	switch priority {
	case models.PriorityUrgent:
		return 0.25
	case models.PriorityEmergency:
		return 0.25
	case models.PriorityHigh:
		return 0.5
	case models.PriorityMedium:
		return 1
	case models.PriorityLow:
		return 2
	}
	return 1
}

// EstimateResolutionDays computes ceil(baseDays * multiplier). The result
// is always at least 1. This is informational metadata, not an SLA.
func EstimateResolutionDays(category models.Category, priority models.Priority) int {
	days := int(math.Ceil(float64(baseResolutionDays(category)) * priorityMultiplier(priority)))
	if days < 1 {
		days = 1
	}
	return days
}
