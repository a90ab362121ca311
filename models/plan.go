package models

import "time"

// PlanType identifies a subscription tier.
type PlanType string

const (
	PlanTrial     PlanType = "TRIAL"
	PlanMonthly   PlanType = "MONTHLY"
	PlanQuarterly PlanType = "QUARTERLY"
	PlanYearly    PlanType = "YEARLY"
)

// Plan describes one subscription tier. Price is in centavos.
type Plan struct {
	Label       string `json:"label"`
	Price       int    `json:"price"`
	Days        int    `json:"days"`
	Description string `json:"description"`
}

// PlanCatalog is the fixed tier table.
var PlanCatalog = map[PlanType]Plan{
	PlanTrial:     {Label: "7-day trial", Price: 0, Days: 7, Description: "Free evaluation plan for 7 days."},
	PlanMonthly:   {Label: "Monthly", Price: 20000, Days: 30, Description: "Access for 30 days."},
	PlanQuarterly: {Label: "3 months", Price: 50000, Days: 90, Description: "Access for 90 days."},
	PlanYearly:    {Label: "Yearly", Price: 120000, Days: 365, Description: "Access for 365 days."},
}

// ResolvePlan looks up a tier; ok is false for unknown types.
func ResolvePlan(t PlanType) (Plan, bool) {
	p, ok := PlanCatalog[t]
	return p, ok
}

// CalcPlanWindow computes the active window for a plan purchased at now.
func CalcPlanWindow(t PlanType, now time.Time) (startsAt, expiresAt time.Time, price int, ok bool) {
	plan, ok := ResolvePlan(t)
	if !ok {
		return time.Time{}, time.Time{}, 0, false
	}
	return now, now.AddDate(0, 0, plan.Days), plan.Price, true
}

// IsPlanActive reports whether the expiry instant still covers now.
func IsPlanActive(expiresAt time.Time, now time.Time) bool {
	if expiresAt.IsZero() {
		return false
	}
	return !expiresAt.Before(now)
}
