package models

// Default categories assigned when no rule matches
const (
	CategoryOther  = "Autres"
	CategoryIncome = "Revenus"
)

// Localized transaction type labels used in exports
const (
	LabelIncome  = "Revenu"
	LabelExpense = "Dépense"
)

// Notification kinds
const (
	NotificationAnomaly     = "anomaly"
	NotificationBudgetAlert = "budget_alert"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
)
