package domain

// Badge — качественная оценка метрики (зелёный/красный бейдж).
type Badge string

const (
	BadgeSuccess Badge = "success"
	BadgeError   Badge = "error"
)

// Tier — трёхуровневая оценка скорости загрузки.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)
