package measure

import "github.com/xela07ax/bestcdn-board/internal/domain"

// Пороги качества
const (
	MaxLossRate     = 5.0  // %, строго больше — плохо
	HighSpeedMBps   = 10.0 // строго больше — high
	MediumSpeedMBps = 5.0  // строго больше — medium
)

type Classification struct {
	DataCenter domain.Badge `json:"data_center"`
	LossRate   domain.Badge `json:"loss_rate"`
	Speed      domain.Tier  `json:"speed"`
}

// Classify вычисляет все оценки записи. Запись не изменяется.
func Classify(r domain.MeasurementRecord) Classification {
	return Classification{
		DataCenter: DataCenterBadge(r.DataCenter),
		LossRate:   LossBadge(r.LossRate),
		Speed:      SpeedTier(r.DownloadSpeedMBps),
	}
}

func DataCenterBadge(dc string) domain.Badge {
	if dc == domain.DataCenterUnknown {
		return domain.BadgeError
	}
	return domain.BadgeSuccess
}

func LossBadge(loss float64) domain.Badge {
	if loss > MaxLossRate {
		return domain.BadgeError
	}
	return domain.BadgeSuccess
}

func SpeedTier(speed float64) domain.Tier {
	switch {
	case speed > HighSpeedMBps:
		return domain.TierHigh
	case speed > MediumSpeedMBps:
		return domain.TierMedium
	default:
		return domain.TierLow
	}
}
