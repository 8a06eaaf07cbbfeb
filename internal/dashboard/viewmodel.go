package dashboard

import (
	"github.com/xela07ax/bestcdn-board/internal/domain"
	"github.com/xela07ax/bestcdn-board/internal/measure"
)

// Settings — неизменяемая конфигурация страницы, задаётся при деплое.
type Settings struct {
	Provider             string `json:"provider"`               // Имя CDN-провайдера
	Domain               string `json:"domain"`                 // Публичный CNAME-домен
	Wildcard             bool   `json:"wildcard"`               // Поддерживаются ли *.domain
	CheckIntervalMinutes int    `json:"check_interval_minutes"` // Период проверки
	RefreshIntervalHours int    `json:"refresh_interval_hours"` // Принудительное обновление
	SourceURL            string `json:"source_url,omitempty"`   // Ссылка на проект теста скорости
}

// ViewModel создаётся на каждый запрос и после Build не меняется.
type ViewModel struct {
	Settings   Settings        `json:"settings"`
	IPv4       ProtocolPane    `json:"ipv4"`
	IPv6       ProtocolPane    `json:"ipv6"`
	DefaultTab domain.Protocol `json:"default_tab"` // ProtocolNone, если данных нет совсем
	UpdateTime string          `json:"update_time"` // Время активной по умолчанию вкладки
}

type ProtocolPane struct {
	domain.ProtocolDataset
	Label   string `json:"label"`
	Rows    []Row  `json:"rows"`
	Dropped int    `json:"dropped_rows"` // Строки с неверным числом полей
}

// Row — запись с готовыми оценками для шаблона.
type Row struct {
	Address         string       `json:"address"`
	DataCenter      string       `json:"data_center"`
	DataCenterBadge domain.Badge `json:"data_center_badge"`
	LossRate        string       `json:"loss_rate"`
	LossBadge       domain.Badge `json:"loss_badge"`
	Latency         string       `json:"latency_ms"`
	Speed           string       `json:"download_speed_mbps"`
	SpeedTier       domain.Tier  `json:"speed_tier"`
}

// Build собирает модель страницы из четырёх значений хранилища.
func Build(snap domain.Snapshot, settings Settings) ViewModel {
	vm := ViewModel{
		Settings: settings,
		IPv4:     buildPane(domain.ProtocolIPv4, snap),
		IPv6:     buildPane(domain.ProtocolIPv6, snap),
	}

	switch {
	case vm.IPv4.Enabled:
		vm.DefaultTab = domain.ProtocolIPv4
	case vm.IPv6.Enabled:
		vm.DefaultTab = domain.ProtocolIPv6
	default:
		vm.DefaultTab = domain.ProtocolNone
	}

	vm.UpdateTime = domain.UnknownTime
	if vm.DefaultTab != domain.ProtocolNone {
		vm.UpdateTime = snap.UpdatedAt(vm.DefaultTab)
	}

	return vm
}

func buildPane(p domain.Protocol, snap domain.Snapshot) ProtocolPane {
	blob := snap.Blob(p)
	records, dropped := measure.Decode(blob)

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		c := measure.Classify(r)
		rows = append(rows, Row{
			Address:         r.Address,
			DataCenter:      r.DataCenter,
			DataCenterBadge: c.DataCenter,
			LossRate:        r.Raw.LossRate,
			LossBadge:       c.LossRate,
			Latency:         r.Raw.LatencyMs,
			Speed:           r.Raw.Speed,
			SpeedTier:       c.Speed,
		})
	}

	return ProtocolPane{
		ProtocolDataset: domain.ProtocolDataset{
			Protocol:    p,
			Enabled:     blob != "",
			Records:     records,
			LastUpdated: snap.UpdatedAt(p),
		},
		Label:   p.Label(),
		Rows:    rows,
		Dropped: dropped,
	}
}

// Empty — протокол включён, но ни одна строка не прошла разбор.
func (p ProtocolPane) Empty() bool {
	return p.Enabled && len(p.Rows) == 0
}

// Panes возвращает включённые протоколы в порядке IPv4, IPv6.
func (vm ViewModel) Panes() []ProtocolPane {
	panes := make([]ProtocolPane, 0, 2)
	if vm.IPv4.Enabled {
		panes = append(panes, vm.IPv4)
	}
	if vm.IPv6.Enabled {
		panes = append(panes, vm.IPv6)
	}
	return panes
}

// ShowTabs — переключатель нужен, только если включены оба протокола.
func (vm ViewModel) ShowTabs() bool {
	return vm.IPv4.Enabled && vm.IPv6.Enabled
}

// SupportedProtocols — фраза для блока «как пользоваться».
func (vm ViewModel) SupportedProtocols() string {
	switch {
	case vm.IPv4.Enabled && vm.IPv6.Enabled:
		return "IPv4 and IPv6"
	case vm.IPv4.Enabled:
		return "IPv4"
	case vm.IPv6.Enabled:
		return "IPv6"
	default:
		return "no protocol yet"
	}
}
