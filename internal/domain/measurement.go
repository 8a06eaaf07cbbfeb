package domain

type Protocol string

const (
	ProtocolIPv4 Protocol = "ipv4"
	ProtocolIPv6 Protocol = "ipv6"
	ProtocolNone Protocol = "" // Ни один протокол не активен
)

// Label — подпись протокола для вкладок и текста страницы.
func (p Protocol) Label() string {
	switch p {
	case ProtocolIPv4:
		return "IPv4"
	case ProtocolIPv6:
		return "IPv6"
	default:
		return ""
	}
}

// DataCenterUnknown — значение, которое тест скорости пишет, если дата-центр не определён.
const DataCenterUnknown = "N/A"

// MeasurementRecord — одно измерение для одного IP из сохранённого блоба.
type MeasurementRecord struct {
	Address  string `json:"address"`
	Sent     string `json:"sent"`     // Отправлено ping-пакетов (на странице не используется)
	Received string `json:"received"` // Получено ping-пакетов (на странице не используется)

	// Числовые поля разбираются «как получится»: при ошибке — NaN
	LossRate          float64 `json:"-"` // Потери, %
	LatencyMs         float64 `json:"-"`
	DownloadSpeedMBps float64 `json:"-"`

	DataCenter string `json:"data_center"` // Код локации или DataCenterUnknown

	// Исходный текст числовых полей: страница показывает его как есть
	Raw RawMetrics `json:"raw"`
}

type RawMetrics struct {
	LossRate  string `json:"loss_rate"`
	LatencyMs string `json:"latency_ms"`
	Speed     string `json:"download_speed_mbps"`
}
