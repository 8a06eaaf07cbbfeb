package domain

// UnknownTime — заглушка, если метка времени обновления отсутствует в хранилище.
const UnknownTime = "unknown"

// Snapshot — четыре сырых значения из KV-хранилища. Отсутствующий ключ = "".
type Snapshot struct {
	IPv4     string
	IPv6     string
	IPv4Time string
	IPv6Time string
}

// Blob возвращает сериализованные данные протокола.
func (s Snapshot) Blob(p Protocol) string {
	if p == ProtocolIPv6 {
		return s.IPv6
	}
	return s.IPv4
}

// UpdatedAt возвращает метку времени протокола или UnknownTime.
func (s Snapshot) UpdatedAt(p Protocol) string {
	t := s.IPv4Time
	if p == ProtocolIPv6 {
		t = s.IPv6Time
	}
	if t == "" {
		return UnknownTime
	}
	return t
}

// ProtocolDataset — результаты одного протокола.
// Enabled зависит только от наличия блоба, а не от количества разобранных строк:
// блоб из одних битых строк даёт Enabled=true и пустой Records.
type ProtocolDataset struct {
	Protocol    Protocol            `json:"protocol"`
	Enabled     bool                `json:"enabled"`
	Records     []MeasurementRecord `json:"records"`
	LastUpdated string              `json:"last_updated"`
}
