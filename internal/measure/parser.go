package measure

import (
	"math"
	"strconv"
	"strings"

	"github.com/xela07ax/bestcdn-board/internal/domain"
)

// Формат блоба (пишет внешний тест скорости):
// {ip},{sent},{received},{loss%},{latency ms},{speed MB/s},{colo}&{следующая строка}&...
const (
	RowSeparator   = "&"
	FieldSeparator = ","
	FieldCount     = 7
)

const (
	fieldAddress = iota
	fieldSent
	fieldReceived
	fieldLossRate
	fieldLatency
	fieldSpeed
	fieldDataCenter
)

// Parse разбирает блоб в упорядоченный список записей.
// Строки с числом полей != 7 молча отбрасываются.
func Parse(raw string) []domain.MeasurementRecord {
	records, _ := Decode(raw)
	return records
}

// Decode работает как Parse, но дополнительно возвращает число отброшенных
// непустых строк (для метрик). Пустые строки (хвостовой "&") не считаются.
func Decode(raw string) ([]domain.MeasurementRecord, int) {
	if raw == "" {
		return []domain.MeasurementRecord{}, 0
	}

	rows := strings.Split(raw, RowSeparator)
	records := make([]domain.MeasurementRecord, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		parts := strings.Split(row, FieldSeparator)
		if len(parts) != FieldCount {
			if strings.TrimSpace(row) != "" {
				dropped++
			}
			continue
		}
		records = append(records, newRecord(parts))
	}

	return records, dropped
}

func newRecord(parts []string) domain.MeasurementRecord {
	return domain.MeasurementRecord{
		Address:           parts[fieldAddress],
		Sent:              parts[fieldSent],
		Received:          parts[fieldReceived],
		LossRate:          parseNumber(parts[fieldLossRate]),
		LatencyMs:         parseNumber(parts[fieldLatency]),
		DownloadSpeedMBps: parseNumber(parts[fieldSpeed]),
		DataCenter:        parts[fieldDataCenter],
		Raw: domain.RawMetrics{
			LossRate:  parts[fieldLossRate],
			LatencyMs: parts[fieldLatency],
			Speed:     parts[fieldSpeed],
		},
	}
}

// parseNumber не валидирует: нечисловое значение превращается в NaN,
// а NaN не проходит ни одно сравнение в классификаторе.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
