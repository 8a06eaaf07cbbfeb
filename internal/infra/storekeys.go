package infra

// Имена ключей фиксированы внешним тестом скорости, который их пишет.
const (
	StoreKeyIPv4     = "ipv4"
	StoreKeyIPv6     = "ipv6"
	StoreKeyIPv4Time = "ipv4time"
	StoreKeyIPv6Time = "ipv6time"
)
