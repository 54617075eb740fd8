package enrichment

import (
	ua "github.com/mileusna/useragent"
)

// Device classes reported in analytics.
const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceBot     = "Bot"
	DeviceUnknown = "Unknown"
)

// DeviceDetector classifies User-Agent headers.
type DeviceDetector struct{}

func NewDeviceDetector() *DeviceDetector {
	return &DeviceDetector{}
}

// DetectDevice returns one of the Device* classes. Bots are checked first so
// crawlers that also claim a mobile platform are reported as bots.
func (d *DeviceDetector) DetectDevice(userAgent string) string {
	if userAgent == "" {
		return DeviceUnknown
	}

	parsed := ua.Parse(userAgent)
	switch {
	case parsed.Bot:
		return DeviceBot
	case parsed.Tablet:
		return DeviceTablet
	case parsed.Mobile:
		return DeviceMobile
	case parsed.Desktop:
		return DeviceDesktop
	default:
		return DeviceUnknown
	}
}
