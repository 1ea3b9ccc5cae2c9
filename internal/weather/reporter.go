package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hychen-tw/mombot/pkg/logging"
)

const (
	msgPlaceNotFound = "我查不到這個地方耶，換個名字再試試～"
	msgUnavailable   = "我查不到這個城市的天氣喔，換一個再試試～"
	msgFault         = "查詢天氣出錯了：%v"
)

// locator is the provider surface the Reporter needs.
type locator interface {
	Geocode(ctx context.Context, query string) (*Place, error)
	Current(ctx context.Context, lat, lon float64) (*Conditions, error)
}

// Reporter turns free-text location input into a finished report. Every
// failure mode comes back as user-facing text; nothing escapes to the caller.
type Reporter struct {
	provider locator
	logger   *logging.Logger
}

// NewReporter wraps a provider client.
func NewReporter(provider locator, logger *logging.Logger) *Reporter {
	if provider == nil {
		panic("weather: provider cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Reporter{provider: provider, logger: logger}
}

// Lookup geocodes the location, fetches conditions, and renders the report.
func (r *Reporter) Lookup(ctx context.Context, location string, now time.Time) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic during weather lookup", "location", location, "panic", rec)
			text = fmt.Sprintf(msgFault, rec)
		}
	}()

	place, err := r.provider.Geocode(ctx, location)
	if err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			return msgPlaceNotFound
		}
		r.logger.Warn("geocoding failed", "location", location, "error", err)
		return fmt.Sprintf(msgFault, err)
	}

	cond, err := r.provider.Current(ctx, place.Lat, place.Lon)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return msgUnavailable
		}
		r.logger.Warn("conditions fetch failed", "place", place.Name, "error", err)
		return fmt.Sprintf(msgFault, err)
	}

	return BuildReport(place.Name, cond, now)
}
