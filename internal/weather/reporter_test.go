package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	place      *Place
	geocodeErr error
	cond       *Conditions
	currentErr error
}

func (f *fakeProvider) Geocode(context.Context, string) (*Place, error) {
	return f.place, f.geocodeErr
}

func (f *fakeProvider) Current(context.Context, float64, float64) (*Conditions, error) {
	return f.cond, f.currentErr
}

func TestLookupSuccess(t *testing.T) {
	reporter := NewReporter(&fakeProvider{
		place: &Place{Name: "Taipei", Lat: 25.03, Lon: 121.56},
		cond:  &Conditions{Description: "晴天", TempMin: 22, TempMax: 28, FeelsLike: 25, WindSpeed: 2},
	}, nil)

	out := reporter.Lookup(context.Background(), "台北", time.Date(2025, 5, 11, 9, 0, 0, 0, taipei))
	assert.Contains(t, out, "Taipei今天是晴天")
	assert.Contains(t, out, "很適合出門走走")
}

func TestLookupPlaceNotFound(t *testing.T) {
	reporter := NewReporter(&fakeProvider{geocodeErr: ErrPlaceNotFound}, nil)

	out := reporter.Lookup(context.Background(), "某個小村", time.Now())
	assert.Equal(t, msgPlaceNotFound, out)
}

func TestLookupProviderUnavailable(t *testing.T) {
	reporter := NewReporter(&fakeProvider{
		place:      &Place{Name: "Taipei"},
		currentErr: ErrUnavailable,
	}, nil)

	out := reporter.Lookup(context.Background(), "台北", time.Now())
	assert.Equal(t, msgUnavailable, out)
}

func TestLookupUnexpectedFaultBecomesText(t *testing.T) {
	reporter := NewReporter(&fakeProvider{geocodeErr: errors.New("dns exploded")}, nil)

	out := reporter.Lookup(context.Background(), "台北", time.Now())
	assert.Contains(t, out, "查詢天氣出錯了")
	assert.Contains(t, out, "dns exploded")
}

type panickyProvider struct{}

func (panickyProvider) Geocode(context.Context, string) (*Place, error) {
	return &Place{Name: "Taipei"}, nil
}

func (panickyProvider) Current(context.Context, float64, float64) (*Conditions, error) {
	panic("nil map write")
}

func TestLookupRecoversFromPanic(t *testing.T) {
	reporter := NewReporter(panickyProvider{}, nil)

	out := reporter.Lookup(context.Background(), "台北", time.Now())
	assert.Contains(t, out, "查詢天氣出錯了")
	assert.Contains(t, out, "nil map write")
}
