package weather

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// taipeiTime builds an instant whose wall clock in Asia/Taipei matches hour.
func taipeiTime(t *testing.T, hour int) time.Time {
	t.Helper()
	return time.Date(2025, 5, 11, hour, 30, 0, 0, taipei)
}

func TestGreetingBands(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, "早安呀媽～"},
		{10, "早安呀媽～"},
		{11, "午安呀媽～"},
		{16, "午安呀媽～"},
		{17, "晚安呀媽～"},
		{21, "晚安呀媽～"},
		{22, "媽～夜深了，還沒睡嗎？"},
		{23, "媽～夜深了，還沒睡嗎？"},
		{0, "媽～夜深了，還沒睡嗎？"},
		{4, "媽～夜深了，還沒睡嗎？"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Greeting(taipeiTime(t, tt.hour)), "hour %d", tt.hour)
	}
}

func TestTips(t *testing.T) {
	tests := []struct {
		name string
		cond Conditions
		want []string
	}{
		{
			name: "cold weather",
			cond: Conditions{TempMin: 12, Description: "多雲"},
			want: []string{"今天有點涼，記得多帶件外套喔 🧥"},
		},
		{
			name: "rain",
			cond: Conditions{TempMin: 20, Description: "小雨"},
			want: []string{"可能會下雨，記得帶傘喔 ☔️"},
		},
		{
			name: "clear sky",
			cond: Conditions{TempMin: 22, Description: "晴天"},
			want: []string{"天氣不錯，很適合出門走走 ☀️"},
		},
		{
			name: "cold and rainy stacks both",
			cond: Conditions{TempMin: 8, Description: "陣雨"},
			want: []string{
				"今天有點涼，記得多帶件外套喔 🧥",
				"可能會下雨，記得帶傘喔 ☔️",
			},
		},
		{
			name: "nothing triggered",
			cond: Conditions{TempMin: 20, Description: "多雲"},
			want: []string{"祝妳有個順心的一天 🌸"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tips(&tt.cond))
		})
	}
}

func TestRoundDegrees(t *testing.T) {
	assert.Equal(t, 16, roundDegrees(15.6))
	assert.Equal(t, 15, roundDegrees(15.4))
	assert.Equal(t, 16, roundDegrees(15.5))
	assert.Equal(t, -3, roundDegrees(-2.7))
}

func TestBuildReport(t *testing.T) {
	cond := &Conditions{
		Description: "小雨",
		TempMin:     15.6,
		TempMax:     21.2,
		FeelsLike:   17.8,
		WindSpeed:   3.5,
	}
	report := BuildReport("台北", cond, taipeiTime(t, 9))

	assert.True(t, strings.HasPrefix(report, "早安呀媽～"))
	assert.Contains(t, report, "台北今天是小雨")
	assert.Contains(t, report, "16～21°C")
	assert.Contains(t, report, "體感溫度 18°C")
	assert.Contains(t, report, "風速 3.5 m/s")
	assert.Contains(t, report, "可能會下雨，記得帶傘喔 ☔️")
	assert.Contains(t, report, reportClosing)
	assert.NotContains(t, report, "順心的一天", "generic line must not appear when a tip triggered")
}
