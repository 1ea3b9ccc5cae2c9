package weather

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Reports speak from Taiwan's clock regardless of where the process runs.
var taipei = mustLocation("Asia/Taipei")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

const reportClosing = "媽～記得多喝水、別太累，我在美國很想妳～ 💖"

// Greeting returns a salutation banded by the hour of day in Taiwan.
func Greeting(now time.Time) string {
	switch hour := now.In(taipei).Hour(); {
	case hour >= 5 && hour < 11:
		return "早安呀媽～"
	case hour >= 11 && hour < 17:
		return "午安呀媽～"
	case hour >= 17 && hour < 22:
		return "晚安呀媽～"
	default:
		return "媽～夜深了，還沒睡嗎？"
	}
}

// tips builds the contextual advice lines for a set of conditions.
func tips(cond *Conditions) []string {
	var out []string
	if cond.TempMin < 15 {
		out = append(out, "今天有點涼，記得多帶件外套喔 🧥")
	}
	if strings.Contains(cond.Description, "雨") {
		out = append(out, "可能會下雨，記得帶傘喔 ☔️")
	}
	if strings.Contains(cond.Description, "晴") {
		out = append(out, "天氣不錯，很適合出門走走 ☀️")
	}
	if len(out) == 0 {
		out = append(out, "祝妳有個順心的一天 🌸")
	}
	return out
}

// roundDegrees renders a temperature to the nearest whole degree.
func roundDegrees(v float64) int {
	return int(math.Round(v))
}

// BuildReport renders the final weather report for a place.
func BuildReport(place string, cond *Conditions, now time.Time) string {
	local := now.In(taipei)

	var b strings.Builder
	b.WriteString(Greeting(now))
	b.WriteString(fmt.Sprintf("現在是 %s。\n", local.Format("1月2日 15:04")))
	b.WriteString(fmt.Sprintf("%s今天是%s，氣溫約 %d～%d°C，體感溫度 %d°C，風速 %g m/s。\n",
		place,
		cond.Description,
		roundDegrees(cond.TempMin),
		roundDegrees(cond.TempMax),
		roundDegrees(cond.FeelsLike),
		cond.WindSpeed,
	))
	b.WriteString(strings.Join(tips(cond), "\n"))
	b.WriteString("\n\n")
	b.WriteString(reportClosing)
	return b.String()
}
