package bot

import (
	"fmt"
	"time"
)

// Both ends of the conversation live in fixed places: mom in Taiwan, the bot
// speaking for a child in the US. The greeting is banded by Taiwan's clock
// and the reply also shows the child's local time.
var (
	taipei  = loadLocation("Asia/Taipei")
	eastern = loadLocation("America/New_York")
)

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

var weekdayNames = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

func periodOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 11:
		return "早上"
	case hour >= 11 && hour < 17:
		return "下午"
	case hour >= 17 && hour < 22:
		return "晚上"
	default:
		return "深夜"
	}
}

func greetingForHour(hour int) string {
	switch {
	case hour >= 5 && hour < 11:
		return "早安媽～"
	case hour >= 11 && hour < 17:
		return "午安媽～"
	case hour >= 17 && hour < 22:
		return "晚安媽～"
	default:
		return "媽～這麼晚還沒睡呀？"
	}
}

// companionReply builds the time-of-day greeting for the companion keyword.
func companionReply(now time.Time) string {
	tw := now.In(taipei)
	us := now.In(eastern)

	return fmt.Sprintf("%s台灣現在是%s%s %s，我這邊是%s %s。跟我說「%s」我們就可以開始聊天囉 ☺️",
		greetingForHour(tw.Hour()),
		weekdayNames[tw.Weekday()],
		periodOfDay(tw.Hour()),
		tw.Format("15:04"),
		periodOfDay(us.Hour()),
		us.Format("15:04"),
		entryTrigger,
	)
}
