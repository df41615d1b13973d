package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
)

func NewDatesMessage(w domain.Watcher, latest domain.ShowDate) string {
	var b strings.Builder
	b.WriteString("🎬 New show dates available!\n\n")
	if w.Movie != "" {
		fmt.Fprintf(&b, "🎞 %s\n", w.Movie)
	}
	if w.Cinema != "" {
		fmt.Fprintf(&b, "📍 %s\n", w.Cinema)
	}
	fmt.Fprintf(&b, "📅 Latest date: %s\n\n", latest.Long())
	if w.URL != "" {
		fmt.Fprintf(&b, "🔗 %s\n\n", w.URL)
	}
	b.WriteString("Book fast 👀")
	return b.String()
}

func HeartbeatMessage(active int, now time.Time) string {
	return fmt.Sprintf("💓 showwatch is alive\n\n👀 Active watchers: %d\n🕒 %s", active, now.Format(time.RFC3339))
}

func AllExpiredMessage(total int, autoDisable bool) string {
	msg := fmt.Sprintf("⌛ All watchers have expired or are disabled (%d configured).", total)
	if autoDisable {
		return msg + "\n\nScheduled runs are being disabled."
	}
	return msg + "\n\nScheduled runs keep going until the watchlist is updated."
}
