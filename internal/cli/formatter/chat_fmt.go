package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
)

// FormatChatHistory renders a conversation oldest first.
func FormatChatHistory(msgs []domain.ChatMessage, now time.Time) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		who := StylePurple.Render("助手")
		if m.IsUser {
			who = StyleBlue.Render("我")
		}
		b.WriteString(who + " " + Dim(HumanTimestamp(m.Timestamp, now)) + "\n")
		b.WriteString(m.Message + "\n")
	}
	return b.String()
}

// FormatReply renders an assistant reply with its source badge.
func FormatReply(r domain.ChatReply) string {
	return r.Text + "\n" + SourceBadge(r.Source)
}
