package upcoming

import (
	"context"

	"github.com/rs/zerolog"
)

// DefaultErrorMessage is shown when a failed operation carries no message of its own.
const DefaultErrorMessage = "something went wrong, please try again"

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is the human-readable outcome of a write operation.
type Notice struct {
	Level   NoticeLevel
	Action  string
	Message string
}

// Notifier delivers notices to whoever is watching the admin surface.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// LogNotifier writes notices to a zerolog logger.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	ev := n.logger.Info()
	if notice.Level == NoticeError {
		ev = n.logger.Warn()
	}
	ev.Str("action", notice.Action).Str("level", string(notice.Level)).Msg(notice.Message)
}

// ErrorMessage returns err's text, or DefaultErrorMessage when it has none.
func ErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return DefaultErrorMessage
	}
	return err.Error()
}
