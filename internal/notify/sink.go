package notify

import (
	"context"
	"fmt"
	"strings"

	"seatbooking/internal/config"
	"seatbooking/internal/utils"
)

// Sink delivers a short text message to a phone number. Errors are
// reported to the caller, which decides whether to retry.
type Sink interface {
	Name() string
	Send(ctx context.Context, to, message string) error
}

// LogSink only writes the message to the log. It is the default driver
// for local runs.
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Send(_ context.Context, to, message string) error {
	utils.LogEvent("", "notify", "send", fmt.Sprintf("to=%s message=%q", to, message))
	return nil
}

// NewSink picks the driver named by NOTIFY_DRIVER.
func NewSink(ctx context.Context, env config.Env) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(env.NotifyDriver)) {
	case "", "log":
		return LogSink{}, nil
	case "smslenz":
		sink, err := NewSMSLenzSink(SMSLenzConfig{
			BaseURL:  env.SMSLenzBaseURL,
			UserID:   env.SMSLenzUserID,
			APIKey:   env.SMSLenzAPIKey,
			SenderID: env.SMSSenderID,
		})
		if err != nil {
			return nil, err
		}
		return sink, nil
	case "sns":
		sink, err := NewSNSSink(ctx, env.SMSSenderID)
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", env.NotifyDriver)
	}
}
