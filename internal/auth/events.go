package auth

import "github.com/rs/zerolog"

// UnknownSubject is logged when a failure happens before a subject id is known.
const UnknownSubject = "undefined"

// LogEvent emits one structured auth-pipeline event. Every step of the
// authenticated request pipeline logs through here: request id, success flag,
// subject id (or "undefined"), path and message.
func LogEvent(logger zerolog.Logger, requestID string, success bool, subject, path, message string) {
	if subject == "" {
		subject = UnknownSubject
	}
	logger.Info().
		Str("request_id", requestID).
		Bool("success", success).
		Str("subject", subject).
		Str("path", path).
		Msg(message)
}
