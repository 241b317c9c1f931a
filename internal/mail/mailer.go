package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer is the development MailSender: it logs what would have been
// sent instead of delivering anything. The real delivery pipeline is an
// external collaborator of the session subsystem.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendTemplate(ctx context.Context, to, subject, template string, model map[string]string) error {
	event := m.log.Info().Str("to", to).Str("subject", subject).Str("template", template)
	for k, v := range model {
		event = event.Str(k, v)
	}

	event.Msg("outbound mail")

	return nil
}
