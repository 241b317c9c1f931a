package service

import (
	"context"
	"time"

	"github.com/PepeePB/proyecto-asee/internal/access/domain"
	"github.com/PepeePB/proyecto-asee/internal/access/token"
)

//go:generate mockgen -destination=../../mocks/mock_token_codec.go -package=mocks github.com/PepeePB/proyecto-asee/internal/access/service TokenCodec
//go:generate mockgen -destination=../../mocks/mock_mail_sender.go -package=mocks github.com/PepeePB/proyecto-asee/internal/access/service MailSender

// TokenCodec is the credential codec the coordinator issues and decodes
// tokens with. Implemented by token.Codec.
type TokenCodec interface {
	Issue(user *domain.User, fp token.Fingerprint) (string, error)
	Decode(tokenString string) (*token.Claims, error)
	Lifetime() time.Duration
}

// MailSender is the outbound mail collaborator. Template rendering and
// delivery are outside this subsystem; implementations only receive the
// recipient, subject, template name and model.
type MailSender interface {
	SendTemplate(ctx context.Context, to, subject, template string, model map[string]string) error
}
