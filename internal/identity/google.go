package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var ErrInvalidToken = errors.New("identity: invalid token")

type Profile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Google verifies Google Sign-In ID tokens against a single OAuth client id.
type Google struct {
	clientID string
	validate validateFunc
}

func NewGoogle(clientID string) *Google {
	return &Google{clientID: clientID, validate: idtoken.Validate}
}

func (g *Google) Verify(ctx context.Context, token string) (*Profile, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	if g.clientID == "" {
		return nil, fmt.Errorf("%w: google client id not configured", ErrInvalidToken)
	}

	payload, err := g.validate(ctx, token, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := claim(payload, "email")
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrInvalidToken)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}

	return &Profile{
		Subject: payload.Subject,
		Email:   email,
		Name:    claim(payload, "name"),
		Picture: claim(payload, "picture"),
	}, nil
}

func claim(p *idtoken.Payload, key string) string {
	s, _ := p.Claims[key].(string)
	return s
}
