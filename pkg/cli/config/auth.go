package config

import (
	"log/slog"

	server "github.com/hazardhub/siren/pkg/controller/http"
	"github.com/hazardhub/siren/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Auth struct {
	secret string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-secret",
			Usage:       "HMAC secret for official bearer tokens (unset disables mutations)",
			Category:    "Auth",
			Sources:     cli.EnvVars("SIREN_AUTH_SECRET"),
			Destination: &x.secret,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", x.secret != ""),
	)
}

func (x *Auth) Secret() []byte {
	return []byte(x.secret)
}

// Verifier returns the token verifier, or nil when no secret is set.
func (x *Auth) Verifier() *server.TokenVerifier {
	if x.secret == "" {
		logging.Default().Warn("auth secret is not configured, mutations are disabled")
		return nil
	}
	return server.NewTokenVerifier([]byte(x.secret))
}
