// Package authctx carries the identity of the acting official through the
// request context. Authentication and authorization decisions are made by
// the identity collaborator before any lifecycle operation is invoked; this
// package only transports the already-verified result.
package authctx

import (
	"context"

	"github.com/hazardhub/siren/pkg/domain/types"
)

// Official is the verified identity of an alert-issuing actor. Name and
// Organization are denormalized onto alerts at creation time.
type Official struct {
	ID           types.OfficialID `json:"id"`
	Name         string           `json:"name"`
	Organization string           `json:"organization"`
}

type ctxOfficialKey struct{}

func With(ctx context.Context, official Official) context.Context {
	return context.WithValue(ctx, ctxOfficialKey{}, official)
}

func From(ctx context.Context) (Official, bool) {
	official, ok := ctx.Value(ctxOfficialKey{}).(Official)
	return official, ok
}
