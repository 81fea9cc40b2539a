package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/repository"
	"github.com/hazardhub/siren/pkg/utils/authctx"
	"github.com/hazardhub/siren/pkg/utils/clock"
	"github.com/hazardhub/siren/pkg/utils/test"
	"github.com/m-mizutani/gt"
	"github.com/paulmach/orb"
)

var repoTestT0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newFirestoreClient(t *testing.T) *repository.Firestore {
	vars := test.NewEnvVars(t, "TEST_FIRESTORE_PROJECT_ID", "TEST_FIRESTORE_DATABASE_ID")
	client, err := repository.NewFirestore(t.Context(),
		vars.Get("TEST_FIRESTORE_PROJECT_ID"),
		vars.Get("TEST_FIRESTORE_DATABASE_ID"),
	)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, client.Close())
	})
	return client
}

func testOfficial() authctx.Official {
	return authctx.Official{
		ID:           types.OfficialID("official-asha"),
		Name:         "Asha Rao",
		Organization: "Coastal Disaster Management Authority",
	}
}

func newTestAlert(t *testing.T, ctx context.Context, mod func(p *alert.Params)) alert.Alert {
	p := alert.Params{
		Title:           "Cyclone warning for coastal districts",
		Message:         "Severe cyclonic storm expected to make landfall within 24 hours.",
		Type:            types.AlertTypeWarning,
		Hazard:          types.HazardCyclone,
		Severity:        types.SeverityHigh,
		Urgency:         types.UrgencyImmediate,
		Coverage:        alert.NewCircleCoverage(orb.Point{83.2185, 17.6868}, 5000),
		EffectiveFrom:   repoTestT0,
		ExpiresAt:       repoTestT0.Add(24 * time.Hour),
		AutomaticExpiry: true,
		Tags:            []string{"coastal"},
	}
	if mod != nil {
		mod(&p)
	}

	a, err := alert.New(ctx, testOfficial(), p)
	gt.NoError(t, err).Required()
	return a
}

func newActiveTestAlert(t *testing.T, ctx context.Context, mod func(p *alert.Params)) alert.Alert {
	a := newTestAlert(t, ctx, mod)
	activated, err := a.Activate(ctx)
	gt.NoError(t, err).Required()
	return activated
}

func fixedCtx(t time.Time) context.Context {
	return clock.Fixed(context.Background(), t)
}
