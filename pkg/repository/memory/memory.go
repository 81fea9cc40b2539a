// Package memory provides the in-memory Alert Record Store used for tests
// and local development. Semantics mirror the Firestore implementation:
// copies in, copies out, revision-checked writes.
package memory

import (
	"sync"

	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

type Memory struct {
	mu     sync.RWMutex
	alerts map[types.AlertID]*alert.Alert

	eb *goerr.Builder
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		alerts: make(map[types.AlertID]*alert.Alert),
		eb:     goerr.NewBuilder(goerr.TV(errutil.RepositoryKey, "memory")),
	}
}
