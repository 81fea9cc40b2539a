package errutil

import (
	"time"

	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// IDs
	AlertIDKey    = goerr.NewTypedKey[types.AlertID]("alert_id")
	OfficialIDKey = goerr.NewTypedKey[types.OfficialID]("official_id")
	RequestIDKey  = goerr.NewTypedKey[string]("request_id")

	// Values
	StatusKey        = goerr.NewTypedKey[types.AlertStatus]("status")
	ChangeTypeKey    = goerr.NewTypedKey[types.ChangeType]("change_type")
	FieldKey         = goerr.NewTypedKey[string]("field")
	ReasonKey        = goerr.NewTypedKey[string]("reason")
	RepositoryKey    = goerr.NewTypedKey[string]("repository")
	RevKey           = goerr.NewTypedKey[int64]("rev")
	EffectiveFromKey = goerr.NewTypedKey[time.Time]("effective_from")
	ExpiresAtKey     = goerr.NewTypedKey[time.Time]("expires_at")
)
