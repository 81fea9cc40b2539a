package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type AlertID string

func (x AlertID) String() string {
	return string(x)
}

func NewAlertID() AlertID {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return AlertID(id.String())
}

func (x AlertID) Validate() error {
	if x == EmptyAlertID {
		return goerr.New("empty alert ID")
	}
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "invalid alert ID format", goerr.V("id", x))
	}
	return nil
}

const (
	EmptyAlertID AlertID = ""
)

// OfficialID identifies the issuing official. It is assigned by the
// identity collaborator and treated as opaque here.
type OfficialID string

func (x OfficialID) String() string {
	return string(x)
}

func (x OfficialID) Validate() error {
	if x == EmptyOfficialID {
		return goerr.New("empty official ID")
	}
	return nil
}

const (
	EmptyOfficialID OfficialID = ""
)

// ReportID references a citizen hazard report owned by the report
// collaborator. Stored as an opaque link only.
type ReportID string

func (x ReportID) String() string {
	return string(x)
}
