// Package repository provides the persistence backends for alert records.
// Memory is used for tests and single-node development, Firestore for
// production deployments.
package repository

import (
	"context"

	"github.com/hazardhub/siren/pkg/repository/firestore"
	"github.com/hazardhub/siren/pkg/repository/memory"
)

type (
	Memory    = memory.Memory
	Firestore = firestore.Firestore
)

func NewMemory() *Memory {
	return memory.New()
}

func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	return firestore.New(ctx, projectID, databaseID)
}
