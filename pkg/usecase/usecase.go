package usecase

import (
	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/repository"
)

// maxSaveRetries bounds the optimistic-concurrency retry loop on
// revision conflicts.
const maxSaveRetries = 3

type UseCases struct {
	repository interfaces.Repository

	// configs
	defaultListLimit int
}

type Option func(*UseCases)

func WithRepository(repository interfaces.Repository) Option {
	return func(u *UseCases) {
		u.repository = repository
	}
}

func WithDefaultListLimit(limit int) Option {
	return func(u *UseCases) {
		u.defaultListLimit = limit
	}
}

func New(opts ...Option) *UseCases {
	u := &UseCases{
		repository:       repository.NewMemory(),
		defaultListLimit: 50,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}
