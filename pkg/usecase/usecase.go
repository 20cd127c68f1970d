package usecase

import (
	"github.com/flowoffice/flowbridge/pkg/domain/interfaces"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
	"github.com/flowoffice/flowbridge/pkg/service/flowoffice"
)

// UseCases bundles the adapter's operations
type UseCases struct {
	Board   *BoardUseCase
	Project *ProjectUseCase
	Webhook *WebhookUseCase
}

// Option configures the use cases
type Option func(*UseCases)

// WithMatchMode sets how FROM and TO label filters combine on the
// status-change trigger
func WithMatchMode(mode types.MatchMode) Option {
	return func(uc *UseCases) {
		uc.Webhook.matchMode = mode
	}
}

// New creates the use cases on top of the FlowOffice service and the
// durable repository
func New(svc flowoffice.Service, repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		Board:   NewBoardUseCase(svc),
		Project: NewProjectUseCase(svc),
		Webhook: NewWebhookUseCase(svc, repo),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
