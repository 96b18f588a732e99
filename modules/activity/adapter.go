package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityPort defines the interface for reading activity from other modules.
type ActivityPort interface {
	Summary(ctx context.Context, limit int) (*Summary, error)
}

// activityAdapter wraps ServiceContainer for type-safe cross-module communication.
type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new adapter for the activity services.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	if container == nil {
		panic("activity adapter requires non-nil ServiceContainer")
	}
	return &activityAdapter{container: container}
}

// Summary retrieves the activity summary via the activity-summary service.
func (a *activityAdapter) Summary(ctx context.Context, limit int) (*Summary, error) {
	req := SummaryRequest{Limit: limit}
	var resp Summary

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		SummaryService,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", SummaryService, err)
	}

	return &resp, nil
}
