package in

import (
	"context"

	"recap/internal/modules/notify/dto"
)

type Usecase interface {
	// List returns the installed notifiers after manifest validation.
	List(ctx context.Context) ([]dto.NotifierInfo, error)

	// Doctor checks every manifest: binary present, checksum matching,
	// process startable.
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)

	// Send fans the notification out to every enabled notifier. It fails
	// only when no notifier delivered.
	Send(ctx context.Context, input dto.SendInput) (dto.SendOutput, error)
}
