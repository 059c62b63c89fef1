package usecase

import (
	"context"

	"recap/internal/modules/notify/dto"
	notifyin "recap/internal/modules/notify/port/in"
	"recap/internal/modules/notify/service"
)

type Interactor struct {
	svc *service.NotifyService
}

func NewInteractor(svc *service.NotifyService) notifyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.NotifierInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Send(ctx context.Context, input dto.SendInput) (dto.SendOutput, error) {
	return i.svc.Send(ctx, input)
}
