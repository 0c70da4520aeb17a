package handler

import (
	"context"

	"roombook/pkg/auth"
	"roombook/pkg/model"
)

type mockReservationService struct {
	createFunc  func(ctx context.Context, requester auth.Principal, req *model.CreateReservationRequest) (string, error)
	deleteFunc  func(ctx context.Context, requester auth.Principal, id string) error
	getByIDFunc func(ctx context.Context, id string) (*model.Reservation, error)
}

func (m *mockReservationService) Create(ctx context.Context, requester auth.Principal, req *model.CreateReservationRequest) (string, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, requester, req)
	}
	return "", nil
}

func (m *mockReservationService) Delete(ctx context.Context, requester auth.Principal, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, requester, id)
	}
	return nil
}

func (m *mockReservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockQueryService struct {
	listBySpaceFunc  func(ctx context.Context, page, pageSize int, spaceID string) (model.Page[*model.Reservation], error)
	listByMemberFunc func(ctx context.Context, page, pageSize int, memberID string) (model.Page[*model.Reservation], error)
	listLogsFunc     func(ctx context.Context, page, pageSize int) (model.Page[*model.ReservationLog], error)
	listSpacesFunc   func(ctx context.Context, page, pageSize int) (model.Page[*model.Space], error)
	getSpaceFunc     func(ctx context.Context, id string) (*model.Space, error)
}

func (m *mockQueryService) ListBySpace(ctx context.Context, page, pageSize int, spaceID string) (model.Page[*model.Reservation], error) {
	if m.listBySpaceFunc != nil {
		return m.listBySpaceFunc(ctx, page, pageSize, spaceID)
	}
	return model.NewPage[*model.Reservation](nil, page, pageSize, 0), nil
}

func (m *mockQueryService) ListByMember(ctx context.Context, page, pageSize int, memberID string) (model.Page[*model.Reservation], error) {
	if m.listByMemberFunc != nil {
		return m.listByMemberFunc(ctx, page, pageSize, memberID)
	}
	return model.NewPage[*model.Reservation](nil, page, pageSize, 0), nil
}

func (m *mockQueryService) ListLogs(ctx context.Context, page, pageSize int) (model.Page[*model.ReservationLog], error) {
	if m.listLogsFunc != nil {
		return m.listLogsFunc(ctx, page, pageSize)
	}
	return model.NewPage[*model.ReservationLog](nil, page, pageSize, 0), nil
}

func (m *mockQueryService) ListSpaces(ctx context.Context, page, pageSize int) (model.Page[*model.Space], error) {
	if m.listSpacesFunc != nil {
		return m.listSpacesFunc(ctx, page, pageSize)
	}
	return model.NewPage[*model.Space](nil, page, pageSize, 0), nil
}

func (m *mockQueryService) GetSpace(ctx context.Context, id string) (*model.Space, error) {
	if m.getSpaceFunc != nil {
		return m.getSpaceFunc(ctx, id)
	}
	return nil, nil
}
