package service

import (
	"context"
	"fmt"

	"shift-service/api"
	"shift-service/internal/models"
	"shift-service/pkg/response"
)

// Approving records who decided and when and clears any earlier rejection
// reason. Rejecting leaves approver and timestamp empty; the reason is only
// stored when the caller supplies one (the bulk path never does).

func (s *Service) ApproveShift(ctx context.Context, req *api.ApproveRequest) (*api.ShiftResponse, error) {
	const op = "service.ApproveShift"

	if req.ID == 0 {
		return nil, fmt.Errorf("%s: id is required: %w", op, response.ErrValidation)
	}

	now := s.now()
	if err := s.store.UpdateShiftApproval(ctx, req.ID, models.ApprovalApproved, req.ApproverID, &now, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetShiftByID(ctx, req.ID)
}

func (s *Service) RejectShift(ctx context.Context, req *api.RejectRequest) (*api.ShiftResponse, error) {
	const op = "service.RejectShift"

	if req.ID == 0 {
		return nil, fmt.Errorf("%s: id is required: %w", op, response.ErrValidation)
	}

	if err := s.store.UpdateShiftApproval(ctx, req.ID, models.ApprovalRejected, nil, nil, req.Reason); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetShiftByID(ctx, req.ID)
}

// BulkDecideShifts approves or rejects every pending shift and reports how
// many changed. Shifts already decided are not touched or counted.
func (s *Service) BulkDecideShifts(ctx context.Context, req *api.BulkApproveRequest) (int64, error) {
	const op = "service.BulkDecideShifts"

	switch req.Action {
	case "approve":
		now := s.now()
		n, err := s.store.BulkUpdatePendingShifts(ctx, models.ApprovalApproved, req.ApproverID, &now)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		return n, nil
	case "reject":
		n, err := s.store.BulkUpdatePendingShifts(ctx, models.ApprovalRejected, nil, nil)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s: unknown action %q: %w", op, req.Action, response.ErrValidation)
	}
}

func (s *Service) PendingShifts(ctx context.Context) ([]api.ShiftResponse, error) {
	const op = "service.PendingShifts"

	shifts, err := s.store.ListPendingShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]api.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		result = append(result, toShiftResponse(sh))
	}

	return result, nil
}

func (s *Service) ApproveStaff(ctx context.Context, req *api.ApproveRequest) (*api.StaffResponse, error) {
	const op = "service.ApproveStaff"

	if req.ID == 0 {
		return nil, fmt.Errorf("%s: id is required: %w", op, response.ErrValidation)
	}

	now := s.now()
	if err := s.store.UpdateStaffApproval(ctx, req.ID, models.ApprovalApproved, req.ApproverID, &now, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetStaff(ctx, req.ID)
}

func (s *Service) RejectStaff(ctx context.Context, req *api.RejectRequest) (*api.StaffResponse, error) {
	const op = "service.RejectStaff"

	if req.ID == 0 {
		return nil, fmt.Errorf("%s: id is required: %w", op, response.ErrValidation)
	}

	if err := s.store.UpdateStaffApproval(ctx, req.ID, models.ApprovalRejected, nil, nil, req.Reason); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetStaff(ctx, req.ID)
}
