// Package pipeline implements the deal status/stage state machine.
//
// Status flow: new → in_progress → won/lost, with direct new → won/lost
// allowed. Won and lost are terminal. Stages move freely forward (skipping
// is fine); backward moves need admin or owner; closed never moves back.
// The two are coupled by one rule: a terminal status forces stage closed.
package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/permissions"
)

var stageOrder = map[models.DealStage]int{
	models.StageQualification: 1,
	models.StageProposal:      2,
	models.StageNegotiation:   3,
	models.StageClosed:        4,
}

// StageOrder returns the canonical position of a stage in the funnel,
// starting at 1.
func StageOrder(stage models.DealStage) int {
	return stageOrder[stage]
}

// StagesInOrder lists all stages in canonical funnel order.
func StagesInOrder() []models.DealStage {
	return []models.DealStage{
		models.StageQualification,
		models.StageProposal,
		models.StageNegotiation,
		models.StageClosed,
	}
}

var allowedStatusTransitions = map[models.DealStatus][]models.DealStatus{
	models.StatusNew:        {models.StatusInProgress, models.StatusWon, models.StatusLost},
	models.StatusInProgress: {models.StatusWon, models.StatusLost},
	models.StatusWon:        {},
	models.StatusLost:       {},
}

type Machine struct {
	perms permissions.Evaluator
}

func NewMachine(perms permissions.Evaluator) Machine {
	return Machine{perms: perms}
}

// Plan is the resolved outcome of a deal update: the final status and stage
// plus which of the two actually changed. One activity is recorded per
// changed field.
type Plan struct {
	Status        models.DealStatus
	Stage         models.DealStage
	StatusChanged bool
	StageChanged  bool
}

// PlanUpdate validates a requested status/stage change against the current
// deal state and the acting role, and resolves the final values. newStatus
// and newStage are nil when the request leaves them untouched. finalAmount
// is the amount the deal will hold after this update (existing or
// concurrently updated), needed for the won rule.
//
// Invalid transitions return validation errors; an unprivileged backward
// stage move returns an authorization error. No-ops (new value equals old)
// are valid and marked unchanged.
func (m Machine) PlanUpdate(
	currentStatus models.DealStatus,
	currentStage models.DealStage,
	newStatus *models.DealStatus,
	newStage *models.DealStage,
	finalAmount decimal.Decimal,
	role models.MemberRole,
) (Plan, error) {
	plan := Plan{Status: currentStatus, Stage: currentStage}

	if newStatus != nil && *newStatus != currentStatus {
		if err := m.validateStatusTransition(currentStatus, *newStatus); err != nil {
			return Plan{}, err
		}

		if *newStatus == models.StatusWon && !finalAmount.IsPositive() {
			return Plan{}, apperrors.BusinessRule(
				fmt.Sprintf("Cannot mark deal as won with amount %s; amount must be greater than 0", finalAmount.String()))
		}

		plan.Status = *newStatus
		plan.StatusChanged = true
	}

	if plan.Status.Terminal() && plan.StatusChanged {
		// Terminal status forces the stage closed, overriding any
		// caller-supplied stage in the same request.
		if currentStage != models.StageClosed {
			plan.Stage = models.StageClosed
			plan.StageChanged = true
		}
		return plan, nil
	}

	if newStage != nil && *newStage != currentStage {
		if err := m.validateStageTransition(currentStage, *newStage, role); err != nil {
			return Plan{}, err
		}

		plan.Stage = *newStage
		plan.StageChanged = true
	}

	return plan, nil
}

func (m Machine) validateStatusTransition(from, to models.DealStatus) error {
	if from.Terminal() {
		return apperrors.BusinessRule(
			fmt.Sprintf("Cannot change status from terminal state '%s'", from))
	}

	for _, allowed := range allowedStatusTransitions[from] {
		if allowed == to {
			return nil
		}
	}

	return apperrors.BusinessRule(
		fmt.Sprintf("Invalid status transition from '%s' to '%s'", from, to))
}

func (m Machine) validateStageTransition(from, to models.DealStage, role models.MemberRole) error {
	if StageOrder(to) > StageOrder(from) {
		// Forward moves may skip intermediate stages.
		return nil
	}

	// Backward move.
	if from == models.StageClosed {
		return apperrors.BusinessRule("Cannot move stage backward from 'closed'")
	}

	if !m.perms.CanMoveStageBackward(role) {
		return apperrors.Forbidden("Only admins and owners can move a deal's stage backward")
	}

	return nil
}
