package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/permissions"
	"github.com/pipedesk/pipedesk/internal/repositories"
)

type TaskService struct {
	db    *gorm.DB
	perms permissions.Evaluator
}

func NewTaskService(db *gorm.DB, perms permissions.Evaluator) *TaskService {
	return &TaskService{db: db, perms: perms}
}

// getScoped loads a task and verifies, through its deal, that it belongs to
// the organization. Tasks outside the caller's organization read as not
// found.
func (s *TaskService) getScoped(tx *gorm.DB, organizationID, taskID uint) (*models.Task, *models.Deal, error) {
	task, err := repositories.NewTaskRepository(tx).GetByID(taskID)

	if err != nil {
		return nil, nil, notFoundOr(err, "Task")
	}

	deal, err := repositories.NewDealRepository(tx).GetByID(organizationID, task.DealID)

	if err != nil {
		return nil, nil, notFoundOr(err, "Task")
	}

	return task, deal, nil
}

type TaskListOptions struct {
	DealID      uint
	IncludeDone bool
	DueBefore   *time.Time
	DueAfter    *time.Time
	Limit       int
	Offset      int
}

func (s *TaskService) List(organizationID uint, opts TaskListOptions) ([]models.Task, int64, error) {
	if _, err := repositories.NewDealRepository(s.db).GetByID(organizationID, opts.DealID); err != nil {
		return nil, 0, notFoundOr(err, "Deal")
	}

	return repositories.NewTaskRepository(s.db).List(repositories.TaskFilter{
		DealID:      opts.DealID,
		IncludeDone: opts.IncludeDone,
		DueBefore:   opts.DueBefore,
		DueAfter:    opts.DueAfter,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
	})
}

type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// Create rejects due dates before the server's current date and records a
// task_created activity on the deal in the same transaction.
func (s *TaskService) Create(organizationID, userID uint, role models.MemberRole, dealID uint, input TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)

	if title == "" {
		return nil, apperrors.Validation("Task title is required", "title")
	}

	if input.DueDate != nil && input.DueDate.Before(startOfDay(time.Now())) {
		return nil, apperrors.Validation("Due date cannot be in the past", "due_date")
	}

	deal, err := repositories.NewDealRepository(s.db).GetByID(organizationID, dealID)

	if err != nil {
		return nil, notFoundOr(err, "Deal")
	}

	if !s.perms.CanModifyResource(userID, deal.OwnerID, role) {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}

	task := &models.Task{
		DealID:      dealID,
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewTaskRepository(tx).Create(task); err != nil {
			return err
		}

		payload := models.TaskPayload{TaskID: task.ID, Title: title}
		if input.DueDate != nil {
			payload.DueDate = input.DueDate.Format("2006-01-02")
		}

		return repositories.NewActivityRepository(tx).Record(
			dealID, &userID, models.ActivityTaskCreated, payload)
	})

	if err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) Get(organizationID, taskID uint) (*models.Task, error) {
	task, _, err := s.getScoped(s.db, organizationID, taskID)
	return task, err
}

type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
}

func (s *TaskService) Update(organizationID, userID uint, role models.MemberRole, taskID uint, input TaskUpdate) (*models.Task, error) {
	task, deal, err := s.getScoped(s.db, organizationID, taskID)

	if err != nil {
		return nil, err
	}

	if !s.perms.CanModifyResource(userID, deal.OwnerID, role) {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}

	updates := make(map[string]interface{})

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.Validation("Task title is required", "title")
		}
		updates["title"] = title
	}

	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if input.DueDate != nil {
		// Past due dates stay rejected for pending tasks; a done task may
		// be backdated.
		if !task.IsDone && input.DueDate.Before(startOfDay(time.Now())) {
			return nil, apperrors.Validation("Due date cannot be in the past", "due_date")
		}
		updates["due_date"] = *input.DueDate
	}

	if len(updates) == 0 {
		return task, nil
	}

	if err := repositories.NewTaskRepository(s.db).Update(taskID, updates); err != nil {
		return nil, err
	}

	return s.Get(organizationID, taskID)
}

// SetDone toggles completion. Marking done emits a task_completed activity,
// marking undone a system note; re-applying the current state is a no-op
// with no activity.
func (s *TaskService) SetDone(organizationID, userID uint, role models.MemberRole, taskID uint, done bool) (*models.Task, error) {
	var result *models.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		task, deal, err := s.getScoped(tx, organizationID, taskID)

		if err != nil {
			return err
		}

		if !s.perms.CanModifyResource(userID, deal.OwnerID, role) {
			return apperrors.Forbidden("Insufficient permissions")
		}

		if task.IsDone == done {
			result = task
			return nil
		}

		tasks := repositories.NewTaskRepository(tx)

		if err := tasks.Update(taskID, map[string]interface{}{"is_done": done}); err != nil {
			return err
		}

		activities := repositories.NewActivityRepository(tx)

		if done {
			err = activities.Record(task.DealID, &userID, models.ActivityTaskCompleted,
				models.TaskPayload{TaskID: task.ID, Title: task.Title})
		} else {
			err = activities.Record(task.DealID, &userID, models.ActivitySystem,
				models.SystemPayload{Message: "Task \"" + task.Title + "\" marked as not done"})
		}

		if err != nil {
			return err
		}

		result, err = tasks.GetByID(taskID)
		return err
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *TaskService) Delete(organizationID, userID uint, role models.MemberRole, taskID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		task, deal, err := s.getScoped(tx, organizationID, taskID)

		if err != nil {
			return err
		}

		if !s.perms.CanModifyResource(userID, deal.OwnerID, role) {
			return apperrors.Forbidden("Insufficient permissions")
		}

		if err := repositories.NewTaskRepository(tx).Delete(taskID); err != nil {
			return err
		}

		return repositories.NewActivityRepository(tx).Record(
			task.DealID, &userID, models.ActivitySystem,
			models.SystemPayload{Message: "Task \"" + task.Title + "\" deleted"})
	})
}

func (s *TaskService) OverdueCount(organizationID, dealID uint) (int64, error) {
	if _, err := repositories.NewDealRepository(s.db).GetByID(organizationID, dealID); err != nil {
		return 0, notFoundOr(err, "Deal")
	}

	return repositories.NewTaskRepository(s.db).OverdueCount(dealID, startOfDay(time.Now()))
}
