package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type TaskFilter struct {
	DealID      uint
	IncludeDone bool
	DueBefore   *time.Time
	DueAfter    *time.Time
	Limit       int
	Offset      int
}

func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *TaskRepository) GetByID(id uint) (*models.Task, error) {
	var task models.Task

	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *TaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).
		Where("deal_id = ?", filter.DealID)

	if !filter.IncludeDone {
		query = query.Where("is_done = ?", false)
	}

	if filter.DueBefore != nil {
		query = query.Where("due_date <= ?", *filter.DueBefore)
	}

	if filter.DueAfter != nil {
		query = query.Where("due_date >= ?", *filter.DueAfter)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task

	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&tasks).Error

	return tasks, total, err
}

func (r *TaskRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error
}

func (r *TaskRepository) Delete(id uint) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// OverdueCount counts open tasks on a deal whose due date has passed.
func (r *TaskRepository) OverdueCount(dealID uint, now time.Time) (int64, error) {
	var count int64

	err := r.db.Model(&models.Task{}).
		Where("deal_id = ? AND is_done = ? AND due_date IS NOT NULL AND due_date < ?", dealID, false, now).
		Count(&count).Error

	return count, err
}
