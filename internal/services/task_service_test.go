package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestCreateTask(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	deal := f.createDeal(t, f.member.ID, models.StatusNew, models.StageQualification, 100)
	due := time.Now().AddDate(0, 0, 7)

	task, err := svc.Create(f.org.ID, f.member.ID, models.RoleMember, deal.ID, TaskInput{
		Title:   "Call back",
		DueDate: &due,
	})

	require.NoError(t, err)
	assert.Equal(t, "Call back", task.Title)
	assert.False(t, task.IsDone)

	activities := f.activities(t, deal.ID)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityTaskCreated, activities[0].Type)
}

func TestCreateTask_PastDueDateRejected(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	deal := f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)
	yesterday := time.Now().AddDate(0, 0, -1)

	_, err := svc.Create(f.org.ID, f.owner.ID, models.RoleOwner, deal.ID, TaskInput{
		Title:   "Too late",
		DueDate: &yesterday,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateTask_TodayIsNotPast(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	deal := f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)
	now := time.Now()

	_, err := svc.Create(f.org.ID, f.owner.ID, models.RoleOwner, deal.ID, TaskInput{
		Title:   "Today",
		DueDate: &now,
	})

	require.NoError(t, err)
}

func TestCreateTask_MemberNeedsDealOwnership(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	deal := f.createDeal(t, f.manager.ID, models.StatusNew, models.StageQualification, 100)

	_, err := svc.Create(f.org.ID, f.member.ID, models.RoleMember, deal.ID, TaskInput{
		Title: "Not yours",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestSetTaskDone(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	deal := f.createDeal(t, f.member.ID, models.StatusNew, models.StageQualification, 100)

	task, err := svc.Create(f.org.ID, f.member.ID, models.RoleMember, deal.ID, TaskInput{Title: "Send quote"})
	require.NoError(t, err)

	done, err := svc.SetDone(f.org.ID, f.member.ID, models.RoleMember, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.IsDone)

	// Re-marking done is a no-op with no extra activity.
	_, err = svc.SetDone(f.org.ID, f.member.ID, models.RoleMember, task.ID, true)
	require.NoError(t, err)

	activities := f.activities(t, deal.ID)
	require.Len(t, activities, 2) // task_created + task_completed
	assert.Equal(t, models.ActivityTaskCompleted, activities[1].Type)

	// Undoing records a system note.
	undone, err := svc.SetDone(f.org.ID, f.member.ID, models.RoleMember, task.ID, false)
	require.NoError(t, err)
	assert.False(t, undone.IsDone)

	activities = f.activities(t, deal.ID)
	require.Len(t, activities, 3)
	assert.Equal(t, models.ActivitySystem, activities[2].Type)
}

func TestUpdateTask_DoneTaskMayBeBackdated(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	deal := f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)

	task, err := svc.Create(f.org.ID, f.owner.ID, models.RoleOwner, deal.ID, TaskInput{Title: "Review"})
	require.NoError(t, err)

	yesterday := time.Now().AddDate(0, 0, -1)

	// Pending: past due date rejected.
	_, err = svc.Update(f.org.ID, f.owner.ID, models.RoleOwner, task.ID, TaskUpdate{
		DueDate: timePtr(yesterday),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.SetDone(f.org.ID, f.owner.ID, models.RoleOwner, task.ID, true)
	require.NoError(t, err)

	// Done: backdating allowed.
	updated, err := svc.Update(f.org.ID, f.owner.ID, models.RoleOwner, task.ID, TaskUpdate{
		DueDate: timePtr(yesterday),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
}

func TestTask_CrossOrganizationReadsAsNotFound(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	org, user, contact := f.otherOrg(t)

	foreignDeal := f.createDeal(t, user.ID, models.StatusNew, models.StageQualification, 100)
	require.NoError(t, f.db.Model(&foreignDeal).Updates(map[string]interface{}{
		"organization_id": org.ID,
		"contact_id":      contact.ID,
	}).Error)

	foreignTask := models.Task{DealID: foreignDeal.ID, Title: "Foreign"}
	require.NoError(t, f.db.Create(&foreignTask).Error)

	_, err := svc.Get(f.org.ID, foreignTask.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListTasks_HidesDoneByDefault(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	deal := f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)

	open, err := svc.Create(f.org.ID, f.owner.ID, models.RoleOwner, deal.ID, TaskInput{Title: "Open"})
	require.NoError(t, err)
	_ = open

	doneTask, err := svc.Create(f.org.ID, f.owner.ID, models.RoleOwner, deal.ID, TaskInput{Title: "Done"})
	require.NoError(t, err)

	_, err = svc.SetDone(f.org.ID, f.owner.ID, models.RoleOwner, doneTask.ID, true)
	require.NoError(t, err)

	tasks, total, err := svc.List(f.org.ID, TaskListOptions{DealID: deal.ID, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Open", tasks[0].Title)

	_, total, err = svc.List(f.org.ID, TaskListOptions{DealID: deal.ID, IncludeDone: true, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestOverdueCount(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	deal := f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)

	yesterday := time.Now().AddDate(0, 0, -1)
	nextWeek := time.Now().AddDate(0, 0, 7)

	// Seeded directly; the service would reject the past due date.
	require.NoError(t, f.db.Create(&models.Task{DealID: deal.ID, Title: "Overdue", DueDate: &yesterday}).Error)
	require.NoError(t, f.db.Create(&models.Task{DealID: deal.ID, Title: "Overdue done", DueDate: &yesterday, IsDone: true}).Error)
	require.NoError(t, f.db.Create(&models.Task{DealID: deal.ID, Title: "Upcoming", DueDate: &nextWeek}).Error)
	require.NoError(t, f.db.Create(&models.Task{DealID: deal.ID, Title: "No due date"}).Error)

	count, err := svc.OverdueCount(f.org.ID, deal.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteTask_RecordsActivity(t *testing.T) {
	f := newFixture(t)
	svc := NewTaskService(f.db, f.perms())

	deal := f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)

	task, err := svc.Create(f.org.ID, f.owner.ID, models.RoleOwner, deal.ID, TaskInput{Title: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(f.org.ID, f.owner.ID, models.RoleOwner, task.ID))

	_, err = svc.Get(f.org.ID, task.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	activities := f.activities(t, deal.ID)
	require.Len(t, activities, 2) // task_created + deletion note
	assert.Equal(t, models.ActivitySystem, activities[1].Type)
}
