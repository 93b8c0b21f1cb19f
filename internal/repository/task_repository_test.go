package repository

import (
	"testing"
	"time"

	"github.com/repairtrack/backend/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TaskRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo TaskRepository
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Exec("PRAGMA foreign_keys = ON").Error)

	suite.Require().NoError(suite.db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.DeviceType{},
		&models.ProblemType{},
		&models.Status{},
		&models.Tag{},
		&models.Task{},
		&models.TaskTag{},
	))

	// Referenced rows for the restrict-on-delete columns.
	suite.Require().NoError(suite.db.Create(&models.User{ID: 1, Username: "admin", PasswordHash: "hash"}).Error)
	suite.Require().NoError(suite.db.Create(&models.Location{ID: 1, Name: "Front desk"}).Error)
	suite.Require().NoError(suite.db.Create(&models.Location{ID: 2, Name: "Workshop"}).Error)
	suite.Require().NoError(suite.db.Create(&models.DeviceType{ID: 1, Name: "Laptop"}).Error)
	suite.Require().NoError(suite.db.Create(&models.ProblemType{ID: 1, Name: "Hardware"}).Error)
	suite.Require().NoError(suite.db.Create(&models.Status{ID: 1, Name: "Pending", Color: "#f0ad4e"}).Error)
	suite.Require().NoError(suite.db.Create(&models.Tag{ID: 1, Name: "urgent", Color: "#ff0000"}).Error)
	suite.Require().NoError(suite.db.Create(&models.Tag{ID: 2, Name: "warranty", Color: "#00ff00"}).Error)

	suite.repo = NewTaskRepository(suite.db)
}

func (suite *TaskRepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskRepositoryTestSuite) createTask(createdAt time.Time, mutate func(*models.Task)) *models.Task {
	task := &models.Task{
		CustomerFirstName: "Jane",
		CustomerLastName:  "Doe",
		CustomerEmail:     "jane@example.com",
		CustomerPhone:     "555-0100",
		Title:             "Broken screen",
		Description:       "Cracked on the left corner",
		LocationID:        1,
		DeviceTypeID:      1,
		ProblemTypeID:     1,
		StatusID:          1,
		CreatedByUserID:   1,
		CreatedAt:         createdAt,
	}
	if mutate != nil {
		mutate(task)
	}
	suite.Require().NoError(suite.repo.Create(task))
	return task
}

func (suite *TaskRepositoryTestSuite) windowAround(now time.Time) TaskFilter {
	return TaskFilter{
		CreatedFrom: now.Add(-48 * time.Hour),
		CreatedTo:   now.Add(24 * time.Hour),
	}
}

func (suite *TaskRepositoryTestSuite) TestList_NewestFirst() {
	now := time.Now()
	oldest := suite.createTask(now.Add(-3*time.Hour), nil)
	newest := suite.createTask(now.Add(-time.Hour), nil)
	middle := suite.createTask(now.Add(-2*time.Hour), nil)

	tasks, total, err := suite.repo.List(suite.windowAround(now))
	suite.Require().NoError(err)

	suite.Equal(int64(3), total)
	suite.Require().Len(tasks, 3)
	suite.Equal(newest.ID, tasks[0].ID)
	suite.Equal(middle.ID, tasks[1].ID)
	suite.Equal(oldest.ID, tasks[2].ID)
}

func (suite *TaskRepositoryTestSuite) TestList_WindowExcludesOutside() {
	now := time.Now()
	inside := suite.createTask(now.Add(-time.Hour), nil)
	suite.createTask(now.Add(-72*time.Hour), nil)

	tasks, total, err := suite.repo.List(suite.windowAround(now))
	suite.Require().NoError(err)

	suite.Equal(int64(1), total)
	suite.Require().Len(tasks, 1)
	suite.Equal(inside.ID, tasks[0].ID)
}

func (suite *TaskRepositoryTestSuite) TestList_FiltersCombineConjunctively() {
	now := time.Now()
	match := suite.createTask(now, func(t *models.Task) { t.LocationID = 2 })
	suite.createTask(now, nil)
	suite.createTask(now, func(t *models.Task) { t.LocationID = 2; t.StatusID = 1 })

	loc := uint64(2)
	filter := suite.windowAround(now)
	filter.LocationID = &loc
	status := uint64(1)
	filter.StatusID = &status

	tasks, total, err := suite.repo.List(filter)
	suite.Require().NoError(err)

	suite.Equal(int64(2), total)
	suite.Len(tasks, 2)

	// Narrow further by tag; only the row carrying it survives.
	suite.Require().NoError(suite.repo.ReplaceTags(match.ID, []uint64{1}))
	tag := uint64(1)
	filter.TagID = &tag

	tasks, total, err = suite.repo.List(filter)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(tasks, 1)
	suite.Equal(match.ID, tasks[0].ID)
}

func (suite *TaskRepositoryTestSuite) TestList_TotalCountsAllPages() {
	now := time.Now()
	for i := 0; i < 5; i++ {
		suite.createTask(now.Add(-time.Duration(i)*time.Minute), nil)
	}

	filter := suite.windowAround(now)
	filter.Page = 2
	filter.PageSize = 2

	tasks, total, err := suite.repo.List(filter)
	suite.Require().NoError(err)

	suite.Equal(int64(5), total)
	suite.Len(tasks, 2)
}

func (suite *TaskRepositoryTestSuite) TestList_TagsNeverNil() {
	now := time.Now()
	suite.createTask(now, nil)

	tasks, _, err := suite.repo.List(suite.windowAround(now))
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.NotNil(tasks[0].Tags)
	suite.Empty(tasks[0].Tags)
}

func (suite *TaskRepositoryTestSuite) TestReplaceTags_FullReplacement() {
	task := suite.createTask(time.Now(), nil)

	suite.Require().NoError(suite.repo.ReplaceTags(task.ID, []uint64{1}))
	suite.Require().NoError(suite.repo.ReplaceTags(task.ID, []uint64{2}))

	found, err := suite.repo.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(found.Tags, 1)
	suite.Equal(uint64(2), found.Tags[0].ID)
}

func (suite *TaskRepositoryTestSuite) TestReplaceTags_Idempotent() {
	task := suite.createTask(time.Now(), nil)

	suite.Require().NoError(suite.repo.ReplaceTags(task.ID, []uint64{1, 2}))
	suite.Require().NoError(suite.repo.ReplaceTags(task.ID, []uint64{1, 2}))

	found, err := suite.repo.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.Len(found.Tags, 2)
}

func (suite *TaskRepositoryTestSuite) TestReplaceTags_EmptySetClears() {
	task := suite.createTask(time.Now(), nil)
	suite.Require().NoError(suite.repo.ReplaceTags(task.ID, []uint64{1, 2}))

	suite.Require().NoError(suite.repo.ReplaceTags(task.ID, []uint64{}))

	found, err := suite.repo.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.NotNil(found.Tags)
	suite.Empty(found.Tags)
}

func (suite *TaskRepositoryTestSuite) TestReplaceTags_FailureKeepsPreviousSet() {
	task := suite.createTask(time.Now(), nil)
	suite.Require().NoError(suite.repo.ReplaceTags(task.ID, []uint64{1}))

	// Tag 999 violates the foreign key; the delete inside the transaction
	// must be rolled back with it.
	err := suite.repo.ReplaceTags(task.ID, []uint64{2, 999})
	suite.Require().Error(err)

	found, err := suite.repo.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(found.Tags, 1)
	suite.Equal(uint64(1), found.Tags[0].ID)
}

func (suite *TaskRepositoryTestSuite) TestArchive_SetsTimestamp() {
	task := suite.createTask(time.Now(), nil)

	archived, err := suite.repo.Archive(task.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(archived.ArchivedAt)
	suite.True(archived.IsArchived())
}

func (suite *TaskRepositoryTestSuite) TestArchive_AlreadyArchived() {
	task := suite.createTask(time.Now(), nil)
	_, err := suite.repo.Archive(task.ID)
	suite.Require().NoError(err)

	_, err = suite.repo.Archive(task.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *TaskRepositoryTestSuite) TestArchive_NotFound() {
	_, err := suite.repo.Archive(999)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *TaskRepositoryTestSuite) TestRestore_ClearsTimestamp() {
	task := suite.createTask(time.Now(), nil)
	_, err := suite.repo.Archive(task.ID)
	suite.Require().NoError(err)

	restored, err := suite.repo.Restore(task.ID)
	suite.Require().NoError(err)
	suite.Nil(restored.ArchivedAt)
}

func (suite *TaskRepositoryTestSuite) TestRestore_NotArchived() {
	task := suite.createTask(time.Now(), nil)

	_, err := suite.repo.Restore(task.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *TaskRepositoryTestSuite) TestDelete_RemovesTaskAndJoinRows() {
	task := suite.createTask(time.Now(), nil)
	suite.Require().NoError(suite.repo.ReplaceTags(task.ID, []uint64{1, 2}))

	suite.Require().NoError(suite.repo.Delete(task.ID))

	_, err := suite.repo.FindByID(task.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	var joinRows int64
	suite.Require().NoError(suite.db.Model(&models.TaskTag{}).
		Where("task_id = ?", task.ID).Count(&joinRows).Error)
	suite.Zero(joinRows)
}

func (suite *TaskRepositoryTestSuite) TestDelete_NotFound() {
	suite.ErrorIs(suite.repo.Delete(999), gorm.ErrRecordNotFound)
}

func (suite *TaskRepositoryTestSuite) TestCountTagsByIDs() {
	count, err := suite.repo.CountTagsByIDs([]uint64{1, 2, 999})
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)
}

func (suite *TaskRepositoryTestSuite) TestReferencedLookupCannotBeDeleted() {
	suite.createTask(time.Now(), func(t *models.Task) { t.LocationID = 2 })

	err := suite.db.Delete(&models.Location{}, 2).Error
	suite.Error(err)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}
