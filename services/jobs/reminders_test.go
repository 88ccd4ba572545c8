package jobs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tech_office_cms_go/config"
	"tech_office_cms_go/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(&models.Case{}, &models.Task{})
	assert.NoError(t, err)

	return testDB
}

func testConfig() *config.Config {
	return &config.Config{
		OfficeEmail:   "office@example.gr",
		EmailFrom:     "noreply@example.gr",
		EmailFromName: "Tech Office CMS",
		EmailTestMode: true,
	}
}

func TestSendTaskReminders(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()

	inWindow := models.Task{
		Title:    "Hearing tomorrow",
		StartISO: now.Add(30 * time.Hour).Format(time.RFC3339),
		EndISO:   now.Add(31 * time.Hour).Format(time.RFC3339),
	}
	tooSoon := models.Task{
		Title:    "Hearing today",
		StartISO: now.Add(2 * time.Hour).Format(time.RFC3339),
		EndISO:   now.Add(3 * time.Hour).Format(time.RFC3339),
	}
	tooFar := models.Task{
		Title:    "Hearing next week",
		StartISO: now.Add(7 * 24 * time.Hour).Format(time.RFC3339),
		EndISO:   now.Add(7*24*time.Hour + time.Hour).Format(time.RFC3339),
	}
	assert.NoError(t, db.Create(&inWindow).Error)
	assert.NoError(t, db.Create(&tooSoon).Error)
	assert.NoError(t, db.Create(&tooFar).Error)

	SendTaskReminders(db, testConfig())

	var reminded models.Task
	assert.NoError(t, db.First(&reminded, inWindow.ID).Error)
	assert.NotNil(t, reminded.ReminderSentAt)

	var untouched int64
	db.Model(&models.Task{}).Where("reminder_sent_at IS NULL").Count(&untouched)
	assert.Equal(t, int64(2), untouched)
}

func TestSendTaskRemindersIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()

	task := models.Task{
		Title:    "Filing deadline",
		StartISO: now.Add(30 * time.Hour).Format(time.RFC3339),
		EndISO:   now.Add(31 * time.Hour).Format(time.RFC3339),
	}
	assert.NoError(t, db.Create(&task).Error)

	cfg := testConfig()
	SendTaskReminders(db, cfg)

	var afterFirst models.Task
	assert.NoError(t, db.First(&afterFirst, task.ID).Error)
	assert.NotNil(t, afterFirst.ReminderSentAt)
	firstSent := *afterFirst.ReminderSentAt

	SendTaskReminders(db, cfg)

	var afterSecond models.Task
	assert.NoError(t, db.First(&afterSecond, task.ID).Error)
	assert.Equal(t, firstSent.UTC(), afterSecond.ReminderSentAt.UTC())
}

func TestSendTaskRemindersWithoutOfficeEmail(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()

	task := models.Task{
		Title:    "Hearing tomorrow",
		StartISO: now.Add(30 * time.Hour).Format(time.RFC3339),
		EndISO:   now.Add(31 * time.Hour).Format(time.RFC3339),
	}
	assert.NoError(t, db.Create(&task).Error)

	cfg := testConfig()
	cfg.OfficeEmail = ""
	SendTaskReminders(db, cfg)

	var after models.Task
	assert.NoError(t, db.First(&after, task.ID).Error)
	assert.Nil(t, after.ReminderSentAt)
}

func TestStartSchedulerDisabledWithoutSchedule(t *testing.T) {
	db := setupTestDB(t)

	assert.Nil(t, StartScheduler(db, testConfig()))

	cfg := testConfig()
	cfg.ReminderSchedule = "not a cron expression"
	assert.Nil(t, StartScheduler(db, cfg))

	cfg.ReminderSchedule = "0 8 * * *"
	scheduler := StartScheduler(db, cfg)
	assert.NotNil(t, scheduler)
	scheduler.Stop()
}
