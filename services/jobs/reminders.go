package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"tech_office_cms_go/config"
	"tech_office_cms_go/models"
	"tech_office_cms_go/services"
)

// StartScheduler wires the reminder sweep onto a cron schedule. It is a
// no-op when REMINDER_SCHEDULE is unset.
func StartScheduler(database *gorm.DB, cfg *config.Config) *cron.Cron {
	if cfg.ReminderSchedule == "" {
		log.Println("[JOB] Reminder schedule not configured, scheduler disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.ReminderSchedule, func() {
		SendTaskReminders(database, cfg)
	})
	if err != nil {
		log.Printf("[JOB] Invalid reminder schedule %q: %v", cfg.ReminderSchedule, err)
		return nil
	}

	c.Start()
	log.Printf("[JOB] Task reminder scheduler started (%s)", cfg.ReminderSchedule)
	return c
}

// SendTaskReminders emails the office about tasks starting tomorrow
// (24-48h window) that have not been reminded yet.
func SendTaskReminders(database *gorm.DB, cfg *config.Config) {
	log.Println("[JOB] Starting task reminder sweep...")

	if cfg.OfficeEmail == "" {
		log.Println("[JOB] OFFICE_EMAIL not configured, skipping reminders")
		return
	}

	now := time.Now().UTC()
	windowStart := now.Add(24 * time.Hour).Format(time.RFC3339)
	windowEnd := now.Add(48 * time.Hour).Format(time.RFC3339)

	var tasks []models.Task
	err := database.
		Where("start_iso >= ? AND start_iso <= ?", windowStart, windowEnd).
		Where("reminder_sent_at IS NULL").
		Find(&tasks).Error
	if err != nil {
		log.Printf("[JOB] Error fetching tasks for reminders: %v", err)
		return
	}

	log.Printf("[JOB] Found %d tasks to remind", len(tasks))

	for _, task := range tasks {
		caseNumber := ""
		if task.CaseID != nil {
			var c models.Case
			if err := database.First(&c, *task.CaseID).Error; err == nil {
				caseNumber = c.CaseNumber
			}
		}

		email := services.BuildTaskReminderEmail(cfg.OfficeEmail, task.Title, task.StartISO, caseNumber)
		if err := services.SendEmail(cfg, email); err != nil {
			log.Printf("[JOB] Failed to send reminder for task %d: %v", task.ID, err)
			continue
		}

		sentAt := time.Now().UTC()
		database.Model(&task).Update("reminder_sent_at", sentAt)
		log.Printf("[JOB] Sent reminder for task %d", task.ID)
	}

	log.Println("[JOB] Task reminder sweep completed")
}
