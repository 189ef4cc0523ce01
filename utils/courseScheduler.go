package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	courseModels "lms/models/course"
)

// InitializeCourseScheduler starts the nightly course maintenance job
func InitializeCourseScheduler(db *gorm.DB) *cron.Cron {
	log.Println("[COURSE-SCHEDULER] Initializing course scheduler...")

	c := cron.New()

	// Run daily at midnight UTC
	c.AddFunc("0 0 * * *", func() {
		log.Println("[COURSE-SCHEDULER] Running nightly course check...")
		DeactivateEndedCourses(db)
	})

	c.Start()
	log.Println("[COURSE-SCHEDULER] Course scheduler started - runs daily at midnight UTC")
	return c
}

// DeactivateEndedCourses marks courses inactive once their end date has passed
func DeactivateEndedCourses(db *gorm.DB) {
	result := db.Model(&courseModels.Course{}).
		Where("is_active = ? AND end_date IS NOT NULL AND end_date < ?", true, time.Now()).
		Update("is_active", false)

	if result.Error != nil {
		log.Printf("[COURSE-SCHEDULER] Error deactivating ended courses: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[COURSE-SCHEDULER] Deactivated %d ended course(s)", result.RowsAffected)
	}
}
