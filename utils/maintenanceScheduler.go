package utils

import (
	"lms/database"
	courseModels "lms/models/course"
	"log"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// certificateRequestTTLDays is how long a PENDING certificate request
// stays open before it expires
const certificateRequestTTLDays = 30

func logScheduler(message string) {
	log.Printf("[MAINTENANCE-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// refreshCourseRatings recomputes the denormalized rating aggregate on
// each course from its rating rows
func refreshCourseRatings() {
	db := database.Database.Db

	var courses []courseModels.Course
	if err := db.Where("is_deleted = ?", false).Find(&courses).Error; err != nil {
		logScheduler("Error fetching courses: " + err.Error())
		return
	}

	for _, course := range courses {
		var stats struct {
			Avg   float64
			Count int64
		}
		err := db.Model(&courseModels.CourseRating{}).
			Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
			Where("course_id = ? AND is_deleted = ?", course.ID, false).
			Scan(&stats).Error
		if err != nil {
			logScheduler("Error aggregating ratings: " + err.Error())
			continue
		}

		if course.Rating == stats.Avg && course.RatingCount == stats.Count {
			continue
		}

		if err := db.Model(&courseModels.Course{}).Where("id = ?", course.ID).
			Updates(map[string]interface{}{"rating": stats.Avg, "rating_count": stats.Count}).Error; err != nil {
			logScheduler("Error updating course rating: " + err.Error())
		}
	}
}

// expireStaleCertificateRequests moves old PENDING requests to EXPIRED
func expireStaleCertificateRequests() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -certificateRequestTTLDays)

	result := db.Model(&courseModels.CertificateRequest{}).
		Where("status = ? AND requested_at < ? AND is_deleted = ?", "PENDING", cutoff, false).
		Update("status", "EXPIRED")
	if result.Error != nil {
		logScheduler("Error expiring certificate requests: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logScheduler("Expired " + strconv.FormatInt(result.RowsAffected, 10) + " stale certificate requests")
	}
}

// StartMaintenanceScheduler runs the background housekeeping jobs
func StartMaintenanceScheduler() *cron.Cron {
	c := cron.New()

	// Hourly rating aggregate refresh
	c.AddFunc("0 * * * *", refreshCourseRatings)

	// Daily certificate request expiry at 02:00
	c.AddFunc("0 2 * * *", expireStaleCertificateRequests)

	c.Start()
	logScheduler("Maintenance scheduler started")
	return c
}
