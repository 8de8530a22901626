package utils

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSchedulerTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func TestRefreshCourseRatings(t *testing.T) {
	db := setupSchedulerTest(t)

	course := courseModels.Course{Title: "Rated Course", Category: "misc", Status: "PUBLISHED", CreatedBy: 1}
	require.NoError(t, db.Create(&course).Error)

	for i, r := range []int{5, 4, 3} {
		rating := courseModels.CourseRating{CourseID: course.ID, UserID: uint(i + 1), Rating: r}
		require.NoError(t, db.Create(&rating).Error)
	}

	refreshCourseRatings()

	var got courseModels.Course
	require.NoError(t, db.First(&got, course.ID).Error)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, int64(3), got.RatingCount)
}

func TestExpireStaleCertificateRequests(t *testing.T) {
	db := setupSchedulerTest(t)

	stale := courseModels.CertificateRequest{
		UserID:       1,
		CourseID:     1,
		EnrollmentID: 1,
		Status:       "PENDING",
		RequestedAt:  time.Now().AddDate(0, 0, -(certificateRequestTTLDays + 1)),
	}
	require.NoError(t, db.Create(&stale).Error)

	fresh := courseModels.CertificateRequest{
		UserID:       2,
		CourseID:     1,
		EnrollmentID: 2,
		Status:       "PENDING",
		RequestedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&fresh).Error)

	expireStaleCertificateRequests()

	var gotStale courseModels.CertificateRequest
	require.NoError(t, db.First(&gotStale, stale.ID).Error)
	assert.Equal(t, "EXPIRED", gotStale.Status)

	var gotFresh courseModels.CertificateRequest
	require.NoError(t, db.First(&gotFresh, fresh.ID).Error)
	assert.Equal(t, "PENDING", gotFresh.Status)
}
