package inmemdb

import (
	"context"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/analytics"
)

type analyticsRepository struct {
	db *DB
}

var _ analytics.Repository = (*analyticsRepository)(nil)

func NewAnalyticsRepository(db *DB) analytics.Repository {
	return &analyticsRepository{db: db}
}

func (repo *analyticsRepository) SystemMetrics(context.Context) (analytics.SystemMetrics, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	m := analytics.SystemMetrics{
		TotalCourses:     len(repo.db.courses),
		TotalAssignments: len(repo.db.assignments),
		TotalSubmissions: len(repo.db.submissions),
		TotalEnrollments: len(repo.db.enrollments),
	}
	for _, u := range repo.db.users {
		switch u.Role {
		case core.RoleStudent:
			m.TotalStudents++
		case core.RoleLecturer:
			m.TotalLecturers++
		}
	}
	return m, nil
}
