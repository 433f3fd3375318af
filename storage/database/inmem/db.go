package inmemdb

import (
	"context"
	"sync"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/assignment"
	"github.com/coursehub/backend/core/course"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/core/submission"
	"github.com/coursehub/backend/core/user"
)

// DB keeps every table behind one lock so that checks and writes spanning
// several tables (uniqueness, references, cascades) are atomic.
type DB struct {
	sync.RWMutex
	users         map[string]*user.User
	courses       map[string]*course.Course
	enrollments   map[string]*enrollment.Enrollment
	assignments   map[string]*assignment.Assignment
	submissions   map[string]*submission.Submission
	notifications map[string]*notification.Notification
}

var _ core.Pinger = (*DB)(nil)

func Open() *DB {
	return &DB{
		users:         make(map[string]*user.User),
		courses:       make(map[string]*course.Course),
		enrollments:   make(map[string]*enrollment.Enrollment),
		assignments:   make(map[string]*assignment.Assignment),
		submissions:   make(map[string]*submission.Submission),
		notifications: make(map[string]*notification.Notification),
	}
}

func (db *DB) PingContext(context.Context) error { return nil }

// Reset empties every table.
func (db *DB) Reset() {
	db.Lock()
	defer db.Unlock()
	db.users = make(map[string]*user.User)
	db.courses = make(map[string]*course.Course)
	db.enrollments = make(map[string]*enrollment.Enrollment)
	db.assignments = make(map[string]*assignment.Assignment)
	db.submissions = make(map[string]*submission.Submission)
	db.notifications = make(map[string]*notification.Notification)
}

// cascade helpers; callers hold the write lock

func (db *DB) deleteUser(id string) {
	delete(db.users, id)
	for cid, c := range db.courses {
		if c.CreatedBy == id {
			db.deleteCourse(cid)
		}
	}
	for eid, e := range db.enrollments {
		if e.StudentID == id {
			delete(db.enrollments, eid)
		}
	}
	for sid, s := range db.submissions {
		if s.StudentID == id {
			delete(db.submissions, sid)
		} else if s.GradedBy.Valid && s.GradedBy.String == id {
			s.GradedBy.Valid = false
			s.GradedBy.String = ""
		}
	}
	for nid, n := range db.notifications {
		if n.UserID == id {
			delete(db.notifications, nid)
		}
	}
}

func (db *DB) deleteCourse(id string) {
	delete(db.courses, id)
	for eid, e := range db.enrollments {
		if e.CourseID == id {
			delete(db.enrollments, eid)
		}
	}
	for aid, a := range db.assignments {
		if a.CourseID == id {
			db.deleteAssignment(aid)
		}
	}
}

func (db *DB) deleteAssignment(id string) {
	delete(db.assignments, id)
	for sid, s := range db.submissions {
		if s.AssignmentID == id {
			delete(db.submissions, sid)
		}
	}
}
