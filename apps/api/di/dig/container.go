package dig_container

import (
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/coursehub/backend/apps/api/echo"
	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/analytics"
	"github.com/coursehub/backend/core/assignment"
	"github.com/coursehub/backend/core/course"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/grading"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/core/submission"
	"github.com/coursehub/backend/core/user"
	emailsvc "github.com/coursehub/backend/services/email"
	logsvc "github.com/coursehub/backend/services/logger"
	queuesvc "github.com/coursehub/backend/services/queue"
	"github.com/coursehub/backend/storage/database"
	inmemdb "github.com/coursehub/backend/storage/database/inmem"
	sqlxrepos "github.com/coursehub/backend/storage/database/sqlx"
)

type (
	// Loggers are the named zap loggers of the API process.
	// Flush must run once every other component has stopped.
	Loggers struct {
		dig.Out
		API    core.Logger
		DB     core.Logger `name:"dbLogger"`
		Notify core.Logger `name:"notifyLogger"`
		Flush  LogFlusher
	}
	LogFlusher func()

	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Repositories is the storage layer: postgres, or the in-memory store when
	// Database.InMemory is set.
	Repositories struct {
		dig.Out
		DB            core.Pinger
		Close         DBCloser
		Users         user.Repository
		Courses       course.Repository
		Enrollments   enrollment.Repository
		Assignments   assignment.Repository
		Submissions   submission.Repository
		Notifications notification.Repository
		Analytics     analytics.Repository
	}
	DBCloser func() error

	// ShutdownChan receives a value when a handler hits a shutdown error.
	ShutdownChan chan struct{}

	servicesIn struct {
		dig.In
		Logger        core.Logger
		Notifier      notification.Notifier
		Courses       course.Repository
		Enrollments   enrollment.Repository
		Assignments   assignment.Repository
		Submissions   submission.Repository
		Notifications notification.Repository
		Analytics     analytics.Repository
	}

	Services struct {
		dig.Out
		Course       *course.Service
		Enrollment   *enrollment.Service
		Assignment   *assignment.Service
		Submission   *submission.Service
		Grading      *grading.Service
		Analytics    *analytics.Service
		Notification *notification.Service
	}

	dispatcherIn struct {
		dig.In
		Conf    *core.Config
		Queue   notification.Queue
		Repo    notification.Repository
		Logger  core.Logger `name:"notifyLogger"`
		Users   *user.Service
		MailSvc core.EmailService
	}

	serverIn struct {
		dig.In
		Conf         *core.Config
		Logger       core.Logger
		Validate     *validator.Validate
		Translator   ut.Translator
		DB           core.Pinger
		Shutdown     ShutdownChan
		User         *user.Service
		Course       *course.Service
		Enrollment   *enrollment.Service
		Assignment   *assignment.Service
		Submission   *submission.Service
		Grading      *grading.Service
		Analytics    *analytics.Service
		Notification *notification.Service
	}
)

func newLoggers(conf *core.Config) (Loggers, error) {
	logsvc.InitRollbar(conf)

	api, err := logsvc.NewLogger("API", conf)
	if err != nil {
		return Loggers{}, err
	}
	db, err := logsvc.NewLogger("DB", conf)
	if err != nil {
		return Loggers{}, err
	}
	notify, err := logsvc.NewLogger("NOTIFY", conf)
	if err != nil {
		return Loggers{}, err
	}
	return Loggers{
		API:    api,
		DB:     db,
		Notify: notify,
		Flush: func() {
			notify.Close()
			db.Close()
			api.Close()
		},
	}, nil
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) (Repositories, error) {
	logger := loggerParam.Logger

	if conf.Database.InMemory {
		logger.Warn("using the in-memory store; data is lost on exit")
		db := inmemdb.Open()
		return Repositories{
			DB:            db,
			Close:         func() error { return nil },
			Users:         inmemdb.NewUserRepository(db),
			Courses:       inmemdb.NewCourseRepository(db),
			Enrollments:   inmemdb.NewEnrollmentRepository(db),
			Assignments:   inmemdb.NewAssignmentRepository(db),
			Submissions:   inmemdb.NewSubmissionRepository(db),
			Notifications: inmemdb.NewNotificationRepository(db),
			Analytics:     inmemdb.NewAnalyticsRepository(db),
		}, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return Repositories{}, errors.Wrap(err, "setting up database")
	}
	db, err := database.Open(conf)
	if err != nil {
		return Repositories{}, err
	}
	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return Repositories{}, errors.Wrap(err, "migrating database")
	}
	logger.Info("database ready", map[string]interface{}{"name": conf.Database.Name, "host": conf.Database.Host})

	return Repositories{
		DB:            db,
		Close:         db.Close,
		Users:         sqlxrepos.NewUserRepository(db),
		Courses:       sqlxrepos.NewCourseRepository(db),
		Enrollments:   sqlxrepos.NewEnrollmentRepository(db),
		Assignments:   sqlxrepos.NewAssignmentRepository(db),
		Submissions:   sqlxrepos.NewSubmissionRepository(db),
		Notifications: sqlxrepos.NewNotificationRepository(db),
		Analytics:     sqlxrepos.NewAnalyticsRepository(db),
	}, nil
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newQueue(conf *core.Config) (notification.Queue, error) {
	switch conf.Notifications.Queue {
	case "", "memory":
		return notification.NewMemoryQueue(conf.Notifications.BufferSize), nil
	case "redis":
		rdb := queuesvc.NewRedisClient(conf)
		return queuesvc.NewRedisQueue(rdb, conf.Redis.QueueKey, conf.Notifications.BufferSize), nil
	default:
		return nil, errors.Errorf("unknown notification queue %q", conf.Notifications.Queue)
	}
}

func newDispatcher(in dispatcherIn) *notification.Dispatcher {
	return notification.NewDispatcher(notification.DispatcherOptions{
		Queue:      in.Queue,
		Repo:       in.Repo,
		Logger:     in.Logger,
		Workers:    in.Conf.Notifications.Workers,
		SendEmails: in.Conf.Notifications.SendEmails,
		Users:      in.Users,
		MailSvc:    in.MailSvc,
	})
}

func newNotifier(d *notification.Dispatcher) notification.Notifier {
	return d
}

func newServices(in servicesIn) Services {
	enrollmentSvc := enrollment.NewService(in.Enrollments, in.Courses, in.Notifier)
	return Services{
		Course:     course.NewService(in.Courses, in.Notifier),
		Enrollment: enrollmentSvc,
		Assignment: assignment.NewService(in.Assignments, in.Courses, enrollmentSvc, in.Notifier, in.Logger),
		Submission: submission.NewService(in.Submissions, in.Assignments, in.Courses, in.Notifier),
		Grading:    grading.NewService(in.Submissions, in.Notifier),
		Analytics: analytics.NewService(analytics.Deps{
			Repo:        in.Analytics,
			Courses:     in.Courses,
			Enrollments: in.Enrollments,
			Assignments: in.Assignments,
			Submissions: in.Submissions,
		}),
		Notification: notification.NewService(in.Notifications),
	}
}

func newShutdownChan() ShutdownChan {
	return make(ShutdownChan, 1)
}

func newServer(in serverIn) echoapi.Server {
	return echoapi.NewServer(
		&echoapi.Options{
			Address:        in.Conf.Server.Address,
			ReadTimeout:    in.Conf.Server.ReadTimeout,
			WriteTimeout:   in.Conf.Server.WriteTimeout,
			Debug:          in.Conf.Debug,
			TestMode:       in.Conf.TestMode,
			DisableReqLogs: in.Conf.Server.DisableReqLogs,
			SecretKey:      []byte(in.Conf.SecretKey),
			AppName:        in.Conf.AppName,
		},
		in.Shutdown,
		&echoapi.Deps{
			Logger:          in.Logger,
			Validate:        in.Validate,
			Translator:      in.Translator,
			DB:              in.DB,
			UserSvc:         in.User,
			CourseSvc:       in.Course,
			EnrollmentSvc:   in.Enrollment,
			AssignmentSvc:   in.Assignment,
			SubmissionSvc:   in.Submission,
			GradingSvc:      in.Grading,
			AnalyticsSvc:    in.Analytics,
			NotificationSvc: in.Notification,
		},
	)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLoggers))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(newQueue))
	must(c.Provide(user.NewService))
	must(c.Provide(newDispatcher))
	must(c.Provide(newNotifier))
	must(c.Provide(newServices))
	must(c.Provide(newShutdownChan))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
