// Package shared wires the core services, for the API and the admin CLI alike.
package shared

import (
	"math/rand"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/dashboard"
	"github.com/trezcool/mahudhurio/core/notification"
	"github.com/trezcool/mahudhurio/core/user"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
)

type App struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

	DB              *inmemdb.DB
	UserSvc         *user.Service
	ClassSvc        *class.Service
	AttendanceSvc   *attendance.Service
	NotificationSvc *notification.Service
	DashboardSvc    *dashboard.Service
}

// NewValidator returns a validator with every custom tag & translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	return validate, translator
}

// NewApp wires the services on top of db.
func NewApp(conf *core.Config, logger core.Logger, mailSvc core.EmailService, db *inmemdb.DB) (*App, error) {
	policy, err := attendance.ParseOrphanPolicy(conf.Attendance.OrphanPolicy)
	if err != nil {
		return nil, errors.Wrap(err, "reading attendance.orphanPolicy")
	}
	validate, translator := NewValidator()

	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	clsSvc := class.NewService(inmemdb.NewClassRepository(db))
	attSvc := attendance.NewService(
		inmemdb.NewAttendanceRepository(db),
		clsSvc,
		validate,
		logger,
		attendance.Options{OrphanPolicy: policy},
	)
	notifSvc := notification.NewService(inmemdb.NewNotificationRepository(db), usrSvc, attSvc, mailSvc)
	attSvc.Subscribe(notifSvc)

	return &App{
		Conf:            conf,
		Logger:          logger,
		Validate:        validate,
		Translator:      translator,
		DB:              db,
		UserSvc:         usrSvc,
		ClassSvc:        clsSvc,
		AttendanceSvc:   attSvc,
		NotificationSvc: notifSvc,
		DashboardSvc:    dashboard.NewService(usrSvc, clsSvc, attSvc, notifSvc),
	}, nil
}

// NewSeededApp wires the services on an in-memory store seeded with the demo school.
func NewSeededApp(conf *core.Config, logger core.Logger, mailSvc core.EmailService) (*App, error) {
	db := inmemdb.Open()
	opts := inmemdb.SeedOptions{Days: conf.Attendance.SeedDays, Now: time.Now()}
	if conf.Attendance.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(conf.Attendance.Seed))
	}
	inmemdb.Seed(db, opts)
	return NewApp(conf, logger, mailSvc, db)
}
