package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/user"
)

var (
	// errors
	ErrNotFound  = errors.New("attendance record not found")
	ErrForbidden = errors.New("not allowed to mark attendance for this class")

	nowFunc = time.Now // mockable
)

// OrphanPolicy decides what happens to submitted entries of students not enrolled in the class.
type OrphanPolicy int

const (
	OrphanWarn   OrphanPolicy = iota // keep the entry and log a data-integrity warning
	OrphanIgnore                     // keep the entry silently
	OrphanReject                     // refuse the whole sheet
)

func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch core.CleanString(s, true /* lower */) {
	case "", "warn":
		return OrphanWarn, nil
	case "ignore":
		return OrphanIgnore, nil
	case "reject":
		return OrphanReject, nil
	}
	return OrphanWarn, errors.Errorf("invalid orphan policy %q", s)
}

type (
	QueryFilter struct {
		StudentID string   // records holding an entry for the student
		ClassIDs  []string // records of any of the classes
	}

	Repository interface {
		// QueryRecords applies AND operation on available QueryFilter fields; a nil filter returns all records.
		QueryRecords(ctx context.Context, filter *QueryFilter) ([]Record, error)
		GetRecord(ctx context.Context, classID, date string) (Record, error)
		// SaveRecord replaces the record of (rec.ClassID, rec.Date) as a whole.
		SaveRecord(ctx context.Context, rec Record) (Record, error)
	}

	ClassGetter interface {
		Get(ctx context.Context, id string) (class.Class, error)
	}

	// SaveListener is told about every saved record.
	SaveListener interface {
		AttendanceSaved(ctx context.Context, cls class.Class, rec Record) error
	}

	Options struct {
		OrphanPolicy OrphanPolicy
		Listeners    []SaveListener
	}

	Service struct {
		repo     Repository
		classes  ClassGetter
		validate *validator.Validate
		logger   core.Logger
		opts     Options
	}
)

func NewService(repo Repository, classes ClassGetter, validate *validator.Validate, logger core.Logger, opts Options) *Service {
	return &Service{
		repo:     repo,
		classes:  classes,
		validate: validate,
		logger:   logger,
		opts:     opts,
	}
}

// Subscribe adds a listener told about every saved record. Not safe for use once the service is serving.
func (svc *Service) Subscribe(l SaveListener) {
	svc.opts.Listeners = append(svc.opts.Listeners, l)
}

func (svc *Service) Records(ctx context.Context, filter *QueryFilter) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, filter)
}

func (svc *Service) Summary(ctx context.Context, studentID string) (Summary, error) {
	records, err := svc.repo.QueryRecords(ctx, &QueryFilter{StudentID: studentID})
	if err != nil {
		return Summary{}, errors.Wrap(err, "querying student records")
	}
	return Summarize(studentID, records), nil
}

func (svc *Service) ClassRate(ctx context.Context, classID string) (ClassRate, error) {
	records, err := svc.repo.QueryRecords(ctx, &QueryFilter{ClassIDs: []string{classID}})
	if err != nil {
		return ClassRate{}, errors.Wrap(err, "querying class records")
	}
	return RateForClass(classID, records), nil
}

// ClassRates computes the rate of each class, in the given order.
func (svc *Service) ClassRates(ctx context.Context, classIDs []string) ([]ClassRate, error) {
	rates := make([]ClassRate, 0, len(classIDs))
	if len(classIDs) == 0 {
		return rates, nil
	}
	records, err := svc.repo.QueryRecords(ctx, &QueryFilter{ClassIDs: classIDs})
	if err != nil {
		return nil, errors.Wrap(err, "querying class records")
	}
	for _, id := range classIDs {
		rates = append(rates, RateForClass(id, records))
	}
	return rates, nil
}

func (svc *Service) Monthly(ctx context.Context, studentID string, from, to time.Time) ([]MonthlyReport, error) {
	records, err := svc.repo.QueryRecords(ctx, &QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, errors.Wrap(err, "querying student records")
	}
	reports, warnings := MonthlyReports(studentID, from, to, records)
	svc.warn(warnings)
	return reports, nil
}

// History returns the student's records dated within [from, to], most recent first.
func (svc *Service) History(ctx context.Context, studentID string, from, to time.Time) ([]Record, error) {
	records, err := svc.repo.QueryRecords(ctx, &QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, errors.Wrap(err, "querying student records")
	}
	inRange, warnings := InRange(records, from, to)
	svc.warn(warnings)
	return SortByDateDesc(inRange), nil
}

func (svc *Service) Tally(ctx context.Context, filter *QueryFilter) (Counts, error) {
	records, err := svc.repo.QueryRecords(ctx, filter)
	if err != nil {
		return Counts{}, errors.Wrap(err, "querying records")
	}
	return Tally(records), nil
}

// Sheet returns the marking sheet of the class on date.
func (svc *Service) Sheet(ctx context.Context, cls class.Class, date string) (Sheet, error) {
	if _, err := core.ParseDate(date); err != nil {
		return Sheet{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "date must be formatted as YYYY-MM-DD"})
	}
	sheet := Sheet{ClassID: cls.ID, Date: date, Entries: make([]Entry, 0, len(cls.StudentIDs))}

	rec, err := svc.repo.GetRecord(ctx, cls.ID, date)
	switch errors.Cause(err) {
	case nil:
		sheet.Exists = true
	case ErrNotFound:
	default:
		return Sheet{}, errors.Wrap(err, "getting record")
	}

	for _, id := range cls.StudentIDs {
		if entry, ok := rec.Entry(id); ok {
			sheet.Entries = append(sheet.Entries, entry)
		} else {
			sheet.Entries = append(sheet.Entries, Entry{StudentID: id, Status: StatusPresent})
		}
	}
	return sheet, nil
}

// Save validates and stores the sheet as the record of (nr.ClassID, nr.Date), replacing any existing one.
func (svc *Service) Save(ctx context.Context, nr NewRecord, by user.User) (Record, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Record{}, err
	}

	cls, err := svc.classes.Get(ctx, nr.ClassID)
	if err != nil {
		return Record{}, errors.Wrap(err, "getting class")
	}
	if err = canMark(cls, by); err != nil {
		return Record{}, err
	}
	if err = svc.checkOrphans(cls, nr.Entries); err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:        RecordID(cls.ID, nr.Date),
		ClassID:   cls.ID,
		Date:      nr.Date,
		Entries:   nr.Entries,
		CreatedBy: by.ID,
	}
	existing, err := svc.repo.GetRecord(ctx, cls.ID, nr.Date)
	switch errors.Cause(err) {
	case nil:
		now := nowFunc().UTC()
		rec.CreatedBy = existing.CreatedBy
		rec.LastUpdatedBy = by.ID
		rec.LastUpdatedAt = &now
	case ErrNotFound:
	default:
		return Record{}, errors.Wrap(err, "getting existing record")
	}

	saved, err := svc.repo.SaveRecord(ctx, rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "saving record")
	}

	for _, l := range svc.opts.Listeners {
		if err := l.AttendanceSaved(ctx, cls, saved.Clone()); err != nil {
			svc.logger.Error(fmt.Sprintf("attendance saved listener: %v", err), err, by)
		}
	}
	return saved, nil
}

func canMark(cls class.Class, by user.User) error {
	switch by.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleTeacher:
		if cls.TeacherID == by.ID {
			return nil
		}
	case user.RoleStudent, user.RoleUnknown:
	}
	return ErrForbidden
}

func (svc *Service) checkOrphans(cls class.Class, entries []Entry) error {
	var fields []core.FieldError
	for i, e := range entries {
		if cls.Enrolled(e.StudentID) {
			continue
		}
		switch svc.opts.OrphanPolicy {
		case OrphanIgnore:
		case OrphanWarn:
			svc.logger.Warn(fmt.Sprintf("student %s is not enrolled in class %s", e.StudentID, cls.ID))
		case OrphanReject:
			fields = append(fields, core.FieldError{
				Field: fmt.Sprintf("entries[%d].student_id", i),
				Error: fmt.Sprintf("student %s is not enrolled in this class", e.StudentID),
			})
		}
	}
	if fields != nil {
		return core.NewValidationError(errors.New("students not enrolled in class"), fields...)
	}
	return nil
}

func (svc *Service) warn(warnings []DataWarning) {
	for _, w := range warnings {
		svc.logger.Warn("attendance data integrity: "+w.String(), w)
	}
}
