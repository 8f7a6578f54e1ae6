package attendance

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

var (
	statusTag  = "attstatus"
	statusText = "{0} must be one of present, absent, late or excused"

	uniqueStudentsTag  = "uniqstudents"
	uniqueStudentsText = "a student can only appear once per attendance sheet"
)

// InitValidators registers the attendance validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	validate.RegisterStructValidation(newRecordStructValidation, NewRecord{})
	core.RegisterCustomTranslation(validate, translator, uniqueStudentsTag, uniqueStudentsText)
}

// NewRecord is the attendance sheet submitted by a teacher for a class on a day.
// It replaces any existing record of that (class, date).
type NewRecord struct {
	ClassID string  `json:"-"`
	Date    string  `json:"date" validate:"required,isodate"`
	Entries []Entry `json:"entries" validate:"required,min=1,dive"`
}

func (nr *NewRecord) Clean() {
	nr.ClassID = core.CleanString(nr.ClassID)
	nr.Date = core.CleanString(nr.Date)
	for i := range nr.Entries {
		nr.Entries[i].StudentID = core.CleanString(nr.Entries[i].StudentID)
		nr.Entries[i].Notes = core.CleanString(nr.Entries[i].Notes)
	}
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.Clean()
	return validate.Struct(nr)
}

// Custom Validators

// statusValidation checks that the status is one of Statuses.
func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}

// newRecordStructValidation checks that every student appears at most once.
func newRecordStructValidation(sl validator.StructLevel) {
	nr, ok := sl.Current().Interface().(NewRecord)
	if !ok {
		return
	}
	seen := make(map[string]struct{}, len(nr.Entries))
	for i, e := range nr.Entries {
		if _, dup := seen[e.StudentID]; dup {
			sl.ReportError(e.StudentID, fmt.Sprintf("entries[%d].student_id", i), "StudentID", uniqueStudentsTag, "")
			continue
		}
		seen[e.StudentID] = struct{}{}
	}
}
