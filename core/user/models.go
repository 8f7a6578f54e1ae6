package user

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

// Role is the portal a User belongs to.
type Role int

// Roles
const (
	RoleUnknown Role = iota
	RoleStudent
	RoleTeacher
	RoleAdmin
)

var (
	AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

	errInvalidRole = errors.New("invalid role")
)

// ParseRole maps the textual role ("student", "teacher" or "admin") to a Role.
func ParseRole(s string) (Role, error) {
	switch core.CleanString(s, true /* lower */) {
	case "student":
		return RoleStudent, nil
	case "teacher":
		return RoleTeacher, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleUnknown, errors.Wrapf(errInvalidRole, "%q", s)
}

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleTeacher:
		return "teacher"
	case RoleAdmin:
		return "admin"
	case RoleUnknown:
	}
	return "unknown"
}

// Priority orders roles: admins 30, teachers 20, students 10.
func (r Role) Priority() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleTeacher:
		return 20
	case RoleStudent:
		return 10
	case RoleUnknown:
	}
	return 0
}

func (r Role) MarshalText() ([]byte, error) {
	if r == RoleUnknown {
		return nil, errInvalidRole
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

type (
	StudentProfile struct {
		StudentNo string `json:"student_no"`
		Class     string `json:"class"`
		Section   string `json:"section"`
	}

	TeacherProfile struct {
		EmployeeNo string   `json:"employee_no"`
		Subjects   []string `json:"subjects"`
		Classes    []string `json:"classes"` // sections taught, eg. "10A"
	}

	AdminProfile struct {
		EmployeeNo string `json:"employee_no"`
		Department string `json:"department"`
	}
)

type User struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Role    Role            `json:"role"`
	Avatar  string          `json:"avatar,omitempty"`
	Student *StudentProfile `json:"student,omitempty"`
	Teacher *TeacherProfile `json:"teacher,omitempty"`
	Admin   *AdminProfile   `json:"admin,omitempty"`
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }

// LoginRequest holds the demo login form. The password is required but never verified.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

func (lr *LoginRequest) Clean() {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	lr.Role = core.CleanString(lr.Role, true /* lower */)
}

type QueryFilter struct {
	Search string `query:"search"`
	Role   Role   `query:"-"`
	IDs    []string
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
}

// Match applies AND on the set filter fields. Search is a case-insensitive match on Name or Email.
func (qf QueryFilter) Match(u User) bool {
	if qf.Role != RoleUnknown && u.Role != qf.Role {
		return false
	}
	if qf.Search != "" &&
		!strings.Contains(strings.ToLower(u.Name), qf.Search) &&
		!strings.Contains(strings.ToLower(u.Email), qf.Search) {
		return false
	}
	if qf.IDs != nil {
		for _, id := range qf.IDs {
			if id == u.ID {
				return true
			}
		}
		return false
	}
	return true
}
