package echoapi

import (
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/user"
)

func TestUserApi_login(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  interface{}
	}{
		{"student", `{"email": "John.Smith@school.edu ", "password": "any", "role": "student"}`, http.StatusOK, nil},
		{"teacher", `{"email": "jessica.brown@school.edu", "password": "any", "role": "Teacher"}`, http.StatusOK, nil},
		{"wrong role", `{"email": "jessica.brown@school.edu", "password": "any", "role": "admin"}`, http.StatusBadRequest,
			httpErr{Error: "authentication failed"}},
		{"unknown email", `{"email": "nobody@school.edu", "password": "any", "role": "student"}`, http.StatusBadRequest,
			httpErr{Error: "authentication failed"}},
		{"missing fields", `{"email": "john"}`, http.StatusBadRequest, map[string]string{
			"email":    "email must be a valid email address",
			"password": "this field is required",
			"role":     "this field is required",
		}},
		{"invalid role", `{"email": "john.smith@school.edu", "password": "x", "role": "parent"}`, http.StatusBadRequest,
			map[string]string{"role": "role must be one of student, teacher or admin"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.do(httpTest{method: http.MethodPost, path: "/v1/users/login", body: []byte(tc.body)})
			if tc.wantErr != nil {
				checkCodeAndData(t, httpTest{wantCode: tc.wantCode, wantData: marshalObj(t, tc.wantErr)}, rec)
				return
			}
			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())

			var resp LoginResponse
			decode(t, rec, &resp)
			assert.NotEmpty(t, resp.Token)

			claims := new(Claims)
			_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
				return app.srv.auth.jwtConfig.SigningKey, nil
			})
			require.NoError(t, err)
			assert.Equal(t, resp.User.ID, claims.Subject)
			assert.Equal(t, resp.User.Role, claims.Role)
		})
	}
}

func TestUserApi_me(t *testing.T) {
	app := setup(t)
	usr := app.getUser(t, "4")

	tests := []httpTest{
		{name: "no token", token: "", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "bad token", token: "not-a-jwt", wantCode: http.StatusUnauthorized},
		{name: "teacher", token: app.getToken(t, "4"), wantCode: http.StatusOK, wantData: marshalObj(t, usr)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.method, tc.path = http.MethodGet, "/v1/users/me"
			checkCodeAndData(t, tc, app.do(tc))
		})
	}
}

func TestUserApi_query(t *testing.T) {
	app := setup(t)
	admin := app.getToken(t, "6")

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
		wantIDs  []string
	}{
		{"student forbidden", "/v1/users", app.getToken(t, "1"), http.StatusForbidden, nil},
		{"teacher forbidden", "/v1/users", app.getToken(t, "4"), http.StatusForbidden, nil},
		{"admin", "/v1/users", admin, http.StatusOK, []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"by role", "/v1/users?role=teacher", admin, http.StatusOK, []string{"4", "5"}},
		{"search", "/v1/users?search=OLIVIA", admin, http.StatusOK, []string{"7"}},
		{"unknown role", "/v1/users?role=parent", admin, http.StatusOK, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.do(httpTest{method: http.MethodGet, path: tc.path, token: tc.token})
			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
			if tc.wantIDs == nil {
				return
			}
			var users []user.User
			decode(t, rec, &users)
			ids := make([]string, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}
