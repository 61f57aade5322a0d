package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pharmacy-core/app/server/config"
	"pharmacy-core/app/server/jwt"
	"pharmacy-core/app/server/models"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

// mailerStub 捕获投递的邮件，fail 为 true 时模拟投递失败
type mailerStub struct {
	sent []sentMail
	fail bool
}

func (m *mailerStub) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type testEnv struct {
	e    *echo.Echo
	app  *App
	db   *gorm.DB
	jwt  *jwt.JWT
	mail *mailerStub
	cfg  *config.Config
}

// newTestEnv 使用临时目录里的 sqlite 数据库拉起完整路由
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Drug{},
		&models.Prescription{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
	))

	j, err := jwt.New("test-signature-secret")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.System.FrontendURL = "https://pharmacy.example.com"
	cfg.Security.AccessTokenTTL = 15 * time.Minute
	cfg.Security.RefreshTokenTTL = 24 * time.Hour

	mail := &mailerStub{}
	app := NewApp(zap.NewNop(), db, nil, j, mail, cfg)

	e := echo.New()
	app.RegisterRoutes(e)

	return &testEnv{
		e:    e,
		app:  app,
		db:   db,
		jwt:  j,
		mail: mail,
		cfg:  cfg,
	}
}

func (env *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) *T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return &v
}

func (env *testEnv) createUser(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	require.NoError(t, err)

	user := models.User{
		Email:    email,
		Username: email,
		Password: hash,
		Role:     role,
	}
	require.NoError(t, env.db.Create(&user).Error)
	return &user
}

func (env *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	now := time.Now()
	token, err := env.jwt.SignToken(&jwt.User{
		ID:      user.ID,
		Role:    user.Role,
		Issued:  now.Unix(),
		Expires: now.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return token
}

func (env *testEnv) createDrug(t *testing.T, drug models.Drug) *models.Drug {
	t.Helper()

	require.NoError(t, env.db.Create(&drug).Error)
	return &drug
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
