package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"hcp-visit-tracker/internal/config"
	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/internal/repository"
	"hcp-visit-tracker/internal/service"
	"hcp-visit-tracker/internal/testutil"
	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testServer struct {
	router  *gin.Engine
	db      *gorm.DB
	tokens  *utils.TokenIssuer
	fixture *testutil.Fixture
	admin   *models.User
	rep     *models.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cost := utils.BcryptCost
	utils.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { utils.BcryptCost = cost })

	db := testutil.NewDB(t)
	fixture := testutil.SeedVisits(t, db)

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}}}
	log := zerolog.Nop()
	tokens := utils.NewTokenIssuer("handler-test-secret", 15*time.Minute, 24*time.Hour)

	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	authService := service.NewAuthService(userRepo, auditRepo, tokens)

	admin, err := authService.CreateUser(context.Background(), "Admin", "admin@example.com", "admin-pass", models.RoleAdmin)
	require.NoError(t, err)
	rep, err := authService.CreateUser(context.Background(), "Rep", "rep@example.com", "rep-pass", models.RoleRep)
	require.NoError(t, err)

	router := NewRouter(cfg, log, tokens, Handlers{
		Auth:   NewAuthHandler(authService, tokens, false, log),
		Visit:  NewVisitHandler(service.NewVisitService(repository.NewVisitRepo(db)), log),
		Hcp:    NewHcpHandler(service.NewHcpService(repository.NewHcpRepo(db), auditRepo), log),
		Lookup: NewLookupHandler(service.NewLookupService(repository.NewLookupRepo(db)), log),
		Health: NewHealthHandler(db),
	})

	return &testServer{router: router, db: db, tokens: tokens, fixture: fixture, admin: admin, rep: rep}
}

func (s *testServer) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := s.tokens.GenerateAccessToken(user.ID, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

// do sends a request; a non-nil body is JSON encoded unless it is already raw bytes
func (s *testServer) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
