package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker/internal/auth"
	"github.com/yukikurage/project-tracker/internal/constants"
	"github.com/yukikurage/project-tracker/internal/database"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
	"github.com/yukikurage/project-tracker/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type handlerTestEnv struct {
	db          *gorm.DB
	authService *services.AuthService
	auth        *AuthHandler
	users       *UserHandler
	projects    *ProjectHandler
	tasks       *TaskHandler
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(sqlite.Open(":memory:"), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	tokens, err := auth.NewTokenService("handler-test-secret", 30*time.Minute)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	authService := services.NewAuthService(userRepo, tokens)

	return handlerTestEnv{
		db:          db,
		authService: authService,
		auth:        NewAuthHandler(authService),
		users:       NewUserHandler(services.NewUserService(userRepo)),
		projects:    NewProjectHandler(services.NewProjectService(projectRepo)),
		tasks:       NewTaskHandler(services.NewTaskService(taskRepo, projectRepo)),
	}
}

// newSessionRouter returns an engine with the cookie session store installed.
func newSessionRouter() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	return r
}

func (env handlerTestEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw123",
	})
	require.NoError(t, err)
	return user
}

func (env handlerTestEnv) createProject(t *testing.T, name string, creatorID uint64) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, CreatedBy: creatorID}
	require.NoError(t, env.db.Create(project).Error)
	return project
}

func (env handlerTestEnv) createTask(t *testing.T, title string, projectID, creatorID uint64, assignee *uint64) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:      title,
		Status:     models.TaskStatusTodo,
		ProjectID:  projectID,
		CreatedBy:  creatorID,
		AssignedTo: assignee,
	}
	require.NoError(t, env.db.Omit("Project", "Assignee", "Creator").Create(task).Error)
	return task
}

// authContext builds a test context as if RequireAuth had resolved user.
func authContext(method, target string, body []byte, user *models.User, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	if user != nil {
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
	}

	return c, w
}

func jsonBody(t *testing.T, v interface{}) []byte {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return body
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func idParam(name string, id uint64) gin.Param {
	return gin.Param{Key: name, Value: strconv.FormatUint(id, 10)}
}
