package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"tmail/auth"
	"tmail/db"
	"tmail/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

var testRouterOnce sync.Once
var testRouter *gin.Engine

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	testRouterOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		db.InitTest()
		models.Init()

		router := gin.New()
		store := cookie.NewStore([]byte("test-session-key"))
		router.Use(sessions.Sessions("token", store))

		authRouter := &auth.Router{Base: router}
		router.POST("/user/register", UserRegister)
		router.POST("/user/login", UserLogin)
		authRouter.POST("/user/logout", UserLogout)
		authRouter.GET("/user/status", UserGetStatus)
		authRouter.GET("/user/list", UserListHandler, models.CapabilityPromoteUser)
		authRouter.POST("/user/delete", UserDelete, models.CapabilityPromoteUser)
		authRouter.POST("/invitation/apply", InvitationApply)
		authRouter.POST("/invitation/create", InvitationCreate, models.CapabilityManageAPIKey)
		router.POST("/invitation/validate", InvitationValidate)
		authRouter.POST("/config/save", SiteConfigSave, models.CapabilityManageConfig)
		authRouter.GET("/config/get", SiteConfigGet, models.CapabilityManageConfig)

		testRouter = router
	})
	return testRouter
}

// doJSON performs a request with an optional JSON body and session cookies
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response %q: %v", recorder.Body.String(), err)
	}
	return body
}

// loginAs creates a user with the given role (if any) and returns its
// session cookies
func loginAs(t *testing.T, router *gin.Engine, username string, role models.RoleName) (*models.User, []*http.Cookie) {
	t.Helper()
	user, err := models.UserCreate(username, username, username+"@example.com", "pw-"+username)
	if err != nil {
		t.Fatalf("UserCreate(%q): %v", username, err)
	}
	if role != "" {
		roleRecord, err := models.RoleFindOrCreate(db.Instance, role)
		if err != nil {
			t.Fatalf("RoleFindOrCreate(%q): %v", role, err)
		}
		if err := db.Instance.Create(&models.UserRole{UserID: user.ID, RoleID: roleRecord.ID}).Error; err != nil {
			t.Fatalf("granting %q: %v", role, err)
		}
	}
	recorder := doJSON(t, router, "POST", "/user/login", gin.H{"username": username, "password": "pw-" + username}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("login as %q: status %d body %s", username, recorder.Code, recorder.Body.String())
	}
	return &user, recorder.Result().Cookies()
}
