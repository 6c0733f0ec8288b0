package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/auth"
	"github.com/hugh/lawconnect/internal/database"
	"github.com/hugh/lawconnect/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "testpassword123"

// SetupTestDB creates an in-memory SQLite database for testing. The pool is
// pinned to one connection because each sqlite :memory: connection is its
// own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateTestUser creates an active user with TestPassword and the given role.
func CreateTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	email := role + "-" + uuid.New().String()[:8] + "@example.com"
	user, err := models.NewUser("Test "+role, email, TestPassword, role)
	if err != nil {
		t.Fatalf("failed to build test user: %v", err)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCase creates a case owned by clientID, optionally assigned to lawyerID.
func CreateTestCase(t *testing.T, db *gorm.DB, clientID uuid.UUID, lawyerID *uuid.UUID) *models.Case {
	t.Helper()

	c := models.NewCase(clientID, "Unpaid wages", "Employer has not paid the last two months of salary.", "labor", time.Now())
	c.LawyerID = lawyerID
	if lawyerID != nil {
		c.Status = models.CaseStatusAssigned
	}

	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test case: %v", err)
	}
	return c
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// AuthenticatedRequest creates an HTTP request with a bearer token
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Clock is a settable time source for services that accept one.
type Clock struct {
	T time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{T: t}
}

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	User       *models.User
	Token      string
}

// NewTestContext creates a test setup with DB, a client user and their token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	user := CreateTestUser(t, db, models.RoleClient)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		User:       user,
		Token:      GenerateTestToken(t, jwtService, user),
	}
}

// UserWithToken adds another user of the given role and returns their token.
func (ts *TestSetup) UserWithToken(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	user := CreateTestUser(t, ts.DB, role)
	return user, GenerateTestToken(t, ts.JWTService, user)
}
