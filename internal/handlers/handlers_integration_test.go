package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"tokorating/internal/handlers"
	"tokorating/internal/middleware"
	"tokorating/internal/models"
	"tokorating/internal/repositories"
	"tokorating/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test_jwt_secret"

// testEnv bundles the app with the repositories the assertions inspect.
type testEnv struct {
	app        *fiber.App
	ratingRepo repositories.RatingRepository
	storeRepo  repositories.StoreRepository
	userRepo   repositories.UserRepository
}

// setupApp wires the full application against an in-memory SQLite database,
// mirroring the wiring in main.go. Each test uses its own named database.
func setupApp(t *testing.T, dbName string) *testEnv {
	t.Helper()

	viper.Set("JWT_SECRET", testJWTSecret)
	jwtSecret := viper.GetString("JWT_SECRET")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{}))

	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	userService := services.NewUserService(userRepo, storeRepo, ratingRepo)
	storeService := services.NewStoreService(storeRepo, userRepo, ratingRepo)
	ratingService := services.NewRatingService(ratingRepo, storeRepo, userRepo, nil)
	dashboardService := services.NewDashboardService(userRepo, storeRepo, ratingRepo, storeService)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storeService, ratingService)
	storeHandler := handlers.NewStoreHandler(storeService, ratingService)
	storeOwnerHandler := handlers.NewStoreOwnerHandler(storeService)
	adminHandler := handlers.NewAdminHandler(userService, storeService, dashboardService)

	app := fiber.New()
	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(api)
	storeHandler.RegisterRoutes(api, authRequired)
	userHandler.RegisterRoutes(api, authRequired)
	storeOwnerHandler.RegisterRoutes(api, authRequired, middleware.RequireRole(models.RoleStoreOwner))
	adminHandler.RegisterRoutes(api, authRequired, middleware.RequireRole(models.RoleAdmin))

	return &testEnv{app: app, ratingRepo: ratingRepo, storeRepo: storeRepo, userRepo: userRepo}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin creates a user with the given role and returns its token
// and id.
func registerAndLogin(t *testing.T, app *fiber.App, name, email, role string) (string, string) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"address":  "Jl. Kenanga 7",
		"password": "password123",
		"role":     role,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp.Token)
	return loginResp.Token, loginResp.User.ID
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := setupApp(t, "it_auth")

	user := map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"address":  "Jl. Kenanga 7",
		"password": "password123",
	}
	resp := doJSON(t, env.app, http.MethodPost, "/api/auth/register", "", user)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp map[string]interface{}
	decode(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])
	// The password hash never appears in a response
	userBody, _ := registerResp["user"].(map[string]interface{})
	assert.NotContains(t, userBody, "password")
	assert.NotContains(t, userBody, "Password")
	assert.Equal(t, "user", userBody["role"])

	// Duplicate registration
	resp = doJSON(t, env.app, http.MethodPost, "/api/auth/register", "", user)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Login
	resp = doJSON(t, env.app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]interface{}
	decode(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])

	// Wrong password
	resp = doJSON(t, env.app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthRejectionsAreDistinct(t *testing.T) {
	env := setupApp(t, "it_tokens")

	// No token
	resp := doJSON(t, env.app, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Malformed token
	resp = doJSON(t, env.app, http.MethodGet, "/api/users/profile", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "Invalid token.", body["message"])

	// Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"role":    "user",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte(testJWTSecret))
	resp = doJSON(t, env.app, http.MethodGet, "/api/users/profile", expiredString, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "Token expired.", body["message"])
}

// TestGuardsScopedToTheirPrefixes pins down the route wiring: the guards on
// /users, /store-owner and /admin must not leak onto sibling prefixes, so
// the public store listings answer without a token and each role reaches
// its own surface.
func TestGuardsScopedToTheirPrefixes(t *testing.T) {
	env := setupApp(t, "it_wiring")

	// Public listings without any token
	for _, path := range []string{"/api/stores", "/api/stores/top"} {
		resp := doJSON(t, env.app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "GET %s must not require a token", path)
		resp.Body.Close()
	}

	// The admin prefix must not pick up the store_owner gate
	adminToken, _ := registerAndLogin(t, env.app, "The Admin", "admin@example.com", "admin")
	resp := doJSON(t, env.app, http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// And the user prefix must not pick up either role gate
	userToken, _ := registerAndLogin(t, env.app, "Plain User", "user@example.com", "user")
	resp = doJSON(t, env.app, http.MethodGet, "/api/users/profile", userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRoleGate(t *testing.T) {
	env := setupApp(t, "it_roles")

	userToken, _ := registerAndLogin(t, env.app, "Plain User", "user@example.com", "user")
	ownerToken, _ := registerAndLogin(t, env.app, "Shop Owner", "owner@example.com", "store_owner")
	adminToken, _ := registerAndLogin(t, env.app, "The Admin", "admin@example.com", "admin")

	// Admin dashboard: user and store_owner are Forbidden, admin passes
	resp := doJSON(t, env.app, http.MethodGet, "/api/admin/dashboard", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/admin/dashboard", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Store-owner routes: plain users are Forbidden. No hierarchy, so the
	// admin is rejected there too.
	storeBody := map[string]string{"name": "Warung A", "email": "warung@example.com", "address": "Jl. Mawar 1"}
	resp = doJSON(t, env.app, http.MethodPost, "/api/store-owner/stores", userToken, storeBody)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPost, "/api/store-owner/stores", adminToken, storeBody)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPost, "/api/store-owner/stores", ownerToken, storeBody)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestRatingSubmitAndResubmit(t *testing.T) {
	env := setupApp(t, "it_ratings")

	ownerToken, _ := registerAndLogin(t, env.app, "Shop Owner", "owner@example.com", "store_owner")
	userToken, _ := registerAndLogin(t, env.app, "Rater", "rater@example.com", "user")

	resp := doJSON(t, env.app, http.MethodPost, "/api/store-owner/stores", ownerToken, map[string]string{
		"name": "Warung A", "email": "warung@example.com", "address": "Jl. Mawar 1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var store models.Store
	decode(t, resp, &store)

	// First submission creates
	resp = doJSON(t, env.app, http.MethodPost, "/api/stores/"+store.ID+"/ratings", userToken, map[string]interface{}{
		"value": 4, "comment": "tasty",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var rating models.Rating
	decode(t, resp, &rating)
	assert.Equal(t, 4, rating.Value)
	assert.Equal(t, "tasty", rating.Comment)

	// Resubmission without a comment updates the value, keeps the comment
	resp = doJSON(t, env.app, http.MethodPost, "/api/stores/"+store.ID+"/ratings", userToken, map[string]interface{}{
		"value": 2,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Rating
	decode(t, resp, &updated)
	assert.Equal(t, rating.ID, updated.ID)
	assert.Equal(t, 2, updated.Value)
	assert.Equal(t, "tasty", updated.Comment)

	// Exactly one row for the pair
	count, err := env.ratingRepo.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Out-of-range value
	resp = doJSON(t, env.app, http.MethodPost, "/api/stores/"+store.ID+"/ratings", userToken, map[string]interface{}{
		"value": 9,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown store
	resp = doJSON(t, env.app, http.MethodPost, "/api/stores/does-not-exist/ratings", userToken, map[string]interface{}{
		"value": 3,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Unauthenticated submission
	resp = doJSON(t, env.app, http.MethodPost, "/api/stores/"+store.ID+"/ratings", "", map[string]interface{}{
		"value": 3,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestStoreListingsWithAggregates(t *testing.T) {
	env := setupApp(t, "it_stores")

	ownerToken, _ := registerAndLogin(t, env.app, "Shop Owner", "owner@example.com", "store_owner")
	resp := doJSON(t, env.app, http.MethodPost, "/api/store-owner/stores", ownerToken, map[string]string{
		"name": "Warung A", "email": "warung@example.com", "address": "Jl. Mawar 1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var store models.Store
	decode(t, resp, &store)

	for i, value := range []int{5, 3, 4} {
		raterToken, _ := registerAndLogin(t, env.app, "Rater Person", fmt.Sprintf("rater%d@example.com", i), "user")
		resp = doJSON(t, env.app, http.MethodPost, "/api/stores/"+store.ID+"/ratings", raterToken, map[string]interface{}{
			"value": value,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Public listing carries the aggregate
	resp = doJSON(t, env.app, http.MethodGet, "/api/stores", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stores []models.StoreWithRating
	decode(t, resp, &stores)
	assert.Len(t, stores, 1)
	assert.Equal(t, 4.0, stores[0].AverageRating)
	assert.Equal(t, int64(3), stores[0].TotalRatings)

	// Single-store view agrees
	resp = doJSON(t, env.app, http.MethodGet, "/api/stores/"+store.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var single models.StoreWithRating
	decode(t, resp, &single)
	assert.Equal(t, 4.0, single.AverageRating)

	// Ratings listing carries rater names
	resp = doJSON(t, env.app, http.MethodGet, "/api/stores/"+store.ID+"/ratings", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ratings []models.RatingWithUser
	decode(t, resp, &ratings)
	assert.Len(t, ratings, 3)
	assert.Equal(t, "Rater Person", ratings[0].User.Name)

	// Top listing includes the store
	resp = doJSON(t, env.app, http.MethodGet, "/api/stores/top", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var top []models.StoreWithRating
	decode(t, resp, &top)
	assert.Len(t, top, 1)

	// Missing store is a 404
	resp = doJSON(t, env.app, http.MethodGet, "/api/stores/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminStoreCreationValidatesOwnerRole(t *testing.T) {
	env := setupApp(t, "it_admin_store")

	adminToken, _ := registerAndLogin(t, env.app, "The Admin", "admin@example.com", "admin")
	_, plainUserID := registerAndLogin(t, env.app, "Plain User", "user@example.com", "user")
	_, ownerID := registerAndLogin(t, env.app, "Shop Owner", "owner@example.com", "store_owner")

	// Owner without the store_owner role: rejected, nothing created
	resp := doJSON(t, env.app, http.MethodPost, "/api/admin/stores", adminToken, map[string]string{
		"name": "Warung X", "email": "x@example.com", "address": "Jl. Anggrek 3", "ownerId": plainUserID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	count, err := env.storeRepo.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Unknown owner is a 404
	resp = doJSON(t, env.app, http.MethodPost, "/api/admin/stores", adminToken, map[string]string{
		"name": "Warung X", "email": "x@example.com", "address": "Jl. Anggrek 3", "ownerId": "does-not-exist",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Proper store owner: the admin path allows several stores per owner
	for i := 0; i < 2; i++ {
		resp = doJSON(t, env.app, http.MethodPost, "/api/admin/stores", adminToken, map[string]string{
			"name": fmt.Sprintf("Warung %d", i), "email": "x@example.com", "address": "Jl. Anggrek 3", "ownerId": ownerID,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	count, err = env.storeRepo.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAdminDashboard(t *testing.T) {
	env := setupApp(t, "it_dashboard")

	adminToken, _ := registerAndLogin(t, env.app, "The Admin", "admin@example.com", "admin")
	ownerToken, _ := registerAndLogin(t, env.app, "Shop Owner", "owner@example.com", "store_owner")
	userToken, _ := registerAndLogin(t, env.app, "Rater", "rater@example.com", "user")

	resp := doJSON(t, env.app, http.MethodPost, "/api/store-owner/stores", ownerToken, map[string]string{
		"name": "Warung A", "email": "warung@example.com", "address": "Jl. Mawar 1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var store models.Store
	decode(t, resp, &store)

	resp = doJSON(t, env.app, http.MethodPost, "/api/stores/"+store.ID+"/ratings", userToken, map[string]interface{}{
		"value": 5, "comment": "great",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stats models.DashboardStats
	decode(t, resp, &stats)

	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalStores)
	assert.Equal(t, int64(1), stats.TotalRatings)
	assert.Len(t, stats.UsersByRole, 3)
	assert.Len(t, stats.TopStores, 1)
	assert.Equal(t, 5.0, stats.TopStores[0].AverageRating)
	assert.Len(t, stats.RecentActivity, 1)
	assert.Equal(t, "Rater", stats.RecentActivity[0].User.Name)
	assert.Equal(t, "Warung A", stats.RecentActivity[0].Store.Name)
}

func TestProfileAndOwnRatings(t *testing.T) {
	env := setupApp(t, "it_profile")

	ownerToken, _ := registerAndLogin(t, env.app, "Shop Owner", "owner@example.com", "store_owner")
	userToken, _ := registerAndLogin(t, env.app, "Rater", "rater@example.com", "user")

	// Profile round trip
	resp := doJSON(t, env.app, http.MethodGet, "/api/users/profile", userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var profile models.User
	decode(t, resp, &profile)
	assert.Equal(t, "Rater", profile.Name)

	resp = doJSON(t, env.app, http.MethodPut, "/api/users/profile", userToken, map[string]string{
		"name": "Renamed Rater",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &profile)
	assert.Equal(t, "Renamed Rater", profile.Name)
	assert.Equal(t, "rater@example.com", profile.Email)

	// Password change keeps the account usable
	resp = doJSON(t, env.app, http.MethodPut, "/api/users/password", userToken, map[string]string{
		"newPassword": "betterpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "rater@example.com",
		"password": "betterpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Own ratings enriched with store info
	resp = doJSON(t, env.app, http.MethodPost, "/api/store-owner/stores", ownerToken, map[string]string{
		"name": "Warung A", "email": "warung@example.com", "address": "Jl. Mawar 1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var store models.Store
	decode(t, resp, &store)

	resp = doJSON(t, env.app, http.MethodPost, "/api/stores/"+store.ID+"/ratings", userToken, map[string]interface{}{
		"value": 4,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/users/ratings", userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var myRatings []models.RatingWithStore
	decode(t, resp, &myRatings)
	assert.Len(t, myRatings, 1)
	assert.Equal(t, "Warung A", myRatings[0].Store.Name)

	// Stores listing for owners only
	resp = doJSON(t, env.app, http.MethodGet, "/api/users/stores", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/users/stores", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ownStores []models.StoreWithRating
	decode(t, resp, &ownStores)
	assert.Len(t, ownStores, 1)
	assert.Equal(t, int64(1), ownStores[0].TotalRatings)
}

func TestStoreOwnerSelfService(t *testing.T) {
	env := setupApp(t, "it_owner")

	ownerToken, _ := registerAndLogin(t, env.app, "Shop Owner", "owner@example.com", "store_owner")
	userToken, _ := registerAndLogin(t, env.app, "Rater", "rater@example.com", "user")

	// First POST creates
	resp := doJSON(t, env.app, http.MethodPost, "/api/store-owner/stores", ownerToken, map[string]string{
		"name": "Warung A", "email": "warung@example.com", "address": "Jl. Mawar 1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var store models.Store
	decode(t, resp, &store)

	// Second POST replaces instead of creating a second store
	resp = doJSON(t, env.app, http.MethodPost, "/api/store-owner/stores", ownerToken, map[string]string{
		"name": "Warung A Baru", "email": "warung@example.com", "address": "Jl. Mawar 2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var replaced models.Store
	decode(t, resp, &replaced)
	assert.Equal(t, store.ID, replaced.ID)
	assert.Equal(t, "Warung A Baru", replaced.Name)

	count, err := env.storeRepo.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Partial update
	resp = doJSON(t, env.app, http.MethodPut, "/api/store-owner/stores/"+store.ID, ownerToken, map[string]string{
		"address": "Jl. Mawar 3",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &replaced)
	assert.Equal(t, "Jl. Mawar 3", replaced.Address)
	assert.Equal(t, "Warung A Baru", replaced.Name)

	// Deleting cascades the store's ratings
	resp = doJSON(t, env.app, http.MethodPost, "/api/stores/"+store.ID+"/ratings", userToken, map[string]interface{}{
		"value": 5,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodDelete, "/api/store-owner/stores/"+store.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	ratingCount, err := env.ratingRepo.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), ratingCount)

	// Deleting a store you do not own looks like a missing store
	resp = doJSON(t, env.app, http.MethodDelete, "/api/store-owner/stores/"+store.ID, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminUserManagement(t *testing.T) {
	env := setupApp(t, "it_admin_users")

	adminToken, _ := registerAndLogin(t, env.app, "The Admin", "admin@example.com", "admin")

	// Create with an explicit role
	resp := doJSON(t, env.app, http.MethodPost, "/api/admin/users", adminToken, map[string]string{
		"name": "New Owner", "email": "newowner@example.com", "address": "Jl. Anggrek 3",
		"password": "password123", "role": "store_owner",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.User
	decode(t, resp, &created)
	assert.Equal(t, models.RoleStoreOwner, created.Role)

	// Filterable listing
	resp = doJSON(t, env.app, http.MethodGet, "/api/admin/users?role=store_owner", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	decode(t, resp, &users)
	assert.Len(t, users, 1)
	assert.Equal(t, "New Owner", users[0].Name)

	resp = doJSON(t, env.app, http.MethodGet, "/api/admin/users?name=Owner", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &users)
	assert.Len(t, users, 1)

	// Role change via partial update
	resp = doJSON(t, env.app, http.MethodPut, "/api/admin/users/"+created.ID, adminToken, map[string]string{
		"role": "user",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.User
	decode(t, resp, &updated)
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.Equal(t, "New Owner", updated.Name)

	// Delete
	resp = doJSON(t, env.app, http.MethodDelete, "/api/admin/users/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/admin/users/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
