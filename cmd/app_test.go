package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sbilibin2017/todoapp/internal/jwt"
	"github.com/sbilibin2017/todoapp/internal/web"
)

func setupAppBackends(t *testing.T) (*sqlx.DB, *redis.Client, func()) {
	t.Helper()
	ctx := context.Background()

	pgReq := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}
	pgC, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: pgReq, Started: true})
	require.NoError(t, err)

	pgHost, _ := pgC.Host(ctx)
	pgPort, _ := pgC.MappedPort(ctx, "5432")
	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", pgHost, pgPort.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)

	_, err = db.Exec(schema)
	require.NoError(t, err)

	redisReq := tc.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: redisReq, Started: true})
	require.NoError(t, err)

	redisHost, _ := redisC.Host(ctx)
	redisPort, _ := redisC.MappedPort(ctx, "6379")
	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port())})
	require.NoError(t, rdb.Ping(ctx).Err())

	teardown := func() {
		rdb.Close()
		db.Close()
		redisC.Terminate(ctx)
		pgC.Terminate(ctx)
	}

	return db, rdb, teardown
}

func TestApp_SignupLoginCreateListFlow(t *testing.T) {
	db, rdb, teardown := setupAppBackends(t)
	defer teardown()

	sessionExp := time.Hour
	jwtSvc := jwt.New(jwt.WithSecretKey("test-secret"), jwt.WithExpiration(sessionExp))
	view, err := web.NewRenderer()
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(db, rdb, jwtSvc, sessionExp, view, "http://unused/swagger/doc.json"))
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := srv.Client()
	client.Jar = jar

	// the API is closed without a session
	resp, err := client.Get(srv.URL + "/api/todos")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// sign up
	resp, err = client.PostForm(srv.URL+"/signup", url.Values{
		"username": {"alice"},
		"password": {"pw12345"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", resp.Request.URL.Path)

	// log in; the session cookie lands in the jar and the redirect target
	// is the todo list
	resp, err = client.PostForm(srv.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"pw12345"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)

	var sessionToken string
	for _, c := range jar.Cookies(mustParseURL(t, srv.URL)) {
		if c.Name == jwt.SessionCookie {
			sessionToken = c.Value
		}
	}
	assert.NotEmpty(t, sessionToken)

	// create a todo through the web form
	resp, err = client.PostForm(srv.URL+"/", url.Values{
		"title": {"Buy milk"},
		"desc":  {"2 liters"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the todo shows up in the JSON API
	resp, err = client.Get(srv.URL + "/api/todos")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var todos []struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Desc      string `json:"desc"`
		Completed bool   `json:"completed"`
		CreatedAt string `json:"created_at"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&todos))
	resp.Body.Close()
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)
	assert.Equal(t, "2 liters", todos[0].Desc)
	assert.False(t, todos[0].Completed)
	_, err = time.Parse("2006-01-02", todos[0].CreatedAt)
	assert.NoError(t, err, "created_at must be a date-only value")

	// log out, then the revoked token no longer opens the API even as a
	// bearer header
	resp, err = client.Get(srv.URL + "/logout")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/login", resp.Request.URL.Path)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/todos", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
