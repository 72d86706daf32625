package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/clipstream/api/internal/adapters/handler/http"
	"github.com/clipstream/api/internal/adapters/media"
	repo "github.com/clipstream/api/internal/adapters/repository/postgres"
	"github.com/clipstream/api/internal/core/services"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	MediaServer *httptest.Server
	Client      *stdhttp.Client
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

// fakeMediaService accepts multipart uploads and hands back stable URLs.
func fakeMediaService() *httptest.Server {
	return httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if err := r.ParseMultipartForm(20 << 20); err != nil {
			w.WriteHeader(stdhttp.StatusBadRequest)
			return
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(stdhttp.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"url": "https://cdn.test.local/" + header.Filename,
		})
	}))
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	mediaServer := fakeMediaService()

	userRepo := repo.NewUserRepository(db)
	sessionRepo := repo.NewSessionRepository(db)
	subRepo := repo.NewSubscriptionRepository(db)
	videoRepo := repo.NewVideoRepository(db)
	watchRepo := repo.NewWatchHistoryRepository(db)

	mediaStore := media.NewUploader(mediaServer.URL, "", media.WithClient(mediaServer.Client()))

	tokenSvc := services.NewTokenService(sessionRepo, services.TokenConfig{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	authSvc := services.NewAuthService(userRepo, sessionRepo, tokenSvc)
	registrationSvc := services.NewRegistrationService(userRepo, mediaStore)
	userSvc := services.NewUserService(userRepo, mediaStore)
	channelSvc := services.NewChannelService(userRepo, subRepo, watchRepo, videoRepo)

	userHandler := handler.NewUserHandler(registrationSvc, userSvc, channelSvc, t.TempDir())
	authHandler := handler.NewAuthHandler(authSvc, "", 60, 3600)
	channelHandler := handler.NewChannelHandler(channelSvc)

	router := handler.NewHandler(userHandler, authHandler, channelHandler, tokenSvc)
	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		MediaServer: mediaServer,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	app.MediaServer.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

type registerOptions struct {
	Handle    string
	Email     string
	FullName  string
	Password  string
	Bio       string
	WithCover bool
}

func (app *TestApp) register(t *testing.T, opts registerOptions) *stdhttp.Response {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("userName", opts.Handle))
	require.NoError(t, writer.WriteField("email", opts.Email))
	require.NoError(t, writer.WriteField("fullName", opts.FullName))
	require.NoError(t, writer.WriteField("password", opts.Password))
	if opts.Bio != "" {
		require.NoError(t, writer.WriteField("bio", opts.Bio))
	}

	avatar, err := writer.CreateFormFile("avatar", opts.Handle+"-avatar.png")
	require.NoError(t, err)
	_, err = avatar.Write(pngHeader)
	require.NoError(t, err)

	if opts.WithCover {
		cover, err := writer.CreateFormFile("coverImage", opts.Handle+"-cover.png")
		require.NoError(t, err)
		_, err = cover.Write(pngHeader)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	resp, err := app.Client.Post(app.Server.URL+"/api/users/register", writer.FormDataContentType(), body)
	require.NoError(t, err)
	return resp
}

func (app *TestApp) login(t *testing.T, identifier, password string) (*stdhttp.Response, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"userName": identifier, "password": password})
	require.NoError(t, err)

	resp, err := app.Client.Post(app.Server.URL+"/api/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *stdhttp.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(data, &envelope))
	return envelope
}

func cookieValue(resp *stdhttp.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
