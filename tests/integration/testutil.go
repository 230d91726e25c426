//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aura-ai/aura/internal/api"
	"github.com/aura-ai/aura/internal/assistant"
	"github.com/aura-ai/aura/internal/audiocache"
	"github.com/aura-ai/aura/internal/auth"
	"github.com/aura-ai/aura/internal/clients/gemini"
	"github.com/aura-ai/aura/internal/clients/giphy"
	"github.com/aura-ai/aura/internal/clients/pexels"
	"github.com/aura-ai/aura/internal/clients/serpapi"
	"github.com/aura-ai/aura/internal/clients/tts"
	"github.com/aura-ai/aura/internal/conversation"
	"github.com/aura-ai/aura/internal/intent"
	"github.com/aura-ai/aura/internal/resolve"
)

type TestEnv struct {
	Pool        *pgxpool.Pool
	RedisClient *redis.Client
	Server      *httptest.Server
	JWT         *auth.JWTManager
	AudioCache  *audiocache.Cache
	ConvoRepo   *conversation.Repository
}

var testEnv *TestEnv

func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "aura_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	pgHost, _ := pgContainer.Host(ctx)
	pgPort, _ := pgContainer.MappedPort(ctx, "5432")

	// Start Redis container
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting redis container: %v", err)
	}
	t.Cleanup(func() { redisContainer.Terminate(ctx) })

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, "6379")

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/aura_test?sslmode=disable", pgHost, pgPort.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	// Run migrations
	m, err := migrate.New(fmt.Sprintf("file://%s", getMigrationsPath()), dsn)
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("running migrations: %v", err)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
	})
	t.Cleanup(func() { redisClient.Close() })

	// Setup services. No provider credentials: every provider chain runs in
	// its degraded "not configured" mode, which is a valid runtime state.
	jwtManager := auth.NewJWTManager("test-access-secret-32-chars-long!!")

	geminiClient := gemini.New(gemini.Config{})
	serpClient := serpapi.New(serpapi.Config{})
	pexelsClient := pexels.New(pexels.Config{})
	giphyClient := giphy.New(giphy.Config{})
	ttsClient := tts.New(tts.Config{BaseURL: "http://127.0.0.1:1"})

	classifier := intent.NewClassifier(geminiClient)
	engine := resolve.NewEngine(serpClient, pexelsClient, giphyClient, geminiClient)
	audioCache := audiocache.New(redisClient)

	convoRepo := conversation.NewRepository(pool)
	convoService := conversation.NewService(convoRepo, nil)
	convoHandler := conversation.NewHandler(convoService)

	assistantService := assistant.NewService(classifier, engine, ttsClient, audioCache, convoService, nil)
	assistantHandler := assistant.NewHandler(assistantService, audioCache)

	router := api.NewRouter(pool, redisClient, nil, api.RouterConfig{}, api.HandlerSet{
		ProcessTurn:        assistantHandler.ProcessTurn,
		FetchAudio:         assistantHandler.FetchAudio,
		StreamVideo:        assistantHandler.StreamVideo,
		ListConversations:  convoHandler.List,
		DeleteConversation: convoHandler.Delete,
		AuthMiddleware:     auth.Middleware(jwtManager),
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() { server.Close() })

	testEnv = &TestEnv{
		Pool:        pool,
		RedisClient: redisClient,
		Server:      server,
		JWT:         jwtManager,
		AudioCache:  audioCache,
		ConvoRepo:   convoRepo,
	}

	return testEnv
}

func getMigrationsPath() string {
	paths := []string{
		"../../migrations",
		"../../../migrations",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	log.Fatal("migrations directory not found")
	return ""
}

// Helper functions

// TokenFor signs an access token for a fresh or given user id.
func TokenFor(t *testing.T, env *TestEnv, userID uuid.UUID) string {
	t.Helper()
	token, err := env.JWT.SignAccessToken(userID.String(), "test@example.com", time.Hour)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func DoRequest(t *testing.T, env *TestEnv, method, path string, body any, token string) *http.Response {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.Server.URL+path, bodyReader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	return resp
}

func ParseResponse(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	return result
}
