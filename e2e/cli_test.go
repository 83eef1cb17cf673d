package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djasnowski/myrefell-sub008/internal/api"
	"github.com/djasnowski/myrefell-sub008/internal/factory"
	"github.com/djasnowski/myrefell-sub008/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath  string
	serverURL   string
	sessionFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "myrefell-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/myrefell")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath:  binaryPath,
		serverURL:   serverURL,
		sessionFile: filepath.Join(t.TempDir(), "session.yaml"),
	}
}

// run executes the CLI with JSON output. Only stdout is returned so it can
// be decoded; stderr is appended on failure.
func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--session-file", r.sessionFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		return stdout.String() + stderr.String(), err
	}
	return stdout.String(), nil
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer serves the API and pages the way cmd/server does
func startTestServer(t *testing.T) string {
	t.Helper()

	app, err := factory.New(context.Background(), factory.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := mux.NewRouter()
	api.Mount(router, api.RouterConfig{
		Logger:             logger,
		Storage:            app.Storage,
		AuthService:        app.AuthService,
		EnergyService:      app.EnergyService,
		HouseService:       app.HouseService,
		LocationService:    app.LocationService,
		MarketService:      app.MarketService,
		LeaderboardService: app.LeaderboardService,
		WorldService:       app.WorldService,
	})
	web.Mount(router, web.RouterConfig{
		Logger:             logger,
		Storage:            app.Storage,
		AuthService:        app.AuthService,
		EnergyService:      app.EnergyService,
		HouseService:       app.HouseService,
		LocationService:    app.LocationService,
		MarketService:      app.MarketService,
		LeaderboardService: app.LeaderboardService,
		WorldService:       app.WorldService,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server.URL
}

func decodeJSON[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Response types for JSON parsing
type authResponse struct {
	PlayerID     string `json:"player_id"`
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
}

type playerResponse struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	IsGuest         bool   `json:"is_guest"`
	Energy          int    `json:"energy"`
	CurrentLocation struct {
		Type string `json:"type"`
		ID   int64  `json:"id"`
	} `json:"current_location"`
}

type houseResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tier  string `json:"tier"`
	Rooms []struct {
		ID        string `json:"id"`
		Type      string `json:"type"`
		Furniture []struct {
			Key     string `json:"key"`
			Hotspot string `json:"hotspot"`
		} `json:"furniture"`
	} `json:"rooms"`
}

type energyResponse struct {
	Regen struct {
		TotalGained int `json:"total_gained"`
		Bonuses     []struct {
			Source string `json:"source"`
			Amount string `json:"amount"`
		} `json:"bonuses"`
	} `json:"regen"`
}

type leaderboardResponse struct {
	Tab     string `json:"tab"`
	Entries []struct {
		Rank      int    `json:"rank"`
		HouseName string `json:"house_name"`
	} `json:"entries"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "ok", decodeJSON[map[string]string](t, output)["status"])
}

func TestCLI_PlayerCommands(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	// Create guest
	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	authResp := decodeJSON[authResponse](t, output)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token comes from the session file)
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)
	player := decodeJSON[playerResponse](t, output)
	assert.Equal(t, "Alice", player.DisplayName)
	assert.True(t, player.IsGuest)
	assert.Equal(t, authResp.PlayerID, player.ID)

	// Logout forgets the session
	output, err = cli.run("player", "logout")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Logged out", decodeJSON[messageResponse](t, output).Message)

	_, err = cli.run("player", "me")
	assert.Error(t, err)
}

func TestCLI_HouseAndEnergy(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("player", "register", "--user", "builder", "--pass", "password123")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("house", "create", "--name", "Hearth", "--kingdom", "1")
	require.NoError(t, err, "output: %s", output)
	house := decodeJSON[houseResponse](t, output)
	assert.Equal(t, "cottage", house.Tier)

	output, err = cli.run("house", "add-room", house.ID, "--type", "bedroom")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("house", "get", house.ID)
	require.NoError(t, err, "output: %s", output)
	house = decodeJSON[houseResponse](t, output)
	require.Len(t, house.Rooms, 1)

	output, err = cli.run("house", "place", house.ID, house.Rooms[0].ID, "--key", "wooden_bed")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, decodeJSON[messageResponse](t, output).Message, "wooden_bed")

	output, err = cli.run("energy")
	require.NoError(t, err, "output: %s", output)
	energy := decodeJSON[energyResponse](t, output)
	assert.Equal(t, 11, energy.Regen.TotalGained)
	require.Len(t, energy.Regen.Bonuses, 1)
	assert.Equal(t, "House (Bed)", energy.Regen.Bonuses[0].Source)

	// A bed on a missing room fails with the API's message
	output, err = cli.run("house", "place", house.ID, "r_missing", "--key", "wooden_bed")
	assert.Error(t, err)
	assert.Contains(t, output, "ROOM_NOT_FOUND")
}

func TestCLI_MarketAndTravel(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	_, err := cli.run("player", "guest", "--name", "Trader")
	require.NoError(t, err)

	output, err := cli.run("market", "1")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "not_here", decodeJSON[map[string]any](t, output)["variant"])

	output, err = cli.run("travel", "kingdom", "1")
	require.NoError(t, err, "output: %s", output)
	player := decodeJSON[playerResponse](t, output)
	assert.Equal(t, "kingdom", player.CurrentLocation.Type)

	output, err = cli.run("market", "1")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "open", decodeJSON[map[string]any](t, output)["variant"])

	output, err = cli.run("market", "99")
	assert.Error(t, err)
	assert.Contains(t, output, "KINGDOM_NOT_FOUND")
}

func TestCLI_LeaderboardExport(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	_, err := cli.run("player", "guest", "--name", "Ranked")
	require.NoError(t, err)
	_, err = cli.run("house", "create", "--name", "Hall", "--tier", "house", "--kingdom", "2")
	require.NoError(t, err)

	output, err := cli.run("leaderboard", "--kingdom", "2")
	require.NoError(t, err, "output: %s", output)
	board := decodeJSON[leaderboardResponse](t, output)
	assert.Equal(t, "houses", board.Tab)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "Hall", board.Entries[0].HouseName)

	dir := t.TempDir()
	output, err = cli.run("leaderboard", "export", "--dir", dir)
	require.NoError(t, err, "output: %s", output)

	path := filepath.Join(dir, "leaderboard-y1-spring-w1.xlsx")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}
