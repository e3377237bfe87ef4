package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	cfg "github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/logger"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/automoto/snackman-client/shared/netconfig"
)

func newTestHTTPClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(cfg.NetworkConfig{
		ServerURL:    srv.URL + "/",
		FetchTimeout: 2 * time.Second,
	}, logger.Discard())
}

func TestFetchGameMap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/lobby/L1/game-map", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"DEFAULT_SQUARE_SIDE_LENGTH": 4,
			"DEFAULT_WALL_HEIGHT": 3,
			"gameMap": [{"id": 7, "indexX": 1, "indexZ": 2, "type": "FLOOR", "snack": {"snackType": "CHERRY"}}],
			"chickens": [{"id": 10, "chickenPosX": 3, "chickenPosZ": 4, "thickness": "THIN", "lookingDirection": "ONE_NORTH", "isScared": false}],
			"scriptGhosts": [{"id": 20, "scriptGhostPosX": 5, "scriptGhostPosZ": 6, "lookingDirection": "ONE_EAST"}]
		}`))
	})
	c := newTestHTTPClient(t, mux)

	gm, err := c.FetchGameMap(context.Background(), "L1")
	if err != nil {
		t.Fatalf("FetchGameMap: %v", err)
	}
	if gm.CellSize != 4 || gm.WallHeight != 3 {
		t.Errorf("cell/wall = %v/%v, want 4/3", gm.CellSize, gm.WallHeight)
	}
	if len(gm.Squares) != 1 || gm.Squares[0].SnackType() != "CHERRY" {
		t.Errorf("squares = %+v", gm.Squares)
	}
	if len(gm.Chickens) != 1 || gm.Chickens[0].PosX != 3 {
		t.Errorf("chickens = %+v", gm.Chickens)
	}
	if len(gm.ScriptGhosts) != 1 || gm.ScriptGhosts[0].PosZ != 6 {
		t.Errorf("ghosts = %+v", gm.ScriptGhosts)
	}
}

func TestFetchPlayerAndLobby(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/lobbies/L1/player/p-1", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"playerId": "p-1", "posX": 1.5, "posY": 2, "posZ": 3,
			"qW": 1, "maxCalories": 1000, "currentCalories": 40,
		})
	})
	mux.HandleFunc("GET /api/lobbies/lobby/L1", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(messages.Lobby{
			LobbyID: "L1",
			Members: []messages.PlayerClient{{PlayerID: "p-1", Role: "SNACKMAN"}, {PlayerID: "p-2", Role: "GHOST"}},
		})
	})
	c := newTestHTTPClient(t, mux)

	p, err := c.FetchPlayer(context.Background(), "L1", "p-1")
	if err != nil {
		t.Fatalf("FetchPlayer: %v", err)
	}
	if p.PlayerID != "p-1" || p.PosX != 1.5 || p.CurrentCalories == nil || *p.CurrentCalories != 40 {
		t.Errorf("player = %+v", p)
	}

	l, err := c.FetchLobby(context.Background(), "L1")
	if err != nil {
		t.Fatalf("FetchLobby: %v", err)
	}
	if len(l.Members) != 2 || l.Members[1].Role != "GHOST" {
		t.Errorf("lobby = %+v", l)
	}
}

func TestFetchStatusError(t *testing.T) {
	c := newTestHTTPClient(t, http.NotFoundHandler())

	_, err := c.FetchGameMap(context.Background(), "missing")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", se.Code)
	}
}

func TestFetchMalformedBody(t *testing.T) {
	c := newTestHTTPClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"gameMap": [`))
	}))

	if _, err := c.FetchGameMap(context.Background(), "L1"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFetchCancelled(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	c := newTestHTTPClient(t, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.FetchLeaderboard(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestPostLeaderboardEntry(t *testing.T) {
	var got messages.LeaderboardEntry
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/leaderboard/new/entry", func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	})
	c := newTestHTTPClient(t, mux)

	entry := messages.LeaderboardEntry{Name: "ada", Duration: "00:03:10", ReleaseDate: "2026-10-01"}
	if err := c.PostLeaderboardEntry(context.Background(), entry); err != nil {
		t.Fatalf("PostLeaderboardEntry: %v", err)
	}
	if got != entry {
		t.Errorf("server got %+v, want %+v", got, entry)
	}
}

// lobbyServer serves the lobby endpoints for one lobby.
type lobbyServer struct {
	mu      sync.Mutex
	lobby   messages.Lobby
	roles   map[string]string
	started int
	polls   int
}

func newLobbyServer(lobbyID string, members ...messages.PlayerClient) *lobbyServer {
	return &lobbyServer{
		lobby: messages.Lobby{LobbyID: lobbyID, Name: "test", Members: members},
		roles: map[string]string{},
	}
}

func (s *lobbyServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/lobbies/create/player", func(w http.ResponseWriter, r *http.Request) {
		var name string
		if err := json.NewDecoder(r.Body).Decode(&name); err != nil {
			t.Errorf("create player body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(messages.PlayerClient{PlayerID: "P-" + name, PlayerName: name})
	})
	mux.HandleFunc("GET /api/lobbies/lobby/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if r.PathValue("id") != s.lobby.LobbyID {
			http.NotFound(w, r)
			return
		}
		s.polls++
		_ = json.NewEncoder(w).Encode(s.lobby)
	})
	mux.HandleFunc("POST /api/lobbies/join", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LobbyID  string `json:"lobbyId"`
			PlayerID string `json:"playerId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.lobby.GameStarted {
			w.WriteHeader(http.StatusConflict)
			return
		}
		s.lobby.Members = append(s.lobby.Members, messages.PlayerClient{PlayerID: req.PlayerID, JoinedLobbyID: req.LobbyID})
		_ = json.NewEncoder(w).Encode(s.lobby)
	})
	mux.HandleFunc("POST /api/lobbies/lobby/choose/role", func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.mu.Lock()
		defer s.mu.Unlock()
		if req.Role == "SNACKMAN" {
			for id, role := range s.roles {
				if role == "SNACKMAN" && id != req.PlayerID {
					w.WriteHeader(http.StatusConflict)
					return
				}
			}
		}
		s.roles[req.PlayerID] = req.Role
	})
	mux.HandleFunc("POST /api/lobbies/start", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.started++
		s.lobby.GameStarted = true
	})
	return mux
}

func TestCreatePlayer(t *testing.T) {
	c := newTestHTTPClient(t, newLobbyServer("L1").handler(t))

	pc, err := c.CreatePlayer(context.Background(), "ada")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if pc.PlayerID != "P-ada" || pc.PlayerName != "ada" {
		t.Errorf("player = %+v", pc)
	}
}

func TestCreatePlayerWithoutID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/lobbies/create/player", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"playerName":"ada"}`))
	})
	c := newTestHTTPClient(t, mux)

	if _, err := c.CreatePlayer(context.Background(), "ada"); err == nil {
		t.Fatal("expected error for a player without id")
	}
}

func TestJoinLobby(t *testing.T) {
	srv := newLobbyServer("L1", messages.PlayerClient{PlayerID: "P0"})
	c := newTestHTTPClient(t, srv.handler(t))

	lobby, err := c.JoinLobby(context.Background(), "L1", "P1")
	if err != nil {
		t.Fatalf("JoinLobby: %v", err)
	}
	if len(lobby.Members) != 2 || lobby.Members[1].PlayerID != "P1" {
		t.Errorf("members = %+v", lobby.Members)
	}
}

func TestJoinLobbyRefused(t *testing.T) {
	full := make([]messages.PlayerClient, MaxLobbyMembers)
	for i := range full {
		full[i] = messages.PlayerClient{PlayerID: string(rune('A' + i))}
	}

	tests := []struct {
		name  string
		setup func(*lobbyServer)
		want  error
	}{
		{"full", func(s *lobbyServer) { s.lobby.Members = full }, ErrLobbyFull},
		{"choosing roles", func(s *lobbyServer) { s.lobby.ChooseRole = true }, ErrGameStarted},
		{"started", func(s *lobbyServer) { s.lobby.GameStarted = true }, ErrGameStarted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newLobbyServer("L1")
			tt.setup(srv)
			c := newTestHTTPClient(t, srv.handler(t))

			if _, err := c.JoinLobby(context.Background(), "L1", "P1"); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestJoinLobbyConflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/lobbies/lobby/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(messages.Lobby{LobbyID: "L1"})
	})
	mux.HandleFunc("POST /api/lobbies/join", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	c := newTestHTTPClient(t, mux)

	if _, err := c.JoinLobby(context.Background(), "L1", "P1"); !errors.Is(err, ErrGameStarted) {
		t.Fatalf("err = %v, want ErrGameStarted", err)
	}
}

func TestSelectRole(t *testing.T) {
	srv := newLobbyServer("L1")
	c := newTestHTTPClient(t, srv.handler(t))
	ctx := context.Background()

	if err := c.SelectRole(ctx, "L1", "P1", netconfig.RoleSnackman); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if err := c.SelectRole(ctx, "L1", "P2", netconfig.RoleSnackman); !errors.Is(err, ErrRoleTaken) {
		t.Fatalf("second snackman err = %v, want ErrRoleTaken", err)
	}
	if err := c.SelectRole(ctx, "L1", "P2", netconfig.RoleGhost); err != nil {
		t.Fatalf("ghost: %v", err)
	}
	if err := c.SelectRole(ctx, "L1", "P3", netconfig.RoleUndefined); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("undefined err = %v, want ErrUnknownRole", err)
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.roles["P1"] != "SNACKMAN" || srv.roles["P2"] != "GHOST" {
		t.Errorf("roles = %v", srv.roles)
	}
}

func TestJoinCreatesPlayerAndStartsGame(t *testing.T) {
	srv := newLobbyServer("L1")
	c := newTestHTTPClient(t, srv.handler(t))

	pc, err := c.Join(context.Background(), JoinSpec{
		LobbyID: "L1",
		Name:    "ada",
		Role:    netconfig.RoleGhost,
		Start:   true,
		Poll:    10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if pc.PlayerID != "P-ada" || pc.JoinedLobbyID != "L1" || pc.Role != "GHOST" {
		t.Errorf("player = %+v", pc)
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.started != 1 {
		t.Errorf("start calls = %d, want 1", srv.started)
	}
	if srv.roles["P-ada"] != "GHOST" {
		t.Errorf("roles = %v", srv.roles)
	}
}

func TestJoinWaitsForStart(t *testing.T) {
	srv := newLobbyServer("L1")
	c := newTestHTTPClient(t, srv.handler(t))

	go func() {
		for {
			srv.mu.Lock()
			if srv.polls >= 3 {
				srv.lobby.GameStarted = true
				srv.mu.Unlock()
				return
			}
			srv.mu.Unlock()
			time.Sleep(5 * time.Millisecond)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := c.Join(ctx, JoinSpec{LobbyID: "L1", Name: "bob", Poll: 10 * time.Millisecond}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.started != 0 {
		t.Errorf("start calls = %d, want 0", srv.started)
	}
}

func TestWaitForStartCancelled(t *testing.T) {
	srv := newLobbyServer("L1")
	c := newTestHTTPClient(t, srv.handler(t))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := c.WaitForStart(ctx, "L1", 5*time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
