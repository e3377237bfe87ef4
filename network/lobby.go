package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/automoto/snackman-client/shared/messages"
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/sirupsen/logrus"
)

// MaxLobbyMembers is the number of players a lobby holds.
const MaxLobbyMembers = 5

var (
	ErrLobbyFull   = errors.New("lobby is full")
	ErrGameStarted = errors.New("game already started")
	ErrRoleTaken   = errors.New("role already taken")
	ErrUnknownRole = errors.New("unknown role")
)

// CreatePlayer registers a new player client under name.
func (c *HTTPClient) CreatePlayer(ctx context.Context, name string) (messages.PlayerClient, error) {
	var pc messages.PlayerClient
	if err := c.postJSON(ctx, "/api/lobbies/create/player", name, &pc); err != nil {
		return pc, err
	}
	if pc.PlayerID == "" {
		return pc, fmt.Errorf("create player %q: server returned no player id", name)
	}
	if pc.PlayerName == "" {
		pc.PlayerName = name
	}
	return pc, nil
}

// JoinLobby adds playerID to a lobby that is neither full nor past role
// selection, and returns the lobby as the server sees it afterwards.
func (c *HTTPClient) JoinLobby(ctx context.Context, lobbyID, playerID string) (messages.Lobby, error) {
	current, err := c.FetchLobby(ctx, lobbyID)
	if err != nil {
		return messages.Lobby{}, err
	}
	if len(current.Members) >= MaxLobbyMembers {
		return messages.Lobby{}, fmt.Errorf("join %s: %w", lobbyID, ErrLobbyFull)
	}
	if current.ChooseRole || current.GameStarted {
		return messages.Lobby{}, fmt.Errorf("join %s: %w", lobbyID, ErrGameStarted)
	}

	var lobby messages.Lobby
	err = c.postJSON(ctx, "/api/lobbies/join", map[string]string{"lobbyId": lobbyID, "playerId": playerID}, &lobby)
	if isStatus(err, http.StatusConflict) {
		return messages.Lobby{}, fmt.Errorf("join %s: %w", lobbyID, ErrGameStarted)
	}
	return lobby, err
}

type roleRequest struct {
	LobbyID  string `json:"lobbyId"`
	PlayerID string `json:"playerId"`
	Role     string `json:"role"`
	Selected bool   `json:"selected"`
}

// SelectRole claims role for playerID. Only one player may be the snackman.
func (c *HTTPClient) SelectRole(ctx context.Context, lobbyID, playerID string, role netconfig.Role) error {
	if role != netconfig.RoleSnackman && role != netconfig.RoleGhost {
		return fmt.Errorf("select %s: %w", role, ErrUnknownRole)
	}
	err := c.postJSON(ctx, "/api/lobbies/lobby/choose/role", roleRequest{
		LobbyID:  lobbyID,
		PlayerID: playerID,
		Role:     role.String(),
		Selected: true,
	}, nil)
	if isStatus(err, http.StatusConflict) {
		return fmt.Errorf("select %s: %w", role, ErrRoleTaken)
	}
	return err
}

// StartGame asks the server to start the lobby's game.
func (c *HTTPClient) StartGame(ctx context.Context, lobbyID string) error {
	return c.postJSON(ctx, "/api/lobbies/start", map[string]string{"lobbyId": lobbyID}, nil)
}

// WaitForStart polls the lobby until its game has started.
func (c *HTTPClient) WaitForStart(ctx context.Context, lobbyID string, interval time.Duration) (messages.Lobby, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		lobby, err := c.FetchLobby(ctx, lobbyID)
		if err != nil {
			return lobby, err
		}
		if lobby.GameStarted {
			return lobby, nil
		}
		select {
		case <-ctx.Done():
			return lobby, ctx.Err()
		case <-ticker.C:
		}
	}
}

// JoinSpec describes how a new player enters a lobby.
type JoinSpec struct {
	LobbyID string
	Name    string
	Role    netconfig.Role // RoleUndefined leaves the choice to the lobby
	Start   bool           // start the game after joining
	Poll    time.Duration
}

// Join creates a player, joins the lobby, optionally claims a role and starts
// the game, then waits until the game is running. It returns the new player.
func (c *HTTPClient) Join(ctx context.Context, spec JoinSpec) (messages.PlayerClient, error) {
	pc, err := c.CreatePlayer(ctx, spec.Name)
	if err != nil {
		return pc, err
	}
	lobby, err := c.JoinLobby(ctx, spec.LobbyID, pc.PlayerID)
	if err != nil {
		return pc, err
	}
	pc.JoinedLobbyID = lobby.LobbyID
	for _, m := range lobby.Members {
		if m.PlayerID == pc.PlayerID {
			pc.Role = m.Role
		}
	}
	log := c.log.WithFields(logrus.Fields{"lobby": spec.LobbyID, "player": pc.PlayerID})
	log.Info("[lobby] joined")

	if spec.Role != netconfig.RoleUndefined {
		if err := c.SelectRole(ctx, spec.LobbyID, pc.PlayerID, spec.Role); err != nil {
			return pc, err
		}
		pc.Role = spec.Role.String()
	}
	if spec.Start {
		if err := c.StartGame(ctx, spec.LobbyID); err != nil {
			return pc, err
		}
	}
	if !lobby.GameStarted {
		log.Info("[lobby] waiting for the game to start")
		if _, err := c.WaitForStart(ctx, spec.LobbyID, spec.Poll); err != nil {
			return pc, err
		}
	}
	return pc, nil
}

func isStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
