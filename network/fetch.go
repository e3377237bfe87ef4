package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	cfg "github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/sirupsen/logrus"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: server returned status %d", e.Method, e.Path, e.Code)
}

// HTTPClient talks to the game server's REST API.
type HTTPClient struct {
	base string
	http *http.Client
	log  logrus.FieldLogger
}

func NewHTTPClient(c cfg.NetworkConfig, log logrus.FieldLogger) *HTTPClient {
	return &HTTPClient{
		base: strings.TrimRight(c.ServerURL, "/"),
		http: &http.Client{Timeout: c.FetchTimeout},
		log:  log.WithField("component", "http"),
	}
}

// FetchGameMap returns the bulk map of a lobby's running game.
func (c *HTTPClient) FetchGameMap(ctx context.Context, lobbyID string) (messages.GameMap, error) {
	var gm messages.GameMap
	err := c.getJSON(ctx, "/api/lobby/"+url.PathEscape(lobbyID)+"/game-map", &gm)
	return gm, err
}

// FetchPlayer returns the local player's starting record.
func (c *HTTPClient) FetchPlayer(ctx context.Context, lobbyID, playerID string) (messages.Player, error) {
	var p messages.Player
	err := c.getJSON(ctx, "/api/lobbies/"+url.PathEscape(lobbyID)+"/player/"+url.PathEscape(playerID), &p)
	return p, err
}

// FetchLobby returns a lobby with its members.
func (c *HTTPClient) FetchLobby(ctx context.Context, lobbyID string) (messages.Lobby, error) {
	var l messages.Lobby
	err := c.getJSON(ctx, "/api/lobbies/lobby/"+url.PathEscape(lobbyID), &l)
	return l, err
}

// FetchLeaderboard returns every leaderboard entry.
func (c *HTTPClient) FetchLeaderboard(ctx context.Context) (messages.Leaderboard, error) {
	var lb messages.Leaderboard
	err := c.getJSON(ctx, "/api/leaderboard", &lb)
	return lb, err
}

// PostLeaderboardEntry submits a finished run.
func (c *HTTPClient) PostLeaderboardEntry(ctx context.Context, e messages.LeaderboardEntry) error {
	return c.postJSON(ctx, "/api/leaderboard/new/entry", e, nil)
}

// postJSON sends in as the JSON body and decodes the response into out. A nil
// out discards the response body.
func (c *HTTPClient) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warn("[http] request failed")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		err := &StatusError{Method: method, Path: path, Code: resp.StatusCode}
		c.log.WithField("path", path).Warn("[http] " + err.Error())
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"method": method, "path": path}).Debug("[http] ok")
	return resp, nil
}
