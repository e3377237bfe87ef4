package messages

type LeaderboardEntry struct {
	Name        string `json:"name"`
	Duration    string `json:"duration"`
	ReleaseDate string `json:"releaseDate"`
}

// Leaderboard is the response of the leaderboard endpoint.
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"leaderboardEntries"`
}

// LeaderboardEvent is pushed on the leaderboard topic.
type LeaderboardEvent struct {
	EventType  string           `json:"eventType"`
	ChangeType string           `json:"changeType"`
	Entry      LeaderboardEntry `json:"leaderboardEntry"`
}
