package server

import (
	"cmp"
	"slices"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	clientID int // Used for deterministic tie-break when scores are equal
}

// Leaderboard is an immutable snapshot shared with all clients.
type Leaderboard struct {
	Players   int             // Connected clients
	Playing   int             // Clients currently in a game
	TopScores []TopScoreEntry // Best scores, highest first
}

// bestScores tracks each username's best score across sessions.
type bestScores struct {
	byUser map[string]TopScoreEntry
}

func newBestScores() *bestScores {
	return &bestScores{byUser: make(map[string]TopScoreEntry)}
}

// record stores score if it beats the user's previous best and reports whether it did.
func (b *bestScores) record(username string, clientID, score int) bool {
	prev, ok := b.byUser[username]
	if ok && score <= prev.Score {
		return false
	}
	b.byUser[username] = TopScoreEntry{Username: username, Score: score, clientID: clientID}
	return true
}

// best returns a user's best score.
func (b *bestScores) best(username string) int {
	return b.byUser[username].Score
}

// top returns the n best entries, highest score first. Equal scores keep
// the client that reached them first.
func (b *bestScores) top(n int) []TopScoreEntry {
	entries := make([]TopScoreEntry, 0, len(b.byUser))
	for _, e := range b.byUser {
		if e.Score > 0 {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(x, y TopScoreEntry) int {
		if c := cmp.Compare(y.Score, x.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(x.clientID, y.clientID); c != 0 {
			return c
		}
		return cmp.Compare(x.Username, y.Username)
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
