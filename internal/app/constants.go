package app

// MinPlayers is the smallest number of players a game can start with.
const MinPlayers = 2

// MaxPlayers is the largest number of players a game can start with.
// 5 hands plus the discard seed fit comfortably in the 80-card deck.
const MaxPlayers = 5
