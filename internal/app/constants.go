package app

// MinPlayersToStartGame is the minimum number of occupied seats required
// before the owner may start a match. Bots fill the rest.
const MinPlayersToStartGame = 2
