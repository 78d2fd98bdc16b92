package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameBigTwo is the authoritative match handler name registered with Nakama.
	MatchNameBigTwo = "bigtwo_match"

	// matchTickRate gives 100ms loop granularity so countdown notifications
	// land close to their whole-second boundaries.
	matchTickRate = 10
)

// Label phases advertised through the match listing index.
const (
	labelPhaseLobby    = "lobby"
	labelPhasePlaying  = "playing"
	labelPhaseFinished = "finished"
)

// envConfigPath overrides the default config file location when set.
const envConfigPath = "BIGTWO_CONFIG"
