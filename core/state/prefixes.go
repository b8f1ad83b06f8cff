package state

var (
	statsKey = []byte("entityStats/1")

	curatorPrefix    = []byte("curator/")
	publisherPrefix  = []byte("publisher/")
	subgraphPrefix   = []byte("subgraph/")
	nameSignalPrefix = []byte("nameSignal/")

	accountPrefix    = []byte("account/")
	protocolPrefix   = []byte("protocol/")
	trackPrefix      = []byte("badgeTrack/")
	definitionPrefix = []byte("badgeDefinition/")
	awardPrefix      = []byte("badgeAward/")
	metadataPrefix   = []byte("badgeAwardMetadata/")

	progressPrefix   = []byte("metricProgress/")
	lockWalletPrefix = []byte("tokenLockWallet/")
)
