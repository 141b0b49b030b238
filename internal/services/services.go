// package services defines clients for the HTTP APIs the playlist pipeline reads from
package services

// QueueEntry is one map in the ranking queue as returned by the ranking service.
type QueueEntry struct {
	RequestID    int               `json:"requestId"`
	Map          MapInfo           `json:"leaderboardInfo"`
	Difficulties []QueueDifficulty `json:"difficulties"`
}

// MapInfo is the map metadata embedded in a [QueueEntry].
type MapInfo struct {
	SongName    string `json:"songName"`
	SongHash    string `json:"songHash"`
	LevelAuthor string `json:"levelAuthorName"`
}

// QueueDifficulty is a single chart of a queued map, identified by its numeric rank.
type QueueDifficulty struct {
	Rank int `json:"difficulty"`
}

// Partition names one of the voting queue listings.
type Partition string

const (
	PartitionTop      Partition = "top"
	PartitionBelowTop Partition = "belowTop"
)

// Partitions lists every voting queue partition in fetch order.
var Partitions = []Partition{PartitionTop, PartitionBelowTop}
