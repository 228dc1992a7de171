package qbittorrent

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// AllTorrents is the wildcard hash accepted by every hash-bearing endpoint.
const AllTorrents = "all"

// Torrent is a single entry from the torrent list endpoint.
type Torrent struct {
	Hash          string  `json:"hash"`
	InfohashV1    string  `json:"infohash_v1"`
	InfohashV2    string  `json:"infohash_v2"`
	Name          string  `json:"name"`
	State         string  `json:"state"`
	Progress      float64 `json:"progress"`
	Size          int64   `json:"size"`
	TotalSize     int64   `json:"total_size"`
	AmountLeft    int64   `json:"amount_left"`
	Downloaded    int64   `json:"downloaded"`
	Uploaded      int64   `json:"uploaded"`
	DownloadRate  int64   `json:"dlspeed"`
	UploadRate    int64   `json:"upspeed"`
	Ratio         float64 `json:"ratio"`
	ETA           int64   `json:"eta"`
	Priority      int     `json:"priority"`
	NumSeeds      int     `json:"num_seeds"`
	NumLeechers   int     `json:"num_leechs"`
	Category      string  `json:"category"`
	Tags          string  `json:"tags"`
	SavePath      string  `json:"save_path"`
	ContentPath   string  `json:"content_path"`
	Tracker       string  `json:"tracker"`
	AddedOn       int64   `json:"added_on"`
	CompletionOn  int64   `json:"completion_on"`
	LastActivity  int64   `json:"last_activity"`
	TimeActive    int64   `json:"time_active"`
	SeedingTime   int64   `json:"seeding_time"`
	DownloadLimit int64   `json:"dl_limit"`
	UploadLimit   int64   `json:"up_limit"`
	Availability  float64 `json:"availability"`
}

// TagList splits the comma-separated tag field into individual tags.
func (t *Torrent) TagList() []string {
	if t.Tags == "" {
		return nil
	}
	parts := strings.Split(t.Tags, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// AddedTime returns the time the torrent was added.
func (t *Torrent) AddedTime() time.Time {
	return time.Unix(t.AddedOn, 0)
}

// CompletionTime returns the time the download completed, or the zero time
// for incomplete torrents.
func (t *Torrent) CompletionTime() time.Time {
	if t.CompletionOn <= 0 {
		return time.Time{}
	}
	return time.Unix(t.CompletionOn, 0)
}

// IsComplete reports whether the payload has fully downloaded.
func (t *Torrent) IsComplete() bool {
	return t.Progress >= 1.0
}

// IsStopped reports whether the torrent is in a stopped state. Both the
// pre-5.0 "paused" and the 5.0 "stopped" state names are recognized.
func (t *Torrent) IsStopped() bool {
	switch t.State {
	case "pausedDL", "pausedUP", "stoppedDL", "stoppedUP":
		return true
	}
	return false
}

// IsSeeding reports whether the torrent is actively seeding.
func (t *Torrent) IsSeeding() bool {
	switch t.State {
	case "uploading", "stalledUP", "queuedUP", "forcedUP":
		return true
	}
	return false
}

// IsErrored reports whether the torrent is in an error state.
func (t *Torrent) IsErrored() bool {
	return t.State == "error" || t.State == "missingFiles"
}

// TorrentProperties is the response from the torrent properties endpoint.
type TorrentProperties struct {
	Hash                string  `json:"hash"`
	SavePath            string  `json:"save_path"`
	CreationDate        int64   `json:"creation_date"`
	PieceSize           int64   `json:"piece_size"`
	PiecesHave          int     `json:"pieces_have"`
	PiecesNum           int     `json:"pieces_num"`
	Comment             string  `json:"comment"`
	TotalDownloaded     int64   `json:"total_downloaded"`
	TotalUploaded       int64   `json:"total_uploaded"`
	TotalSize           int64   `json:"total_size"`
	TotalWasted         int64   `json:"total_wasted"`
	ShareRatio          float64 `json:"share_ratio"`
	UploadLimit         int64   `json:"up_limit"`
	DownloadLimit       int64   `json:"dl_limit"`
	TimeElapsed         int64   `json:"time_elapsed"`
	SeedingTime         int64   `json:"seeding_time"`
	NumConnections      int     `json:"nb_connections"`
	NumConnectionsLimit int     `json:"nb_connections_limit"`
	Seeds               int     `json:"seeds"`
	SeedsTotal          int     `json:"seeds_total"`
	Peers               int     `json:"peers"`
	PeersTotal          int     `json:"peers_total"`
	AdditionDate        int64   `json:"addition_date"`
	CompletionDate      int64   `json:"completion_date"`
	CreatedBy           string  `json:"created_by"`
	DownloadSpeed       int64   `json:"dl_speed"`
	DownloadSpeedAvg    int64   `json:"dl_speed_avg"`
	UploadSpeed         int64   `json:"up_speed"`
	UploadSpeedAvg      int64   `json:"up_speed_avg"`
	ETA                 int64   `json:"eta"`
	LastSeen            int64   `json:"last_seen"`
	ReannounceIn        int64   `json:"reannounce"`
}

// Tracker is a single entry from the torrent trackers endpoint.
type Tracker struct {
	URL           string `json:"url"`
	Status        int    `json:"status"`
	Tier          int    `json:"tier"`
	NumPeers      int    `json:"num_peers"`
	NumSeeds      int    `json:"num_seeds"`
	NumLeechers   int    `json:"num_leeches"`
	NumDownloaded int    `json:"num_downloaded"`
	Message       string `json:"msg"`
}

// TorrentFile is a single entry from the torrent contents endpoint.
type TorrentFile struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	Size         int64   `json:"size"`
	Progress     float64 `json:"progress"`
	Priority     int     `json:"priority"`
	IsSeed       bool    `json:"is_seed"`
	PieceRange   []int   `json:"piece_range"`
	Availability float64 `json:"availability"`
}

// Category describes a torrent category and its save path.
type Category struct {
	Name     string `json:"name"`
	SavePath string `json:"savePath"`
}

// TorrentFilterOptions narrows the torrent list endpoint. The zero value
// requests everything.
type TorrentFilterOptions struct {
	// Filter is a state filter token such as "downloading", "seeding",
	// "completed", "paused"/"stopped" or "resumed"/"running". Both the
	// pre-5.0 and the 5.0 vocabularies are accepted; the token is remapped
	// to match the connected server before it is sent.
	Filter   string
	Category string
	Tag      string
	Sort     string
	Reverse  bool
	Limit    int
	Offset   int
	Hashes   []string
}

// values encodes the set fields as query parameters, remapping the filter
// token through the given policy.
func (o TorrentFilterOptions) values(p wirePolicy) url.Values {
	q := url.Values{}
	if o.Filter != "" {
		q.Set("filter", p.filterToken(o.Filter))
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Reverse {
		q.Set("reverse", strconv.FormatBool(o.Reverse))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset != 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if len(o.Hashes) > 0 {
		q.Set("hashes", joinHashes(o.Hashes))
	}
	return q
}

// AddTorrentOptions carries the optional form fields of the add-torrent
// endpoint. Unset fields are omitted from the request entirely.
type AddTorrentOptions struct {
	SavePath string
	Category string
	Tags     []string
	Rename   string

	// Paused is the pre-5.0 "add in stopped state" key. On 5.0+ servers it
	// is translated to the "stopped" key unless Stopped is set explicitly.
	Paused *bool
	// Stopped is the 5.0 name for Paused. When both are set, Stopped wins.
	Stopped *bool

	SkipChecking           bool
	SequentialDownload     bool
	FirstLastPiecePriority bool
	AutoTMM                *bool
	UploadLimit            int64
	DownloadLimit          int64
	RatioLimit             float64
	SeedingTimeLimit       int64 // minutes
}

// fields encodes the set fields for the add-torrent form, applying the
// stopped/paused key translation for the given policy.
func (o *AddTorrentOptions) fields(p wirePolicy) map[string]string {
	f := make(map[string]string)
	if o == nil {
		return f
	}
	if o.SavePath != "" {
		f["savepath"] = o.SavePath
	}
	if o.Category != "" {
		f["category"] = o.Category
	}
	if len(o.Tags) > 0 {
		f["tags"] = joinList(o.Tags, ",")
	}
	if o.Rename != "" {
		f["rename"] = o.Rename
	}
	if key, val, ok := p.stoppedField(o.Paused, o.Stopped); ok {
		f[key] = strconv.FormatBool(val)
	}
	if o.SkipChecking {
		f["skip_checking"] = "true"
	}
	if o.SequentialDownload {
		f["sequentialDownload"] = "true"
	}
	if o.FirstLastPiecePriority {
		f["firstLastPiecePrio"] = "true"
	}
	if o.AutoTMM != nil {
		f["autoTMM"] = strconv.FormatBool(*o.AutoTMM)
	}
	if o.UploadLimit > 0 {
		f["upLimit"] = strconv.FormatInt(o.UploadLimit, 10)
	}
	if o.DownloadLimit > 0 {
		f["dlLimit"] = strconv.FormatInt(o.DownloadLimit, 10)
	}
	if o.RatioLimit > 0 {
		f["ratioLimit"] = strconv.FormatFloat(o.RatioLimit, 'f', -1, 64)
	}
	if o.SeedingTimeLimit > 0 {
		f["seedingTimeLimit"] = strconv.FormatInt(o.SeedingTimeLimit, 10)
	}
	return f
}

// UploadFile is a .torrent file payload for the multipart add endpoint.
type UploadFile struct {
	Name string
	Data []byte
}

// TransferInfo is the response from the global transfer info endpoint.
type TransferInfo struct {
	ConnectionStatus  string `json:"connection_status"`
	DHTNodes          int64  `json:"dht_nodes"`
	DownloadData      int64  `json:"dl_info_data"`
	DownloadSpeed     int64  `json:"dl_info_speed"`
	DownloadRateLimit int64  `json:"dl_rate_limit"`
	UploadData        int64  `json:"up_info_data"`
	UploadSpeed       int64  `json:"up_info_speed"`
	UploadRateLimit   int64  `json:"up_rate_limit"`
}

// BuildInfo is the response from the build info endpoint.
type BuildInfo struct {
	Qt         string `json:"qt"`
	Libtorrent string `json:"libtorrent"`
	Boost      string `json:"boost"`
	OpenSSL    string `json:"openssl"`
	Zlib       string `json:"zlib"`
	Bitness    int    `json:"bitness"`
}

// ServerState is the transfer snapshot embedded in incremental sync data.
type ServerState struct {
	ConnectionStatus  string `json:"connection_status"`
	DHTNodes          int64  `json:"dht_nodes"`
	DownloadSpeed     int64  `json:"dl_info_speed"`
	UploadSpeed       int64  `json:"up_info_speed"`
	DownloadRateLimit int64  `json:"dl_rate_limit"`
	UploadRateLimit   int64  `json:"up_rate_limit"`
	FreeSpaceOnDisk   int64  `json:"free_space_on_disk"`
	UseAltSpeedLimits bool   `json:"use_alt_speed_limits"`
}

// MainData is one page of the incremental sync endpoint. Rid is the cursor
// to replay on the next call; only fields that changed since that cursor are
// populated unless FullUpdate is set.
type MainData struct {
	Rid               int64               `json:"rid"`
	FullUpdate        bool                `json:"full_update"`
	Torrents          map[string]Torrent  `json:"torrents"`
	TorrentsRemoved   []string            `json:"torrents_removed"`
	Categories        map[string]Category `json:"categories"`
	CategoriesRemoved []string            `json:"categories_removed"`
	Tags              []string            `json:"tags"`
	TagsRemoved       []string            `json:"tags_removed"`
	ServerState       ServerState         `json:"server_state"`
}

// LogLevel is the severity bitmask used by the main log. Each entry carries
// exactly one level; filters may combine several.
type LogLevel int

// Log severity levels.
const (
	LogNormal   LogLevel = 1
	LogInfo     LogLevel = 2
	LogWarning  LogLevel = 4
	LogCritical LogLevel = 8

	LogAll = LogNormal | LogInfo | LogWarning | LogCritical
)

// String returns the lowercase name of a single severity level.
func (l LogLevel) String() string {
	switch l {
	case LogNormal:
		return "normal"
	case LogInfo:
		return "info"
	case LogWarning:
		return "warning"
	case LogCritical:
		return "critical"
	}
	return "unknown"
}

// LogEntry is a single line of the main application log.
type LogEntry struct {
	ID        int64    `json:"id"`
	Message   string   `json:"message"`
	Timestamp int64    `json:"timestamp"` // unix seconds
	Type      LogLevel `json:"type"`
}

// Time returns the entry timestamp as a time.Time.
func (e LogEntry) Time() time.Time {
	return time.Unix(e.Timestamp, 0)
}

// PeerLogEntry is a single line of the peer ban log.
type PeerLogEntry struct {
	ID        int64  `json:"id"`
	IP        string `json:"ip"`
	Timestamp int64  `json:"timestamp"` // unix seconds
	Blocked   bool   `json:"blocked"`
	Reason    string `json:"reason"`
}
