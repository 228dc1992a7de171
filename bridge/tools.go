package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yjl9903/nqbtc/filter"
	"github.com/yjl9903/nqbtc/qbittorrent"
)

var errNoHashes = errors.New("hashes must not be empty")

type listInput struct {
	Filter     string   `json:"filter,omitempty" jsonschema:"state filter such as all, downloading, seeding, completed, stopped, running, stalled or errored"`
	Category   string   `json:"category,omitempty" jsonschema:"only torrents assigned to this category"`
	Tag        string   `json:"tag,omitempty" jsonschema:"only torrents carrying this tag"`
	Hashes     []string `json:"hashes,omitempty" jsonschema:"restrict the listing to these info hashes"`
	Sort       string   `json:"sort,omitempty" jsonschema:"field to sort by, for example name, size, ratio or added_on"`
	Reverse    bool     `json:"reverse,omitempty" jsonschema:"reverse the sort order"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of torrents to return"`
	Expression string   `json:"expression,omitempty" jsonschema:"expression applied after fetching, for example Ratio > 1.0 && hasTag(\"public\")"`
}

type addInput struct {
	URLs       []string `json:"urls" jsonschema:"magnet links, torrent URLs or bare info hashes to add"`
	SavePath   string   `json:"save_path,omitempty" jsonschema:"download location on the qBittorrent host"`
	Category   string   `json:"category,omitempty" jsonschema:"category to assign to the new torrents"`
	Tags       []string `json:"tags,omitempty" jsonschema:"tags to attach to the new torrents"`
	Stopped    bool     `json:"stopped,omitempty" jsonschema:"add the torrents without starting them"`
	SkipCheck  bool     `json:"skip_checking,omitempty" jsonschema:"skip hash checking"`
	Sequential bool     `json:"sequential,omitempty" jsonschema:"download pieces in sequential order"`
}

type hashesInput struct {
	Hashes []string `json:"hashes" jsonschema:"info hashes to act on; pass [\"all\"] to act on every torrent"`
}

type deleteInput struct {
	Hashes      []string `json:"hashes" jsonschema:"info hashes to delete; pass [\"all\"] to delete every torrent"`
	DeleteFiles bool     `json:"delete_files,omitempty" jsonschema:"also remove the downloaded data from disk"`
}

type setCategoryInput struct {
	Hashes   []string `json:"hashes" jsonschema:"info hashes to reassign; pass [\"all\"] to act on every torrent"`
	Category string   `json:"category" jsonschema:"category name; an empty string clears the category"`
}

type addTagsInput struct {
	Hashes []string `json:"hashes" jsonschema:"info hashes to tag; pass [\"all\"] to act on every torrent"`
	Tags   []string `json:"tags" jsonschema:"tags to attach; missing tags are created by the daemon"`
}

type logMainInput struct {
	Levels      []string `json:"levels,omitempty" jsonschema:"severities to include: normal, info, warning, critical; default is all"`
	LastKnownID *int64   `json:"last_known_id,omitempty" jsonschema:"return only entries with an id greater than this; omit for the complete log"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "torrent_list",
		Description: "List torrents with state, progress and metadata, optionally narrowed by state filter, category, tag, hashes or a filter expression.",
	}, s.torrentList)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "torrent_add",
		Description: "Add torrents from magnet links, URLs or info hashes.",
	}, s.torrentAdd)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "torrent_stop",
		Description: "Stop (pause) the given torrents.",
	}, s.torrentStop)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "torrent_start",
		Description: "Start (resume) the given torrents.",
	}, s.torrentStart)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "torrent_delete",
		Description: "Delete the given torrents, optionally removing their data from disk.",
	}, s.torrentDelete)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "torrent_recheck",
		Description: "Recheck the downloaded data of the given torrents.",
	}, s.torrentRecheck)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "torrent_set_category",
		Description: "Assign the given torrents to a category, creating no new categories.",
	}, s.torrentSetCategory)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "torrent_add_tags",
		Description: "Attach tags to the given torrents.",
	}, s.torrentAddTags)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "transfer_info",
		Description: "Report global transfer statistics: speeds, session totals, connection status and DHT nodes.",
	}, s.transferInfo)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "speed_limits_mode",
		Description: "Report whether the alternative speed limits are active.",
	}, s.speedLimitsMode)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "toggle_speed_limits_mode",
		Description: "Toggle between the global and the alternative speed limits.",
	}, s.toggleSpeedLimitsMode)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "app_version",
		Description: "Report the qBittorrent application and Web API versions.",
	}, s.appVersion)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "log_main",
		Description: "Fetch the daemon's main log, optionally filtered by severity or by last known entry id.",
	}, s.logMain)
}

func (s *Server) torrentList(ctx context.Context, _ *mcp.CallToolRequest, in listInput) (*mcp.CallToolResult, any, error) {
	torrents, err := s.client.Torrents(ctx, qbittorrent.TorrentFilterOptions{
		Filter:   in.Filter,
		Category: in.Category,
		Tag:      in.Tag,
		Hashes:   in.Hashes,
		Sort:     in.Sort,
		Reverse:  in.Reverse,
		Limit:    in.Limit,
	})
	if err != nil {
		return s.errorResult(ctx, fmt.Errorf("listing torrents: %w", err)), nil, nil
	}

	if in.Expression != "" {
		f, err := filter.Compile(in.Expression)
		if err != nil {
			return s.errorResult(ctx, fmt.Errorf("compiling expression: %w", err)), nil, nil
		}
		torrents, err = f.Apply(torrents)
		if err != nil {
			return s.errorResult(ctx, fmt.Errorf("applying expression: %w", err)), nil, nil
		}
	}

	return jsonResult(torrents), nil, nil
}

func (s *Server) torrentAdd(ctx context.Context, _ *mcp.CallToolRequest, in addInput) (*mcp.CallToolResult, any, error) {
	opts := &qbittorrent.AddTorrentOptions{
		SavePath:           in.SavePath,
		Category:           in.Category,
		Tags:               in.Tags,
		SkipChecking:       in.SkipCheck,
		SequentialDownload: in.Sequential,
	}
	if in.Stopped {
		stopped := true
		opts.Stopped = &stopped
	}
	if err := s.client.AddTorrentURLs(ctx, in.URLs, opts); err != nil {
		return s.errorResult(ctx, fmt.Errorf("adding torrents: %w", err)), nil, nil
	}
	return textResult(fmt.Sprintf("added %d torrent(s)", len(in.URLs))), nil, nil
}

func (s *Server) torrentStop(ctx context.Context, _ *mcp.CallToolRequest, in hashesInput) (*mcp.CallToolResult, any, error) {
	if len(in.Hashes) == 0 {
		return s.errorResult(ctx, errNoHashes), nil, nil
	}
	if err := s.client.StopTorrents(ctx, in.Hashes); err != nil {
		return s.errorResult(ctx, fmt.Errorf("stopping torrents: %w", err)), nil, nil
	}
	return textResult(fmt.Sprintf("stopped %s", describeHashes(in.Hashes))), nil, nil
}

func (s *Server) torrentStart(ctx context.Context, _ *mcp.CallToolRequest, in hashesInput) (*mcp.CallToolResult, any, error) {
	if len(in.Hashes) == 0 {
		return s.errorResult(ctx, errNoHashes), nil, nil
	}
	if err := s.client.StartTorrents(ctx, in.Hashes); err != nil {
		return s.errorResult(ctx, fmt.Errorf("starting torrents: %w", err)), nil, nil
	}
	return textResult(fmt.Sprintf("started %s", describeHashes(in.Hashes))), nil, nil
}

func (s *Server) torrentDelete(ctx context.Context, _ *mcp.CallToolRequest, in deleteInput) (*mcp.CallToolResult, any, error) {
	if len(in.Hashes) == 0 {
		return s.errorResult(ctx, errNoHashes), nil, nil
	}
	if err := s.client.DeleteTorrents(ctx, in.Hashes, in.DeleteFiles); err != nil {
		return s.errorResult(ctx, fmt.Errorf("deleting torrents: %w", err)), nil, nil
	}
	return textResult(fmt.Sprintf("deleted %s", describeHashes(in.Hashes))), nil, nil
}

func (s *Server) torrentRecheck(ctx context.Context, _ *mcp.CallToolRequest, in hashesInput) (*mcp.CallToolResult, any, error) {
	if len(in.Hashes) == 0 {
		return s.errorResult(ctx, errNoHashes), nil, nil
	}
	if err := s.client.RecheckTorrents(ctx, in.Hashes); err != nil {
		return s.errorResult(ctx, fmt.Errorf("rechecking torrents: %w", err)), nil, nil
	}
	return textResult(fmt.Sprintf("rechecking %s", describeHashes(in.Hashes))), nil, nil
}

func (s *Server) torrentSetCategory(ctx context.Context, _ *mcp.CallToolRequest, in setCategoryInput) (*mcp.CallToolResult, any, error) {
	if len(in.Hashes) == 0 {
		return s.errorResult(ctx, errNoHashes), nil, nil
	}
	if err := s.client.SetTorrentCategory(ctx, in.Hashes, in.Category); err != nil {
		return s.errorResult(ctx, fmt.Errorf("setting category: %w", err)), nil, nil
	}
	if in.Category == "" {
		return textResult(fmt.Sprintf("cleared category on %s", describeHashes(in.Hashes))), nil, nil
	}
	return textResult(fmt.Sprintf("moved %s to category %q", describeHashes(in.Hashes), in.Category)), nil, nil
}

func (s *Server) torrentAddTags(ctx context.Context, _ *mcp.CallToolRequest, in addTagsInput) (*mcp.CallToolResult, any, error) {
	if len(in.Hashes) == 0 {
		return s.errorResult(ctx, errNoHashes), nil, nil
	}
	if len(in.Tags) == 0 {
		return s.errorResult(ctx, errors.New("tags must not be empty")), nil, nil
	}
	if err := s.client.AddTorrentTags(ctx, in.Hashes, in.Tags); err != nil {
		return s.errorResult(ctx, fmt.Errorf("adding tags: %w", err)), nil, nil
	}
	return textResult(fmt.Sprintf("tagged %s with %s", describeHashes(in.Hashes), strings.Join(in.Tags, ", "))), nil, nil
}

func (s *Server) transferInfo(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	info, err := s.client.TransferInfo(ctx)
	if err != nil {
		return s.errorResult(ctx, fmt.Errorf("fetching transfer info: %w", err)), nil, nil
	}
	return jsonResult(info), nil, nil
}

func (s *Server) speedLimitsMode(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	alternative, err := s.client.SpeedLimitsMode(ctx)
	if err != nil {
		return s.errorResult(ctx, fmt.Errorf("fetching speed limits mode: %w", err)), nil, nil
	}
	return jsonResult(struct {
		AlternativeSpeedLimits bool `json:"alternative_speed_limits"`
	}{alternative}), nil, nil
}

func (s *Server) toggleSpeedLimitsMode(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	if err := s.client.ToggleSpeedLimitsMode(ctx); err != nil {
		return s.errorResult(ctx, fmt.Errorf("toggling speed limits mode: %w", err)), nil, nil
	}
	return textResult("toggled alternative speed limits"), nil, nil
}

func (s *Server) appVersion(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	app, err := s.client.AppVersion(ctx)
	if err != nil {
		return s.errorResult(ctx, fmt.Errorf("fetching application version: %w", err)), nil, nil
	}
	api, err := s.client.WebAPIVersion(ctx)
	if err != nil {
		return s.errorResult(ctx, fmt.Errorf("fetching Web API version: %w", err)), nil, nil
	}
	return jsonResult(struct {
		Application string `json:"application"`
		WebAPI      string `json:"web_api"`
	}{app, api}), nil, nil
}

func (s *Server) logMain(ctx context.Context, _ *mcp.CallToolRequest, in logMainInput) (*mcp.CallToolResult, any, error) {
	levels, err := parseLogLevels(in.Levels)
	if err != nil {
		return s.errorResult(ctx, err), nil, nil
	}
	opts := qbittorrent.MainLogOptions{Levels: levels, LastKnownID: -1}
	if in.LastKnownID != nil {
		opts.LastKnownID = *in.LastKnownID
	}
	entries, err := s.logs.MainLogs(ctx, opts)
	if err != nil {
		return s.errorResult(ctx, fmt.Errorf("fetching main log: %w", err)), nil, nil
	}
	return jsonResult(entries), nil, nil
}

func parseLogLevels(names []string) (qbittorrent.LogLevel, error) {
	var levels qbittorrent.LogLevel
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "normal":
			levels |= qbittorrent.LogNormal
		case "info":
			levels |= qbittorrent.LogInfo
		case "warning":
			levels |= qbittorrent.LogWarning
		case "critical":
			levels |= qbittorrent.LogCritical
		default:
			return 0, fmt.Errorf("unknown log level %q", name)
		}
	}
	return levels, nil
}

func describeHashes(hashes []string) string {
	if len(hashes) == 1 && hashes[0] == qbittorrent.AllTorrents {
		return "all torrents"
	}
	return fmt.Sprintf("%d torrent(s)", len(hashes))
}
