package qbittorrent

// baselineVersion is the release that renamed the pause/resume wire
// vocabulary to stop/start.
const baselineVersion = "5.0.0"

// wirePolicy resolves every wire-level difference between the pre-5.0 and
// 5.0+ Web APIs in one place, so version branches are not scattered across
// endpoint methods.
type wirePolicy struct {
	atLeastV5 bool
}

// policyFor classifies a detected version. Without positive confirmation of
// a 5.0+ server the legacy vocabulary applies.
func policyFor(v *VersionInfo) wirePolicy {
	if v == nil {
		return wirePolicy{}
	}
	return wirePolicy{atLeastV5: v.AtLeastV5}
}

// stopPath returns the endpoint that halts torrents.
func (p wirePolicy) stopPath() string {
	if p.atLeastV5 {
		return "torrents/stop"
	}
	return "torrents/pause"
}

// startPath returns the endpoint that resumes torrents.
func (p wirePolicy) startPath() string {
	if p.atLeastV5 {
		return "torrents/start"
	}
	return "torrents/resume"
}

// filterToken remaps a torrent-list filter between the two vocabularies.
// Tokens outside the renamed set pass through unchanged.
func (p wirePolicy) filterToken(filter string) string {
	if p.atLeastV5 {
		switch filter {
		case "paused":
			return "stopped"
		case "resumed":
			return "running"
		}
		return filter
	}
	switch filter {
	case "stopped":
		return "paused"
	case "running":
		return "resumed"
	}
	return filter
}

// stoppedField resolves the add-torrent form key for the stopped/paused
// option pair. An explicit Stopped wins over the legacy Paused alias; only
// the key native to the server version is ever emitted. ok is false when
// neither option is set.
func (p wirePolicy) stoppedField(paused, stopped *bool) (key string, value, ok bool) {
	v := stopped
	if v == nil {
		v = paused
	}
	if v == nil {
		return "", false, false
	}
	if p.atLeastV5 {
		return "stopped", *v, true
	}
	return "paused", *v, true
}
