package analyzer

// Symbology tags as reported by the decode collaborator.
const (
	// SymbologyCode128 is the only format this tool accepts; hits of any
	// other symbology are dropped by the pipeline.
	SymbologyCode128 = "CODE128"
)

// MaxResults caps a result set. The tool targets fixed-count label sheets
// of ten codes, so the status line flags any other count.
const MaxResults = 10

// Rect is an axis-aligned rectangle in image pixel coordinates.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DecodeHit is a single raw detection produced by the decoder.
type DecodeHit struct {
	Payload   []byte
	Symbology string
	Box       Rect
}

// ResultRow is one ordered entry of a result set. Note is the only field
// that may change after creation; Suggestion is always derived from Code.
type ResultRow struct {
	Index      int    `json:"index"`
	Code       string `json:"code"`
	Suggestion string `json:"suggestion"`
	Note       string `json:"note"`
}

// Report summarizes one decode run for status display.
type Report struct {
	Total    int // raw hits of any symbology
	Accepted int // hits matching SymbologyCode128
	Shown    int // rows after the MaxResults cap
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	LastImageDir  string `json:"lastImageDir"`
	LastExportDir string `json:"lastExportDir"`
	TryHarder     bool   `json:"tryHarder"`
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.LastImageDir == "" {
		c.LastImageDir = "."
	}
	if c.LastExportDir == "" {
		c.LastExportDir = c.LastImageDir
	}
}
