package project

const (
	EventImageSelected    = "mockup.image.selected"
	EventMarkupGenerated  = "mockup.markup.generated"
	EventMarkupDownloaded = "mockup.markup.downloaded"
)

type ImageSelected struct {
	SessionID   string `json:"session_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type MarkupGenerated struct {
	SessionID   string   `json:"session_id"`
	Predictions int      `json:"predictions"`
	Elements    int      `json:"elements"`
	Skipped     []string `json:"skipped,omitempty"`
}

type MarkupDownloaded struct {
	SessionID string   `json:"session_id"`
	Files     []string `json:"files"`
}
