package pexels

// Predefined image sizes served in a photo's src mapping
const (
	SizeOriginal  = "original"
	SizeLarge2x   = "large2x"
	SizeLarge     = "large"
	SizeMedium    = "medium"
	SizeSmall     = "small"
	SizePortrait  = "portrait"
	SizeLandscape = "landscape"
	SizeTiny      = "tiny"
)

// Sizes lists every predefined size name, largest first
var Sizes = []string{
	SizeOriginal,
	SizeLarge2x,
	SizeLarge,
	SizeMedium,
	SizeSmall,
	SizePortrait,
	SizeLandscape,
	SizeTiny,
}

// Photo is a single photo as returned by the API
type Photo struct {
	ID              int64             `json:"id"`
	Width           int               `json:"width"`
	Height          int               `json:"height"`
	URL             string            `json:"url"`
	Photographer    string            `json:"photographer"`
	PhotographerURL string            `json:"photographer_url"`
	PhotographerID  int64             `json:"photographer_id"`
	AvgColor        string            `json:"avg_color"`
	Alt             string            `json:"alt"`
	Src             map[string]string `json:"src"`
}

// SrcURL returns the URL for a predefined size and whether it exists
func (p *Photo) SrcURL(size string) (string, bool) {
	u, ok := p.Src[size]
	return u, ok
}

// curatedResponse is the envelope returned by the curated endpoint
type curatedResponse struct {
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Photos  []Photo `json:"photos"`
}
