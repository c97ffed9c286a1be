package domain

// Source is the canonical attribution record for a metric datapoint.
// Both accepted JSON shapes are normalized into this type at load time.
type Source struct {
	Publisher   string         `json:"publisher"`
	Title       string         `json:"title"`
	Type        string         `json:"type,omitempty"`
	HomepageURL string         `json:"homepageUrl"`
	YearURLs    map[int]string `json:"yearUrls,omitempty"`
}

// DisplayName returns the human readable name for the source
func (s Source) DisplayName() string {
	if s.Publisher != "" {
		return s.Publisher
	}
	return s.Title
}

// LinkForYear returns the year-specific URL when one is published,
// otherwise the homepage.
func (s Source) LinkForYear(year int) string {
	if url, ok := s.YearURLs[year]; ok && url != "" {
		return url
	}
	return s.HomepageURL
}
