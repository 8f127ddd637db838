package models

// GalleryStats mirrors GET /gallery/stats. A pure cache of one endpoint's
// response; never mutated locally, only replaced by a re-fetch.
type GalleryStats struct {
	TotalFiles  int `json:"totalFiles"`
	TotalImages int `json:"totalImages"`
	TotalVideos int `json:"totalVideos"`
}
