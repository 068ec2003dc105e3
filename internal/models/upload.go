package models

// UploadResult describes a stored image
type UploadResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"` // relative to the upload directory
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
}
