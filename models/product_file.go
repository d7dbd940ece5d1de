package models

// ProductFileResponse is returned to clients during activation and validation.
type ProductFileResponse struct {
	ID          string `json:"id"`
	FileID      string `json:"file_id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
	URL         string `json:"url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	DeliveryURL string `json:"delivery_url,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}
