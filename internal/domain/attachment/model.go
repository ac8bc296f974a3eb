package attachment

// Attachment points at a document held in object storage.
type Attachment struct {
	FileName  string `json:"fileName,omitempty"`
	URL       string `json:"url,omitempty"`
	StorageID string `json:"storageId,omitempty"`
}

func (a Attachment) IsZero() bool {
	return a.URL == "" && a.StorageID == ""
}

// Upload is a document received from a client, not yet stored.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}
