package models

// FileRef points at a file handed over by the picker or passed to the share
// sheet
type FileRef struct {
	URI      string `json:"uri"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MIMEType string `json:"mime_type"`
}

// SizeMB returns the size in megabytes, as shown on invitation cards
func (f FileRef) SizeMB() float64 {
	return float64(f.Size) / (1024 * 1024)
}
