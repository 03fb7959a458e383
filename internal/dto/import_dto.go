package dto

// ImportRequest is the POST /api/import body. At least one of URL/Content
// must be non-empty after trimming. The cv_* fields are opaque text supplied
// by the caller (the browser extension sends the local file's name here, not
// a storage path).
type ImportRequest struct {
	URL           string `json:"url"`
	Content       string `json:"content"`
	CVText        string `json:"cvText"`
	CVFilePath    string `json:"cvFilePath"`
	CVVersionName string `json:"cvVersionName"`
}
