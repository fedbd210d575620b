package entity

// StoredFile is a blob reference returned by the file store. ObjectKey is
// empty when the URL was pasted by the admin and nothing was uploaded; such
// references are never deleted on cleanup.
type StoredFile struct {
	URL       string `json:"url"`
	ObjectKey string `json:"objectKey,omitempty"`
}
