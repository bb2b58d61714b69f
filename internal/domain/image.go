package domain

// ImageMeta describes a stored blob without its payload.
type ImageMeta struct {
	Mime      string `json:"mime"`
	Size      int    `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt int64  `json:"createdAt"`
}

// StoredImage is a media-store entry: the binary payload plus its metadata.
type StoredImage struct {
	ImageMeta
	Data []byte `json:"-"`
}
