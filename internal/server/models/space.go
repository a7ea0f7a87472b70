package models

// Space is a saved space row. Image bytes live in the blob store under
// AfterKey and BeforeKey; an empty key means the image is absent.
type Space struct {
	ID          string
	OwnerID     string
	Name        string
	CreatedDate string
	Kind        string
	Note        string
	AfterKey    string
	AfterMime   string
	BeforeKey   string
	BeforeMime  string
}

// Image is an encoded raster travelling between the blob store and the
// wire.
type Image struct {
	MimeType string
	Data     []byte
}

func (i Image) IsZero() bool { return len(i.Data) == 0 }

const (
	KindScan  = "scan"
	KindDream = "dream"
)

// SpaceContent is a space row together with its images.
type SpaceContent struct {
	Space
	After  Image
	Before Image
}
