package models

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
)

const MIMETypeJPEG = "image/jpeg"

var ErrInvalidDataURI = errors.New("invalid data URI")

// Image is an encoded raster (JPEG, PNG, ...). It is treated as an immutable
// value; the zero Image means "absent".
type Image struct {
	MIMEType string
	Data     []byte
}

func NewJPEG(data []byte) Image {
	return Image{MIMEType: MIMETypeJPEG, Data: data}
}

func (i Image) IsZero() bool {
	return len(i.Data) == 0
}

func (i Image) Equal(o Image) bool {
	return i.MIMEType == o.MIMEType && bytes.Equal(i.Data, o.Data)
}

// DataURI renders the image as "data:<mime>;base64,<payload>".
func (i Image) DataURI() string {
	if i.IsZero() {
		return ""
	}
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ParseDataURI is the inverse of DataURI. An empty string yields the zero Image.
func ParseDataURI(s string) (Image, error) {
	if s == "" {
		return Image{}, nil
	}
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Image{}, ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, ErrInvalidDataURI
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok || mime == "" {
		return Image{}, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, ErrInvalidDataURI
	}
	return Image{MIMEType: mime, Data: data}, nil
}

func (i Image) MarshalText() ([]byte, error) {
	return []byte(i.DataURI()), nil
}

func (i *Image) UnmarshalText(b []byte) error {
	parsed, err := ParseDataURI(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
