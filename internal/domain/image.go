package domain

// Image описывает изображение товара, которое хранится в S3
type Image struct {
	ID          string // uuid
	ObjectKey   string
	Data        []byte
	Size        int64
	ContentType string // Example: "image/jpeg"
}

func NewImage(id string, objectKey string, data []byte, size int64, contentType string) *Image {
	return &Image{
		ID:          id,
		ObjectKey:   objectKey,
		Data:        data,
		Size:        size,
		ContentType: contentType,
	}
}
