package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPublicURL_PrefersCDNDomain(t *testing.T) {
	// Arrange
	svc := NewStorageService(nil, StorageConfig{
		BucketName: "photos",
		CDNDomain:  "cdn.example.com",
		BaseURL:    "https://photos.s3.us-east-1.amazonaws.com",
	})

	// Act
	url := svc.GetPublicURL("1700000000000-cat.jpg")

	// Assert
	assert.Equal(t, "https://cdn.example.com/1700000000000-cat.jpg", url)
}

func TestGetPublicURL_FallsBackToBucketEndpoint(t *testing.T) {
	// Arrange
	svc := NewStorageService(nil, StorageConfig{
		BucketName: "photos",
		BaseURL:    "https://photos.s3.us-east-1.amazonaws.com/",
	})

	// Act
	url := svc.GetPublicURL("1700000000000-cat.jpg")

	// Assert
	// Objects stay reachable when no CDN domain is configured.
	assert.Equal(t, "https://photos.s3.us-east-1.amazonaws.com/1700000000000-cat.jpg", url)
}
