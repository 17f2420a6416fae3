package service

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveService archives receipts in a Google Drive folder
type DriveService struct {
	client *drive.Service
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	// option.WithCredentialsFile handles Service Account authentication
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{client: driveService}, nil
}

// UploadFile stores data as a new file named name inside folderID and returns the Drive file id
func (ds *DriveService) UploadFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error) {
	file := &drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{folderID},
	}

	created, err := ds.client.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	return created.Id, nil
}
