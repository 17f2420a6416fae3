package service

import "context"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	UploadFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error)
}
