package gdrive

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// FolderMimeType marks folder nodes in listings.
const FolderMimeType = "application/vnd.google-apps.folder"

// File is one child of a folder listing, folder or leaf.
type File struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	ModifiedTime time.Time
}

// Lister lists the direct children of one folder. The walker and the
// import service depend on this interface; tests supply a fake tree.
type Lister interface {
	ListFolder(ctx context.Context, folderID string) ([]File, error)
}

// Downloader fetches the raw bytes of one file.
type Downloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// Service wraps the Drive v3 API with read-only access.
type Service struct {
	svc *drive.Service
}

// NewServiceFromEnv builds a Drive service from
// GDRIVE_SERVICE_ACCOUNT_KEY (base64-encoded service account JSON).
func NewServiceFromEnv(ctx context.Context) (*Service, error) {
	keyB64 := os.Getenv("GDRIVE_SERVICE_ACCOUNT_KEY")
	if keyB64 == "" {
		return nil, fmt.Errorf("gdrive: GDRIVE_SERVICE_ACCOUNT_KEY is required")
	}
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("gdrive: decode service account key: %w", err)
	}
	svc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(key),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("gdrive: init service: %w", err)
	}
	return &Service{svc: svc}, nil
}

// ListFolder returns the non-trashed children of a folder, following
// pagination until exhausted. Ordering is whatever the API returns.
func (s *Service) ListFolder(ctx context.Context, folderID string) ([]File, error) {
	var out []File
	pageToken := ""
	for {
		call := s.svc.Files.List().
			Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
			Fields("nextPageToken, files(id,name,mimeType,size,modifiedTime)").
			PageSize(200).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("gdrive: list folder %s: %w", folderID, err)
		}
		for _, f := range res.Files {
			modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
			out = append(out, File{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				Size:         f.Size,
				ModifiedTime: modified,
			})
		}
		if res.NextPageToken == "" {
			return out, nil
		}
		pageToken = res.NextPageToken
	}
}

// Download fetches the full content of one file.
func (s *Service) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("gdrive: download %s: %w", fileID, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gdrive: read %s: %w", fileID, err)
	}
	return data, nil
}
