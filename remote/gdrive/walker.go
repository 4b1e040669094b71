package gdrive

import (
	"context"
	"path"
)

// Leaf is one file found while walking a folder tree. Path is slash
// joined and relative to the traversal root.
type Leaf struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	ModifiedTime string
	Path         string
}

// ListTree walks a folder recursively and returns every file leaf.
// Folder ordering is not stable across runs; callers must not rely on
// it for correctness. A listing failure anywhere aborts the walk.
func ListTree(ctx context.Context, lister Lister, rootFolderID string) ([]Leaf, error) {
	var leaves []Leaf
	if err := walk(ctx, lister, rootFolderID, "", &leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

func walk(ctx context.Context, lister Lister, folderID, prefix string, leaves *[]Leaf) error {
	files, err := lister.ListFolder(ctx, folderID)
	if err != nil {
		return err
	}
	for _, f := range files {
		p := f.Name
		if prefix != "" {
			p = path.Join(prefix, f.Name)
		}
		if f.MimeType == FolderMimeType {
			if err := walk(ctx, lister, f.ID, p, leaves); err != nil {
				return err
			}
			continue
		}
		*leaves = append(*leaves, Leaf{
			ID:           f.ID,
			Name:         f.Name,
			MimeType:     f.MimeType,
			Size:         f.Size,
			ModifiedTime: f.ModifiedTime.Format("2006-01-02T15:04:05Z07:00"),
			Path:         p,
		})
	}
	return nil
}
