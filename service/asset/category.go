package asset

import "strings"

// Workflow categories inferred from the source folder path.
const (
	CategoryRawCapture  = "raw_capture"
	CategoryFinalEcom   = "final_ecom"
	CategoryPsdCutout   = "psd_cutout"
	CategoryProjectFile = "project_file"
)

// DetermineWorkflowCategory classifies a file by path keywords,
// case-insensitive, in priority order. Anything unmatched (including
// everything under a photos root) defaults to raw_capture.
func DetermineWorkflowCategory(filePath string) string {
	lower := strings.ToLower(filePath)

	if strings.Contains(lower, "/raw captures/") || strings.Contains(lower, "/raw_captures/") {
		return CategoryRawCapture
	}
	if strings.Contains(lower, "/final ecom") || strings.Contains(lower, "/final_ecom") {
		return CategoryFinalEcom
	}
	if strings.Contains(lower, "/psd") && strings.Contains(lower, "/cutouts") {
		return CategoryPsdCutout
	}
	if strings.Contains(lower, "/psd") || strings.Contains(lower, "/project") {
		return CategoryProjectFile
	}
	return CategoryRawCapture
}

// MediaTypeFromMime buckets a content type into image, video or file.
func MediaTypeFromMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	default:
		return "file"
	}
}
