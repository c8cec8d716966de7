package upload

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Media areas. Uploads are stored as "<story id><ext>" under AreaStories
// and processed copies as ProcessedPrefix+"<story id><ext>" under
// AreaProcessed.
const (
	AreaStories     = "stories"
	AreaProcessed   = "processed"
	ProcessedPrefix = "processed_"
)

// Files maps public media URLs ("/uploads/<area>/<name>") to the local
// directories holding them.
type Files struct {
	prefix string
	areas  map[string]string
}

func NewFiles(prefix string, areas map[string]string) *Files {
	return &Files{
		prefix: strings.TrimSuffix(prefix, "/"),
		areas:  areas,
	}
}

// URLFor returns the public URL of a file stored in one of the areas.
func (f *Files) URLFor(p string) (string, bool) {
	dir := filepath.Dir(p)
	for area, areaDir := range f.areas {
		if filepath.Clean(areaDir) == filepath.Clean(dir) {
			return path.Join(f.prefix, area, filepath.Base(p)), true
		}
	}
	return "", false
}

// Resolve maps a public URL back to its local path. External URLs are not
// resolved.
func (f *Files) Resolve(mediaURL string) (string, bool) {
	rest, ok := strings.CutPrefix(mediaURL, f.prefix+"/")
	if !ok {
		return "", false
	}
	area, name, ok := strings.Cut(rest, "/")
	if !ok || name == "" || strings.Contains(name, "/") || name == "." || name == ".." {
		return "", false
	}
	dir, ok := f.areas[area]
	if !ok {
		return "", false
	}
	return filepath.Join(dir, name), true
}

// Owner reports whether mediaURL points into the local media tree and, if
// so, which story the file is named after. The id is empty for local URLs
// that do not follow the naming of their area.
func (f *Files) Owner(mediaURL string) (storyID string, local bool) {
	rest, ok := strings.CutPrefix(mediaURL, f.prefix+"/")
	if !ok {
		return "", false
	}
	if _, ok := f.Resolve(mediaURL); !ok {
		return "", true
	}

	area, name, _ := strings.Cut(rest, "/")
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	switch area {
	case AreaStories:
		return stem, true
	case AreaProcessed:
		id, ok := strings.CutPrefix(stem, ProcessedPrefix)
		if !ok {
			return "", true
		}
		return id, true
	}
	return "", true
}

// StoryMedia names the local files of one story.
type StoryMedia struct {
	UploadURL    string
	ProcessedURL string
}

// StoryMedia returns the local files storyID owns through mediaURL: the
// upload, plus the processed copy when mediaURL points at one. It reports
// false for external URLs and for files named after another story.
func (f *Files) StoryMedia(mediaURL, storyID string) (StoryMedia, bool) {
	owner, local := f.Owner(mediaURL)
	if !local || owner == "" || owner != storyID {
		return StoryMedia{}, false
	}

	name := path.Base(mediaURL)
	if processed, ok := strings.CutPrefix(name, ProcessedPrefix); ok && mediaURL == path.Join(f.prefix, AreaProcessed, name) {
		return StoryMedia{
			UploadURL:    path.Join(f.prefix, AreaStories, processed),
			ProcessedURL: mediaURL,
		}, true
	}
	return StoryMedia{UploadURL: mediaURL}, true
}

// Remove deletes the local file behind mediaURL. It reports false for
// external URLs and files that are already gone.
func (f *Files) Remove(mediaURL string) (bool, error) {
	p, ok := f.Resolve(mediaURL)
	if !ok {
		return false, nil
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Handler serves the stored media read-only.
func (f *Files) Handler() http.Handler {
	mux := http.NewServeMux()
	for area, dir := range f.areas {
		prefix := path.Join(f.prefix, area) + "/"
		mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(dir))))
	}
	return mux
}
