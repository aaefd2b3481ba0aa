// Package viewer decides how a repository file is shown.
//
// It is a dispatch table on the file extension, nothing more: images are
// shown from their retrieval URL, office documents and PDFs go through an
// embedded third-party document viewer, everything else is shown as text
// with a highlighter language hint for the browser.
package viewer

import (
	"net/url"
	"path"
	"strings"
)

// Kind is the rendering chosen for a file.
type Kind int

const (
	KindCode Kind = iota
	KindImage
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindDocument:
		return "document"
	default:
		return "code"
	}
}

var (
	imageExts    = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "svg": true}
	documentExts = map[string]bool{"pdf": true, "doc": true, "docx": true, "ppt": true, "pptx": true, "xls": true, "xlsx": true}
)

// DocumentViewerBase is the embedded viewer used for documents.
const DocumentViewerBase = "https://docs.google.com/gview"

// Ext returns the lower-cased extension of name without the dot, or "".
func Ext(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// Classify picks the rendering for a file name.
func Classify(name string) Kind {
	ext := Ext(name)
	switch {
	case imageExts[ext]:
		return KindImage
	case documentExts[ext]:
		return KindDocument
	default:
		return KindCode
	}
}

// Language is the highlighter language label for a code file.
func Language(name string) string {
	ext := Ext(name)
	switch ext {
	case "js":
		return "javascript"
	case "":
		return "plaintext"
	}
	return ext
}

// DocumentViewerURL points the embedded viewer at downloadURL.
func DocumentViewerURL(downloadURL string) string {
	q := url.Values{}
	q.Set("url", downloadURL)
	q.Set("embedded", "true")
	return DocumentViewerBase + "?" + q.Encode()
}

// View is everything a template needs to show one file.
type View struct {
	Name        string
	Kind        Kind
	Language    string
	Content     string
	Lines       []string
	DownloadURL string
	EmbedURL    string
}

// New builds the View for a fetched file.
func New(name, content, downloadURL string) View {
	v := View{
		Name:        name,
		Kind:        Classify(name),
		Content:     content,
		DownloadURL: downloadURL,
	}
	switch v.Kind {
	case KindDocument:
		v.EmbedURL = DocumentViewerURL(downloadURL)
	case KindCode:
		v.Language = Language(name)
		v.Lines = strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	}
	return v
}
