package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// A Resource is a readable mesh or compiled hierarchy stream that is either a
// local file or fetched over http/https.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Get the path or URL of this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Get the file name of this resource without any directories.
func (r *Resource) Name() string {
	return path.Base(r.url.Path)
}

// Returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a resource. Paths without a scheme are treated as local files. If relTo
// is not nil a relative location is resolved against the directory of relTo,
// so files referenced from a remote mesh are fetched from the same server.
//
// The caller is responsible for closing the returned resource.
func NewResource(location string, relTo *Resource) (*Resource, error) {
	loc, err := url.Parse(strings.Replace(location, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("resource: invalid location %q: %s", location, err)
	}

	if loc.Scheme == "" && relTo != nil && !filepath.IsAbs(loc.Path) {
		if relTo.IsRemote() {
			loc = relTo.url.ResolveReference(loc)
		} else {
			loc.Path = filepath.Join(filepath.Dir(relTo.url.Path), loc.Path)
		}
	}

	var reader io.ReadCloser
	switch loc.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(loc.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(loc.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", loc.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", loc.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", loc.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        loc,
	}, nil
}

// Wrap an in-memory stream as a resource.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	loc, err := url.Parse(name)
	if err != nil {
		loc = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        loc,
	}
}
