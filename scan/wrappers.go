package scan

import (
	"errors"
	"strings"

	"github.com/chromium/hstspreload/chromium/preloadlist"
)

type preloadlistWrapper interface {
	NewFromLatest() (preloadlist.PreloadList, error)
}

/******** actual ********/

type actualPreloadlist struct{}

func (actualPreloadlist) NewFromLatest() (preloadlist.PreloadList, error) {
	return preloadlist.NewFromLatest()
}

/******** mock ********/

type mockPreloadlist struct {
	list      preloadlist.PreloadList
	failCalls bool
}

func (p mockPreloadlist) NewFromLatest() (preloadlist.PreloadList, error) {
	if p.failCalls {
		return preloadlist.PreloadList{}, errors.New("forced failure")
	}
	return p.list, nil
}

// preloadIndex holds the force-https entries of the Chromium preload list by
// name.
type preloadIndex map[string]preloadlist.Entry

func newPreloadIndex(list preloadlist.PreloadList) preloadIndex {
	idx := preloadIndex{}
	for _, entry := range list.Entries {
		if entry.Mode == preloadlist.ForceHTTPS {
			idx[entry.Name] = entry
		}
	}
	return idx
}

// covers reports whether host is preloaded, either directly or through a
// parent domain preloaded with include_subdomains.
func (idx preloadIndex) covers(host string) bool {
	if _, ok := idx[host]; ok {
		return true
	}
	for i := strings.Index(host, "."); i >= 0; i = strings.Index(host, ".") {
		host = host[i+1:]
		if entry, ok := idx[host]; ok && entry.IncludeSubDomains {
			return true
		}
	}
	return false
}
