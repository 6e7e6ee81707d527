// Package site holds the registry of hosts whose security posture is rated.
package site

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// Site identifies one scan target.
type Site struct {
	// Name is the display label.
	Name string `yaml:"name"`
	// Host is the ASCII DNS name used as the scan key.
	Host string `yaml:"host"`
	// Icon is the URL of the favicon shown next to the name.
	Icon string `yaml:"icon"`
}

// New validates and normalizes a site. Unicode host names are converted to
// their ASCII form.
func New(name string, host string, icon string) (Site, error) {
	name = strings.TrimSpace(name)
	host = strings.TrimSpace(host)
	icon = strings.TrimSpace(icon)

	if name == "" {
		return Site{}, errors.New("site name not specified")
	}
	if host == "" {
		return Site{}, fmt.Errorf("host not specified for site %q", name)
	}
	for _, field := range []string{name, host, icon} {
		if strings.ContainsAny(field, "\t\r\n") {
			return Site{}, fmt.Errorf("site %q contains a tab or line break", name)
		}
	}

	ascii, err := idna.ToASCII(host)
	if err != nil {
		return Site{}, fmt.Errorf("could not convert host %q to ASCII: %w", host, err)
	}

	return Site{
		Name: name,
		Host: strings.ToLower(ascii),
		Icon: icon,
	}, nil
}

func mustNew(name string, host string, icon string) Site {
	s, err := New(name, host, icon)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate normalizes every site and rejects duplicate hosts.
func Validate(sites []Site) ([]Site, error) {
	if len(sites) == 0 {
		return nil, errors.New("site registry is empty")
	}

	seen := make(map[string]bool)
	var valid []Site
	for _, s := range sites {
		n, err := New(s.Name, s.Host, s.Icon)
		if err != nil {
			return nil, err
		}
		if seen[n.Host] {
			return nil, fmt.Errorf("host %q is listed more than once", n.Host)
		}
		seen[n.Host] = true
		valid = append(valid, n)
	}
	return valid, nil
}
