package challenge

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Profile is the header set a browser sends on a top-level navigation.
type Profile struct {
	Name   string
	Header http.Header
}

// Chrome mimics a desktop Chrome navigation request.
var Chrome = Profile{
	Name: "chrome",
	Header: http.Header{
		"User-Agent":                {"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"},
		"Accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"},
		"Accept-Language":           {"en-US,en;q=0.9"},
		"Sec-Ch-Ua":                 {`"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`},
		"Sec-Ch-Ua-Mobile":          {"?0"},
		"Sec-Ch-Ua-Platform":        {`"Windows"`},
		"Sec-Fetch-Dest":            {"document"},
		"Sec-Fetch-Mode":            {"navigate"},
		"Sec-Fetch-Site":            {"none"},
		"Sec-Fetch-User":            {"?1"},
		"Upgrade-Insecure-Requests": {"1"},
	},
}

// Firefox mimics a desktop Firefox navigation request.
var Firefox = Profile{
	Name: "firefox",
	Header: http.Header{
		"User-Agent":                {"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0"},
		"Accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
		"Accept-Language":           {"en-US,en;q=0.5"},
		"Sec-Fetch-Dest":            {"document"},
		"Sec-Fetch-Mode":            {"navigate"},
		"Sec-Fetch-Site":            {"none"},
		"Sec-Fetch-User":            {"?1"},
		"Upgrade-Insecure-Requests": {"1"},
	},
}

var profiles = []Profile{Chrome, Firefox}

// ProfileByName looks up a built-in profile, case-insensitively.
func ProfileByName(name string) (Profile, error) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}

	return Profile{}, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownProfile, name, strings.Join(ProfileNames(), ", "))
}

// ProfileNames lists the built-in profile names.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	slices.Sort(names)

	return names
}

// apply sets every profile header the request doesn't already carry.
func (p Profile) apply(h http.Header) {
	for k, v := range p.Header {
		if _, ok := h[k]; ok {
			continue
		}
		h[k] = slices.Clone(v)
	}
}
