package internal

import (
	"regexp"
	"strings"
)

// DefaultTag is used whenever a registry path omits its tag
const DefaultTag = "default"

// [protocol::]namespace/item[/subitem][:tag]
var registryPathPattern = regexp.MustCompile(
	`^(?:([0-9A-Za-z._-]+)::)?([0-9A-Za-z_-]+)/([0-9A-Za-z._-]+)(?:/([0-9A-Za-z._-]+))?(?::([0-9A-Za-z._,|-]*))?$`,
)

var fileSuffixes = []string{".yaml", ".yml", ".csv"}

// RegistryPath locates a project on the hub
type RegistryPath struct {
	Protocol  string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Item      string `json:"item" yaml:"item"`
	Subitem   string `json:"subitem,omitempty" yaml:"subitem,omitempty"`
	Tag       string `json:"tag" yaml:"tag"`
}

// ParseRegistryPath parses "namespace/item:tag" style identifiers
func ParseRegistryPath(s string) (RegistryPath, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return RegistryPath{}, &MalformedRegistryPathError{Input: s, Reason: "empty"}
	}
	lower := strings.ToLower(trimmed)
	for _, suffix := range fileSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return RegistryPath{}, &MalformedRegistryPathError{Input: s, Reason: "looks like a local " + suffix + " file"}
		}
	}

	m := registryPathPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return RegistryPath{}, &MalformedRegistryPathError{Input: s, Reason: "expected namespace/item[:tag]"}
	}

	return RegistryPath{
		Protocol:  m[1],
		Namespace: m[2],
		Item:      m[3],
		Subitem:   m[4],
		Tag:       normalizeTag(m[5]),
	}, nil
}

// IsRegistryPath reports whether s names a hub project rather than a local file
func IsRegistryPath(s string) bool {
	_, err := ParseRegistryPath(s)
	return err == nil
}

func normalizeTag(tag string) string {
	if tag == "" {
		return DefaultTag
	}
	return tag
}

// String returns the canonical form of the path
func (rp RegistryPath) String() string {
	var b strings.Builder
	if rp.Protocol != "" {
		b.WriteString(rp.Protocol)
		b.WriteString("::")
	}
	b.WriteString(rp.Namespace)
	b.WriteByte('/')
	b.WriteString(rp.Item)
	if rp.Subitem != "" {
		b.WriteByte('/')
		b.WriteString(rp.Subitem)
	}
	b.WriteByte(':')
	b.WriteString(normalizeTag(rp.Tag))
	return b.String()
}

// FolderName is the directory a pulled project is saved to
func (rp RegistryPath) FolderName() string {
	name := rp.Namespace + "_" + rp.Item
	if tag := normalizeTag(rp.Tag); tag != DefaultTag {
		name += ":" + tag
	}
	return name
}
