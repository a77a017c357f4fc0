package texture

import (
	"fmt"
	"strings"
)

// Kind selects how a texture file is processed after decoding.
// It is not part of the cache key.
type Kind int

const (
	Diffuse Kind = iota
	Normal
	Specular
	Gloss
)

var kindNames = [...]string{
	Diffuse:  "diffuse",
	Normal:   "normal",
	Specular: "specular",
	Gloss:    "gloss",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the lowercase kind names, ignoring case.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("texture: unknown kind %q", s)
}

// Policy holds the processing flags applied to a decoded image.
type Policy struct {
	GenerateMipMaps  bool
	ColorIsLinear    bool
	IsNormalMap      bool
	AllowCompression bool
}

// PolicyFor returns the processing policy for a kind.
// It panics on a value outside the four defined kinds.
func PolicyFor(k Kind) Policy {
	switch k {
	case Diffuse:
		return Policy{GenerateMipMaps: true, ColorIsLinear: false, IsNormalMap: false, AllowCompression: true}
	case Specular, Gloss:
		return Policy{GenerateMipMaps: true, ColorIsLinear: true, IsNormalMap: false, AllowCompression: true}
	case Normal:
		return Policy{GenerateMipMaps: true, ColorIsLinear: true, IsNormalMap: true, AllowCompression: false}
	}
	panic(fmt.Sprintf("texture: no policy for %v", k))
}
