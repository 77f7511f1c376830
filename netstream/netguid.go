// This file contains NetworkGUID resolution: the recursive object-graph
// walk that turns a packed integer id into an optional (guid, path)
// cache entry, grounded on original_source/src/data/net.rs's
// NetworkGUID and StringExt.

package netstream

import "strings"

// NetworkGUID identifies a replicated UObject. Zero is invalid; 1 is the
// engine's well-known "default" object.
type NetworkGUID uint32

// IsValid reports whether the id is non-zero.
func (g NetworkGUID) IsValid() bool {
	return g > 0
}

// IsDefault reports whether this is the well-known default object id.
func (g NetworkGUID) IsDefault() bool {
	return g == 1
}

// IsDynamic reports whether the object was spawned at runtime rather
// than placed in the level: valid ids with the low bit clear.
func (g NetworkGUID) IsDynamic() bool {
	return g > 0 && g&1 != 1
}

// GuidCache maps resolved NetworkGUIDs to their cleaned path names,
// populated as the frame- and packet-level object graphs are walked.
type GuidCache struct {
	paths map[NetworkGUID]string
}

// NewGuidCache returns an empty cache.
func NewGuidCache() *GuidCache {
	return &GuidCache{paths: make(map[NetworkGUID]string)}
}

// PathFor returns the cached path for a guid, if any.
func (c *GuidCache) PathFor(guid NetworkGUID) (string, bool) {
	p, ok := c.paths[guid]
	return p, ok
}

func (c *GuidCache) set(guid NetworkGUID, path string) {
	c.paths[guid] = path
}

// maxGuidRecursionDepth bounds loadInternalObject's outer-object walk
// (spec.md §4.2); the wire format nests an object inside its outer
// object inside its outer object and so on, and a depth past this is
// treated as a dead end rather than followed further.
const maxGuidRecursionDepth = 16

// loadInternalObject reads a packed NetworkGUID and, if it is the
// default guid or is read in an exporting context, reads its flags byte;
// when that carries a path it recursively resolves its outer object's
// guid (to advance the cursor past it) and, when exporting, caches this
// guid's cleaned path. depth starts at 0; the caller (PacketParser) owns
// the cache so resolved entries persist across calls.
//
// Only the non-recursive, top-level call inserts into the cache: the
// recursive call one level down (net.rs binds its result to outer_guid
// and discards it) exists purely to consume the outer object's bytes off
// the wire, not to record it. Without the depth == 0 guard, every
// outer-object level on the path would also get cached, which the
// original never does.
func loadInternalObject(c cursor, cache *GuidCache, isExportingNetGUIDBunch bool, depth int) (NetworkGUID, error) {
	if depth > maxGuidRecursionDepth {
		return 0, nil
	}
	id, err := ReadIntPacked(c)
	if err != nil {
		return 0, err
	}
	guid := NetworkGUID(id)
	if !guid.IsValid() {
		return guid, nil
	}
	if !guid.IsDefault() && !isExportingNetGUIDBunch {
		return guid, nil
	}

	flags, err := readByteCursor(c)
	if err != nil {
		return 0, err
	}
	const flagHasPath = 1
	const flagHasNetworkChecksum = 4
	if flags&flagHasPath != 0 {
		if _, err := loadInternalObject(c, cache, true, depth+1); err != nil {
			return 0, err
		}
		pathName, err := ReadFString(c)
		if err != nil {
			return 0, err
		}
		if flags&flagHasNetworkChecksum != 0 {
			if _, err := ReadU32(c); err != nil {
				return 0, err
			}
		}
		if isExportingNetGUIDBunch && depth == 0 {
			cache.set(guid, removeAllPathPrefixes(pathName))
		}
	}
	return guid, nil
}

// readByteCursor reads one byte off the cursor; a thin helper so
// loadInternalObject reads uniformly whether driven by a ByteReader or
// a BitReader.
func readByteCursor(c cursor) (byte, error) {
	return c.ReadByte()
}

// removeAllPathPrefixes strips everything up to and including the last
// '.' in the string; if a '/' is found first (scanning from the end) the
// string is returned unchanged. Falling off the front with neither
// strips a leading "Default__" instead. Mirrors StringExt's
// remove_all_path_prefixes / remove_path_prefix.
func removeAllPathPrefixes(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '.':
			return s[i+1:]
		case '/':
			return s
		}
	}
	return strings.TrimPrefix(s, "Default__")
}
