package plistdoc

import (
	"fmt"

	"howett.net/plist"

	"github.com/danieljhkim/tweakrestore/internal/value"
)

// CacheGroupKey is the dictionary under which capability documents usually
// nest their answers. Documents without it are patched at the root.
const CacheGroupKey = "caches"

// Decode parses a property list of any format and returns its root
// dictionary.
func Decode(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDocument)
	}
	var root any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	dict, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root is %T, not a dictionary", ErrInvalidDocument, root)
	}
	return dict, nil
}

// PatchNestedOrRoot merges patch into original. When original has a
// dictionary under CacheGroupKey the patch is merged there, otherwise at the
// root. Keys absent from the patch are left untouched.
func PatchNestedOrRoot(original []byte, patch value.PatchSet) ([]byte, error) {
	doc, err := Decode(original)
	if err != nil {
		return nil, err
	}

	target := doc
	if nested, ok := doc[CacheGroupKey].(map[string]any); ok {
		target = nested
	}
	merge(target, patch)

	return encode(doc)
}

// BuildFromScratch encodes patch as a standalone dictionary.
func BuildFromScratch(patch value.PatchSet) ([]byte, error) {
	doc := make(map[string]any, len(patch))
	merge(doc, patch)
	return encode(doc)
}

// DisabledOverride returns the launchd override document that disables a
// service.
func DisabledOverride() ([]byte, error) {
	return BuildFromScratch(value.PatchSet{"Disabled": value.Bool(true)})
}

// merge copies every representable patch value into dst. Invalid values are
// dropped.
func merge(dst map[string]any, patch value.PatchSet) {
	for key, v := range patch {
		native, ok := v.Native()
		if !ok {
			continue
		}
		dst[key] = native
	}
}

func encode(doc map[string]any) ([]byte, error) {
	data, err := plist.Marshal(doc, plist.BinaryFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}
