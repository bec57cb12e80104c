package glm

import "strings"

// fuseDefaultReplacementTime is applied to fuse objects that omit
// mean_replacement_time; the simulator warns on every such fuse otherwise.
const fuseDefaultReplacementTime = "3600.0"

// legacyRecorderTypes are object types an older toolchain deleted outright
// after parsing. They are retained now: dropping them broke round-trip
// guarantees for models that legitimately carry recorders.
var legacyRecorderTypes = map[string]bool{
	"recorder":       true,
	"group_recorder": true,
	"collector":      true,
}

// IsLegacyRecorder reports whether an object type belongs to the recorder
// family that legacy tooling used to strip from parsed models.
func IsLegacyRecorder(objectType string) bool {
	return legacyRecorderTypes[objectType]
}

// normalizeTree applies the legacy-syntax cleanup pass to every object in
// the tree, nested objects included:
//
//   - colon-qualified types ("load:45") donate a derived name when none is
//     present, and the qualifier is stripped from the type
//   - colons in field values become underscores
//   - fuses get a default mean_replacement_time
//   - hyphens in name/parent/from/to become underscores, since downstream
//     co-simulation tooling rejects hyphenated names
func normalizeTree(t *Tree) {
	for _, key := range t.Keys() {
		it, _ := t.Get(key)
		obj, ok := it.(*Object)
		if !ok {
			continue
		}

		if strings.Contains(obj.Type, ":") {
			if !obj.Fields.Has("name") {
				obj.Fields.Set("name", strings.ReplaceAll(obj.Type, ":", "_"))
			}
			obj.Type = strings.SplitN(obj.Type, ":", 2)[0]
		}

		for _, k := range obj.Fields.Keys() {
			if v, ok := obj.Fields.Get(k); ok && strings.Contains(v, ":") {
				obj.Fields.Set(k, strings.ReplaceAll(v, ":", "_"))
			}
		}

		if obj.Type == "fuse" && !obj.Fields.Has("mean_replacement_time") {
			obj.Fields.Set("mean_replacement_time", fuseDefaultReplacementTime)
		}

		for _, k := range []string{"name", "parent", "from", "to"} {
			if v, ok := obj.Fields.Get(k); ok && strings.Contains(v, "-") {
				obj.Fields.Set(k, strings.ReplaceAll(v, "-", "_"))
			}
		}
	}
}
