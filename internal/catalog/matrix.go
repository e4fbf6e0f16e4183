// internal/catalog/matrix.go
package catalog

// VariationDef is the slice of a variation the matrix cares about.
type VariationDef struct {
	Key     string
	Options []string
}

// Vector maps variation keys to one chosen option value.
type Vector map[string]string

// ComputeMatrix returns the Cartesian product of the given variations'
// option lists in odometer order: the last variation cycles fastest.
// An empty variation list yields a single empty vector. Variations with
// no options contribute nothing, so the whole product collapses to an
// empty matrix.
func ComputeMatrix(variations []VariationDef) []Vector {
	matrix := []Vector{{}}

	for _, variation := range variations {
		next := make([]Vector, 0, len(matrix)*len(variation.Options))
		for _, vector := range matrix {
			for _, option := range variation.Options {
				combined := make(Vector, len(vector)+1)
				for k, v := range vector {
					combined[k] = v
				}
				combined[variation.Key] = option
				next = append(next, combined)
			}
		}
		matrix = next
	}

	return matrix
}

// VectorExists reports whether candidate matches some matrix entry
// exactly: same key set, same value per key. Partial matches and
// supersets do not count.
func VectorExists(matrix []Vector, candidate Vector) bool {
	for _, vector := range matrix {
		if vectorsEqual(vector, candidate) {
			return true
		}
	}
	return false
}

func vectorsEqual(a, b Vector) bool {
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		other, ok := b[key]
		if !ok || other != value {
			return false
		}
	}
	return true
}
