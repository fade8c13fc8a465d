package privacy

import (
	"fmt"
	"sort"
	"strings"
)

// ValueRecoder deterministically maps distinct original values for one
// column onto bijective base-26 labels ("Site_A", "Site_B", ... "Site_AA"),
// so the same input always recodes to the same output within a run.
type ValueRecoder struct {
	mappings map[string]string
	counter  int
	prefix   string
}

// NewValueRecoder returns a recoder emitting "<prefix>_<label>" tokens.
func NewValueRecoder(prefix string) *ValueRecoder {
	return &ValueRecoder{mappings: make(map[string]string), prefix: prefix}
}

// Recode returns the recoded label for original, assigning a new one on
// first sight and reusing it on every subsequent call.
func (r *ValueRecoder) Recode(original string) string {
	if recoded, ok := r.mappings[original]; ok {
		return recoded
	}
	label := fmt.Sprintf("%s_%s", r.prefix, indexToLabel(r.counter))
	r.counter++
	r.mappings[original] = label
	return label
}

// Mappings returns the original-to-recoded map.
func (r *ValueRecoder) Mappings() map[string]string { return r.mappings }

// ReverseMappings returns the recoded-to-original map, for the sidekick file.
func (r *ValueRecoder) ReverseMappings() map[string]string {
	reverse := make(map[string]string, len(r.mappings))
	for original, recoded := range r.mappings {
		reverse[recoded] = original
	}
	return reverse
}

// Count returns the number of distinct originals recoded so far.
func (r *ValueRecoder) Count() int { return len(r.mappings) }

// indexToLabel converts a 0-based index to a bijective base-26 label:
// 0=A, 1=B, ..., 25=Z, 26=AA, 27=AB, ..., 51=AZ, 52=BA, ...
// This is NOT naive base-26 conversion: after the first digit there is no
// "zero" letter, which is why n is offset by n/26-1 on each iteration
// rather than dividing by 26 directly.
func indexToLabel(index int) string {
	var letters []byte
	n := index
	for {
		remainder := n % 26
		letters = append([]byte{byte('A' + remainder)}, letters...)
		if n < 26 {
			break
		}
		n = n/26 - 1
	}
	return string(letters)
}

// RecodeRegistry holds one ValueRecoder per column registered for recoding,
// plus the column names needed to label the sidekick file.
type RecodeRegistry struct {
	recoders    map[int]*ValueRecoder
	columnNames map[int]string
}

// NewRecodeRegistry returns an empty registry.
func NewRecodeRegistry() *RecodeRegistry {
	return &RecodeRegistry{
		recoders:    make(map[int]*ValueRecoder),
		columnNames: make(map[int]string),
	}
}

// RegisterColumn enrolls columnIndex for recoding under prefix.
func (reg *RecodeRegistry) RegisterColumn(columnIndex int, columnName, prefix string) {
	reg.recoders[columnIndex] = NewValueRecoder(prefix)
	reg.columnNames[columnIndex] = columnName
}

// MergeFrom absorbs other's recoders into reg, offsetting every column key
// by keyOffset so per-sheet registries from a multi-sheet workbook can be
// combined without their column indices colliding, and prepending
// namePrefix to each column's sidekick label (e.g. a sheet name) so the
// combined file can still tell which sheet a recoded column came from.
func (reg *RecodeRegistry) MergeFrom(other *RecodeRegistry, keyOffset int, namePrefix string) {
	for idx, r := range other.recoders {
		reg.recoders[idx+keyOffset] = r
		reg.columnNames[idx+keyOffset] = namePrefix + other.columnNames[idx]
	}
}

// Recode recodes original for columnIndex, or returns ok=false if the
// column was never registered.
func (reg *RecodeRegistry) Recode(columnIndex int, original string) (string, bool) {
	r, ok := reg.recoders[columnIndex]
	if !ok {
		return "", false
	}
	return r.Recode(original), true
}

// IsRecoded reports whether columnIndex is registered for recoding.
func (reg *RecodeRegistry) IsRecoded(columnIndex int) bool {
	_, ok := reg.recoders[columnIndex]
	return ok
}

// RecodedValues returns the sorted, distinct recoded labels for columnIndex.
func (reg *RecodeRegistry) RecodedValues(columnIndex int) ([]string, bool) {
	r, ok := reg.recoders[columnIndex]
	if !ok {
		return nil, false
	}
	values := make([]string, 0, len(r.mappings))
	for _, recoded := range r.mappings {
		values = append(values, recoded)
	}
	sort.Strings(values)
	return values, true
}

// HasRecodings reports whether any column recoded at least one value.
func (reg *RecodeRegistry) HasRecodings() bool {
	for _, r := range reg.recoders {
		if r.Count() > 0 {
			return true
		}
	}
	return false
}

// GenerateSidekickContent renders the human-readable recode mapping file
// (spec.md §4.F), sorted by column index then by recoded label.
func (reg *RecodeRegistry) GenerateSidekickContent(generatedAt string) string {
	var b strings.Builder
	b.WriteString("# Manifest Recode Mapping\n")
	b.WriteString("# CONFIDENTIAL - keep this file secure at your site\n")
	fmt.Fprintf(&b, "# Generated: %s\n\n", generatedAt)

	indices := make([]int, 0, len(reg.recoders))
	for idx := range reg.recoders {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for _, idx := range indices {
		recoder := reg.recoders[idx]
		name := reg.columnNames[idx]
		fmt.Fprintf(&b, "## Column %d: %s\n\n", idx+1, name)

		reverse := recoder.ReverseMappings()
		labels := make([]string, 0, len(reverse))
		for label := range reverse {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		for _, label := range labels {
			fmt.Fprintf(&b, "%s = %s\n", label, reverse[label])
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
