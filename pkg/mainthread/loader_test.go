package mainthread

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

func TestDeduplicatePackages(t *testing.T) {
	tests := []struct {
		name     string
		input    []*packages.Package
		expected []string // IDs after deduplication, in order
	}{
		{
			name: "regular_and_test_variant",
			input: []*packages.Package{
				{PkgPath: "example.com/ext", ID: "example.com/ext"},
				{PkgPath: "example.com/ext", ID: "example.com/ext [example.com/ext.test]"},
			},
			expected: []string{"example.com/ext [example.com/ext.test]"},
		},
		{
			name: "test_variant_first",
			input: []*packages.Package{
				{PkgPath: "example.com/ext", ID: "example.com/ext [example.com/ext.test]"},
				{PkgPath: "example.com/ext", ID: "example.com/ext"},
			},
			expected: []string{"example.com/ext [example.com/ext.test]"},
		},
		{
			name: "test_binary_filtered",
			input: []*packages.Package{
				{PkgPath: "example.com/ext", ID: "example.com/ext"},
				{PkgPath: "example.com/ext.test", ID: "example.com/ext.test"},
			},
			expected: []string{"example.com/ext"},
		},
		{
			name: "external_test_package",
			input: []*packages.Package{
				{PkgPath: "example.com/ext_test", ID: "example.com/ext_test [example.com/ext.test]"},
				{PkgPath: "example.com/ext", ID: "example.com/ext"},
			},
			expected: []string{"example.com/ext", "example.com/ext_test [example.com/ext.test]"},
		},
		{
			name: "sorted_by_path",
			input: []*packages.Package{
				{PkgPath: "example.com/ext/ui", ID: "example.com/ext/ui"},
				{PkgPath: "example.com/ext/interop", ID: "example.com/ext/interop"},
				{PkgPath: "example.com/ext", ID: "example.com/ext"},
			},
			expected: []string{"example.com/ext", "example.com/ext/interop", "example.com/ext/ui"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, pkg := range deduplicatePackages(tt.input) {
				ids = append(ids, pkg.ID)
			}
			require.Equal(t, tt.expected, ids)
		})
	}
}

func TestIsSuperset(t *testing.T) {
	regular := &packages.Package{ID: "ext"}
	variant := &packages.Package{ID: "ext [ext.test]"}

	require.True(t, isSuperset(variant, regular))
	require.False(t, isSuperset(regular, variant))
	require.False(t, isSuperset(regular, regular))
	require.False(t, isSuperset(variant, variant))
}
