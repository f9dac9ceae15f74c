package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesTaxonomy(t *testing.T) {
	wrapped := Wrapf(ErrDuplicatedTypeName, "type %q in group %q", "Item", "default")

	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), `type "Item" in group "default"`)
	assert.Contains(t, wrapped.Error(), "duplicated type name")
	assert.True(t, Is(wrapped, ErrDuplicatedTypeName))
	assert.False(t, Is(wrapped, ErrGroupNotFound))
}

func TestWrapHasStack(t *testing.T) {
	err := Wrap(ErrInvalidPath, "raws/missing.yaml")
	assert.NotNil(t, GetStack(err), "wrapped taxonomy errors should carry a stack trace")
}

func TestHints(t *testing.T) {
	err := WithHint(Wrap(ErrUnsupportedFormat, "extension csv"), "available extensions: json, yaml, yml")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "available extensions: json, yaml, yml", hints[0])
	assert.True(t, Is(err, ErrUnsupportedFormat))
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		configuration bool
		misuse        bool
	}{
		{"nil", nil, false, false},
		{"invalid path", ErrInvalidPath, true, false},
		{"unsupported format", ErrUnsupportedFormat, true, false},
		{"malformed raw", ErrMalformedRaw, true, false},
		{"group not found", ErrGroupNotFound, true, false},
		{"type not found", ErrTypeNotFound, true, false},
		{"duplicated type name", Wrap(ErrDuplicatedTypeName, "ctx"), true, false},
		{"invalid record", ErrInvalidRecord, true, false},
		{"template base", ErrCannotInstanceTemplate, false, true},
		{"type error", Wrapf(ErrTypeError, "load on %s", "ModelBase"), false, true},
		{"invalid adapter", ErrInvalidAdapter, false, true},
		{"unrelated", New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.configuration, IsConfigurationError(tt.err))
			assert.Equal(t, tt.misuse, IsMisuseError(tt.err))
		})
	}
}

func TestTaxonomyErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrInvalidPath, ErrUnsupportedFormat, ErrMalformedRaw, ErrGroupNotFound,
		ErrTypeNotFound, ErrDuplicatedTypeName, ErrInvalidRecord,
		ErrCannotInstanceTemplate, ErrTypeError, ErrInvalidAdapter,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
