package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

func TestNewAndWrap(t *testing.T) {
	base := errors.New(errors.ErrorTypeFile, "H5Dwrite")
	assert.Equal(t, "file: H5Dwrite", base.Error())
	assert.NotEmpty(t, base.Stack)

	wrapped := errors.Wrap(base, errors.ErrorTypeInternal, "appending row")
	assert.Equal(t, "internal: appending row: file: H5Dwrite", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))

	// Wrapping preserves the original stack.
	assert.Equal(t, base.Stack, wrapped.Stack)

	assert.Nil(t, errors.Wrap(nil, errors.ErrorTypeInternal, "no-op"))
}

func TestIsType(t *testing.T) {
	err := errors.Newf(errors.ErrorTypeLocked, "table %q is locked", "demo")
	assert.True(t, errors.IsType(err, errors.ErrorTypeLocked))
	assert.False(t, errors.IsType(err, errors.ErrorTypeFile))
	assert.False(t, errors.IsType(stderrors.New("plain"), errors.ErrorTypeFile))

	wrapped := errors.Wrap(err, errors.ErrorTypeFile, "outer")
	assert.True(t, errors.IsType(wrapped, errors.ErrorTypeFile))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrorTypeConfig, "bad url").
		WithDetail("url", "file:x?bogus=1")
	require.NotNil(t, err.Details)
	assert.Equal(t, "file:x?bogus=1", err.Details["url"])
}
